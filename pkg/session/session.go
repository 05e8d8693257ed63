package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lumenclass/boardlink/pkg/config"
	"github.com/lumenclass/boardlink/pkg/logger"
	"github.com/lumenclass/boardlink/pkg/wire"
)

// ErrNotReady is returned by Bind while no gateway connection is live.
// Callers defer and retry when the session reconnects.
var ErrNotReady = errors.New("session transport not ready")

// RawHandler receives one inbound call frame. Handlers run on their own
// goroutine so a suspended handler never blocks later calls.
type RawHandler func(ctx context.Context, call wire.Call)

// Session is one live connection to the gateway. Frames are read in arrival
// order; bindings are method-name lookups into the dispatch table and are
// dropped on disconnect so the registry re-establishes them on ready.
type Session struct {
	id  string
	cfg config.GatewayConfig

	mu       sync.RWMutex
	conn     *websocket.Conn
	bindings map[string]RawHandler
	onReady  []func()

	writeMu sync.Mutex
}

func New(cfg config.GatewayConfig) *Session {
	return &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		bindings: make(map[string]RawHandler),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn != nil
}

// OnReady registers a callback fired after every successful (re)connect.
func (s *Session) OnReady(fn func()) {
	s.mu.Lock()
	s.onReady = append(s.onReady, fn)
	s.mu.Unlock()
}

// Bind installs the dispatch entry for a method. Fails with ErrNotReady
// while disconnected; idempotence across re-registration lives in the
// registry above, not here.
func (s *Session) Bind(method string, h RawHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotReady
	}
	s.bindings[method] = h
	return nil
}

func (s *Session) Unbind(method string) {
	s.mu.Lock()
	delete(s.bindings, method)
	s.mu.Unlock()
}

// Respond writes one ack frame. gorilla connections allow a single
// concurrent writer, so writes are serialized here.
func (s *Session) Respond(ack wire.Ack) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return ErrNotReady
	}

	data, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("marshal ack: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Run dials the gateway and keeps the connection alive with capped
// exponential backoff until the context is canceled.
func (s *Session) Run(ctx context.Context) error {
	minWait := time.Duration(s.cfg.ReconnectMinSeconds) * time.Second
	maxWait := time.Duration(s.cfg.ReconnectMaxSeconds) * time.Second
	if minWait <= 0 {
		minWait = time.Second
	}
	if maxWait < minWait {
		maxWait = minWait
	}
	wait := minWait

	for {
		err := s.connect(ctx)
		if err == nil {
			wait = minWait
			err = s.readLoop(ctx)
		}

		s.teardownConn()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.WarnCF("session", "Gateway connection lost, reconnecting", map[string]interface{}{
			"error":   fmt.Sprintf("%v", err),
			"wait":    wait.String(),
			"session": s.id,
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > maxWait {
			wait = maxWait
		}
	}
}

func (s *Session) connect(ctx context.Context) error {
	header := http.Header{}
	if s.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
	if s.cfg.Room != "" {
		header.Set("X-Boardlink-Room", s.cfg.Room)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	ready := append([]func(){}, s.onReady...)
	s.mu.Unlock()

	logger.InfoCF("session", "Connected to gateway", map[string]interface{}{
		"url":     s.cfg.URL,
		"session": s.id,
	})

	for _, fn := range ready {
		fn()
	}
	return nil
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()
		if conn == nil {
			return ErrNotReady
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var call wire.Call
		if err := json.Unmarshal(data, &call); err != nil {
			logger.WarnCF("session", "Dropping unparseable frame", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		if call.Method == "" {
			continue
		}

		s.dispatch(ctx, call)
	}
}

func (s *Session) dispatch(ctx context.Context, call wire.Call) {
	s.mu.RLock()
	h := s.bindings[call.Method]
	s.mu.RUnlock()

	if h == nil {
		_ = s.Respond(wire.Ack{
			ID:      call.ID,
			Success: false,
			Error:   "unknown method: " + call.Method,
		})
		return
	}

	go h(ctx, call)
}

func (s *Session) teardownConn() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	// Bindings are per-connection; the registry resyncs them on ready.
	s.bindings = make(map[string]RawHandler)
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Close tears down the live connection, if any.
func (s *Session) Close() error {
	s.teardownConn()
	return nil
}
