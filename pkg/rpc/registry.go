package rpc

import (
	"context"
	"sync"

	"github.com/lumenclass/boardlink/pkg/logger"
	"github.com/lumenclass/boardlink/pkg/session"
	"github.com/lumenclass/boardlink/pkg/wire"
)

// Handler is the logical procedure body: it decodes the call's params and
// returns ack result fields, or an error that travels back to the agent as
// a failed call.
type Handler func(ctx context.Context, call wire.Call) (map[string]interface{}, error)

// Transport is the session surface the registry depends on. Satisfied by
// *session.Session.
type Transport interface {
	ID() string
	Connected() bool
	Bind(method string, h session.RawHandler) error
	Unbind(method string)
	Respond(ack wire.Ack) error
}

// handlerCell is the mutable indirection between a stable transport binding
// and a replaceable logical handler. The transport binding is created once
// per (session, method) and always invokes whatever the cell currently holds.
type handlerCell struct {
	mu sync.RWMutex
	fn Handler
}

func (c *handlerCell) set(fn Handler) {
	c.mu.Lock()
	c.fn = fn
	c.mu.Unlock()
}

func (c *handlerCell) get() Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fn
}

// binding.mu serializes the bound check with the transport Bind call so two
// concurrent Registers for a fresh pair cannot both create the transport
// binding.
type binding struct {
	method string
	cell   *handlerCell
	mu     sync.Mutex
	bound  bool
}

// Registry keeps at most one active binding per (session, method) pair.
// Registering an already-registered pair swaps the handler cell and is
// otherwise a silent no-op; it never re-wraps the transport.
type Registry struct {
	mu       sync.Mutex
	bindings map[string]*binding
}

func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]*binding),
	}
}

func bindingKey(sessionID, method string) string {
	return sessionID + "/" + method
}

// Register installs handler for method on the given session and returns the
// matching unregister function. Registration while the transport is not
// ready is parked and retried by Resync; the skip is logged, not fatal.
func (r *Registry) Register(t Transport, method string, handler Handler) func() {
	key := bindingKey(t.ID(), method)

	r.mu.Lock()
	b, exists := r.bindings[key]
	if exists {
		b.cell.set(handler)
	} else {
		b = &binding{method: method, cell: &handlerCell{fn: handler}}
		r.bindings[key] = b
	}
	r.mu.Unlock()

	r.ensureBound(t, b)

	return func() {
		r.unregister(t, key)
	}
}

// Resync retries transport bindings for a session, typically from the
// session's ready callback after a (re)connect.
func (r *Registry) Resync(t Transport) {
	r.mu.Lock()
	pending := make([]*binding, 0, len(r.bindings))
	prefix := t.ID() + "/"
	for key, b := range r.bindings {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			pending = append(pending, b)
		}
	}
	r.mu.Unlock()

	for _, b := range pending {
		b.mu.Lock()
		b.bound = false
		b.mu.Unlock()
		r.ensureBound(t, b)
	}
}

func (r *Registry) ensureBound(t Transport, b *binding) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bound {
		return
	}

	if err := t.Bind(b.method, r.dispatcher(t, b.cell)); err != nil {
		logger.DebugCF("rpc", "Registration deferred, transport not ready", map[string]interface{}{
			"method":  b.method,
			"session": t.ID(),
		})
		return
	}
	b.bound = true

	logger.InfoCF("rpc", "Procedure registered", map[string]interface{}{
		"method":  b.method,
		"session": t.ID(),
	})
}

// dispatcher adapts a handler cell to the transport. Handler errors are
// propagated to the caller as failed calls; the agent depends on call
// success for its own control flow, so they are never swallowed.
func (r *Registry) dispatcher(t Transport, cell *handlerCell) session.RawHandler {
	return func(ctx context.Context, call wire.Call) {
		handler := cell.get()
		if handler == nil {
			return
		}

		result, err := handler(ctx, call)
		if err != nil {
			logger.WarnCF("rpc", "Handler failed", map[string]interface{}{
				"method": call.Method,
				"error":  err.Error(),
			})
			_ = t.Respond(wire.Ack{ID: call.ID, Success: false, Error: err.Error()})
			return
		}

		_ = t.Respond(wire.Ack{ID: call.ID, Success: true, Result: result})
	}
}

func (r *Registry) unregister(t Transport, key string) {
	r.mu.Lock()
	b, exists := r.bindings[key]
	if exists {
		delete(r.bindings, key)
	}
	r.mu.Unlock()

	if !exists {
		return
	}

	b.mu.Lock()
	bound := b.bound
	b.bound = false
	b.mu.Unlock()

	if bound {
		t.Unbind(b.method)
	}
}
