package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lumenclass/boardlink/pkg/audio"
	"github.com/lumenclass/boardlink/pkg/board"
	"github.com/lumenclass/boardlink/pkg/config"
	"github.com/lumenclass/boardlink/pkg/logger"
	"github.com/lumenclass/boardlink/pkg/render"
	"github.com/lumenclass/boardlink/pkg/rpc"
	"github.com/lumenclass/boardlink/pkg/session"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.FatalC("main", "Failed to load config: "+err.Error())
	}

	setupLogging(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := session.New(cfg.Gateway)
	registry := rpc.NewRegistry()
	b := board.New(render.New(), board.NewNoopCue(), time.Duration(cfg.Board.FocusClearSeconds)*time.Second)
	extractor := audio.NewExtractor(cfg.Audio)

	sess.OnReady(func() {
		registry.Resync(sess)
	})
	teardown := rpc.RegisterBoardMethods(registry, sess, b)

	logger.InfoCF("main", "boardlink starting", map[string]interface{}{
		"gateway": cfg.Gateway.URL,
		"room":    cfg.Gateway.Room,
	})

	err = sess.Run(ctx)

	teardown()
	b.Teardown()
	extractor.Detach()
	sess.Close()

	if err != nil && ctx.Err() == nil {
		logger.FatalC("main", "Session ended: "+err.Error())
	}
	logger.InfoC("main", "boardlink stopped")
}

func setupLogging(cfg *config.Config) {
	switch cfg.LogLevel() {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	default:
		logger.SetLevel(logger.INFO)
	}

	if cfg.Logging.FileEnabled {
		if err := logger.EnableFileLogging(cfg.LogPath()); err != nil {
			logger.WarnC("main", "File logging unavailable: "+err.Error())
		}
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "boardlink.json"
	}
	return filepath.Join(home, ".boardlink", "config.json")
}
