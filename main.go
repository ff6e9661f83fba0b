package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pmrelay/internal/config"
	"pmrelay/internal/http/http_server"
	"pmrelay/internal/relay"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully",
		zap.String("scheme", cfg.Scheme),
		zap.String("host", cfg.Host),
		zap.Uint16("port", cfg.Port),
		zap.String("resource", cfg.Resource),
	)

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Relay core: gate + the statically configured channel set
	relaySrv := relay.NewServer(cfg.ServiceKey, relay.DefaultSpecs())

	// 4. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg, relaySrv)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
