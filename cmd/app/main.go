package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"okx_bridge/internal/app"
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Webhook server (blocks until shutdown)
	slog.InfoContext(ctx, "✨ OKX bridge operational. Press Ctrl+C to exit.")
	if err := bootstrap.Server.Start(ctx); err != nil {
		slog.Error("webhook server failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
