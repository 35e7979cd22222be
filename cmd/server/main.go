package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent-match/internal/app"
	"talent-match/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=config_load err=%q", err.Error())
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("level=fatal msg=listen_addr port=%q err=%q", cfg.App.HTTPPort, err.Error())
	}

	srv, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("level=fatal msg=bootstrap err=%q", err.Error())
	}
	logger := srv.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("level=info msg=http_listen addr=%s", addr)
		errCh <- srv.Fiber.Listen(addr)
	}()

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Printf("level=error msg=http_listen err=%q", err.Error())
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Printf("level=info msg=shutdown_started live_recordings=%d", srv.Recordings.Active())
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Fiber.ShutdownWithContext(sctx); err != nil {
		logger.Printf("level=warn msg=http_shutdown err=%q", err.Error())
	}
	if n := srv.Recordings.Drain(sctx); n > 0 {
		logger.Printf("level=warn msg=shutdown_recordings_abandoned count=%d", n)
	}
	if err := cleanup(); err != nil {
		logger.Printf("level=warn msg=cleanup err=%q", err.Error())
	}
	logger.Printf("level=info msg=shutdown_done")
	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}
