package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/freeform/internal/api"
	"github.com/dgallion1/freeform/internal/config"
	"github.com/dgallion1/freeform/internal/memo"
	"github.com/dgallion1/freeform/internal/pipeline"
	"github.com/dgallion1/freeform/internal/signature"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the signature memo.
	store, err := memo.Open(cfg.MemoPath)
	if err != nil {
		log.Error("failed to open memo", "path", cfg.MemoPath, "error", err)
		os.Exit(1)
	}
	signer := signature.NewSigner(store, signature.NewStats(cfg.StatsWindow), log.With("component", "signer"))

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, signer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		if err := store.Close(); err != nil {
			log.Warn("memo close failed", "error", err)
		}
	}()

	log.Info("starting freeform", "port", cfg.Port, "memo", cfg.MemoPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
