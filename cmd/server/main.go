package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reelcoach/internal/server"
	"reelcoach/shared/ai"
	"reelcoach/shared/config"
	"reelcoach/shared/media"
	"reelcoach/shared/monitoring"
	"reelcoach/shared/pipeline"
	"reelcoach/shared/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fetcher, err := media.NewFetcher(ctx, &cfg.Media)
	if err != nil {
		log.Fatalf("Failed to create metadata fetcher: %v", err)
	}

	transcriber, err := ai.NewTranscriber(&cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create transcriber: %v", err)
	}

	reporter, err := ai.NewReporter(&cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create reporter: %v", err)
	}

	scriptWriter, err := ai.NewScriptWriter(&cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create script writer: %v", err)
	}

	pipe := pipeline.New(fetcher, transcriber, reporter)
	store := storage.NewResultStore(cfg.Storage.DataDir)
	monitor := monitoring.NewMonitor()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(pipe, store, scriptWriter, monitor).Handler(),
	}

	go func() {
		log.Printf("Server listening on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
