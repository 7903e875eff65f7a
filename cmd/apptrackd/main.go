package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apptrack/internal/common"
	"apptrack/internal/export"
	"apptrack/internal/extract"
	"apptrack/internal/ingest"
	"apptrack/internal/llm/ollama"
	"apptrack/internal/mailbox"
	"apptrack/internal/repository"
	"apptrack/internal/resume"
	"apptrack/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	log := common.NewLogger(cfg.Server.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}

	apps := repository.NewApplicationRepository(db, log)
	profiles := repository.NewProfileStore(cfg.Storage.ProfileDir, log)

	backend := ollama.NewClient(ollama.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, log)
	extractor := extract.New(backend, backend.Model(), log)

	builder := resume.NewBuilder(extractor, profiles, cfg.Storage.ResumeDir, log)
	exporter := export.NewService(apps, log)

	var newIngest server.IngestFactory
	if cfg.Mail.Address != "" {
		newIngest = func(ctx context.Context) (*ingest.Service, func(), error) {
			session, err := mailbox.Connect(cfg.Mail, log)
			if err != nil {
				return nil, nil, err
			}
			svc := ingest.NewService(session, extractor, apps, cfg.Mail.FetchLimit, log)
			return svc, func() { _ = session.Close() }, nil
		}
	}

	srv := server.New(cfg.Server, server.Deps{
		Apps:      apps,
		Profiles:  profiles,
		Extractor: extractor,
		Builder:   builder,
		Exporter:  exporter,
		NewIngest: newIngest,
		UploadDir: cfg.Storage.UploadDir,
		ResumeDir: cfg.Storage.ResumeDir,
	}, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	fmt.Println("stopped.")
}
