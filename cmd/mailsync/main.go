package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apptrack/internal/common"
	"apptrack/internal/extract"
	"apptrack/internal/ingest"
	"apptrack/internal/llm/ollama"
	"apptrack/internal/mailbox"
	"apptrack/internal/repository"
)

// mailsync runs one inbox sync pass and exits. Meant for cron.
func main() {
	var (
		limit   = flag.Int("limit", 0, "inbox window size (default EMAIL_FETCH_LIMIT)")
		timeout = flag.Duration("timeout", 15*time.Minute, "overall run deadline")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	log := common.NewLogger(cfg.Server.LogLevel)

	if cfg.Mail.Address == "" {
		log.Error("EMAIL_ADDRESS is required")
		os.Exit(1)
	}
	if *limit > 0 {
		cfg.Mail.FetchLimit = *limit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := repository.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	apps := repository.NewApplicationRepository(db, log)

	backend := ollama.NewClient(ollama.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, log)
	extractor := extract.New(backend, backend.Model(), log)

	session, err := mailbox.Connect(cfg.Mail, log)
	if err != nil {
		log.Error("mailbox connect failed", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	svc := ingest.NewService(session, extractor, apps, cfg.Mail.FetchLimit, log)
	sum, err := svc.SyncInbox(ctx)
	if err != nil {
		log.Error("sync failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("fetched=%d relevant=%d created=%d updated=%d duplicates=%d skipped=%d failed=%d\n",
		sum.Fetched, sum.Relevant, sum.Created, sum.Updated, sum.Duplicates, sum.Skipped, sum.Failed)
}
