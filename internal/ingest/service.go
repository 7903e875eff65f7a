package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"apptrack/constants"
	"apptrack/internal/cleaner"
	"apptrack/internal/entity"
	"apptrack/internal/extract"
	"apptrack/internal/mailbox"
	"apptrack/internal/reconcile"
)

// Inbox is the mailbox surface the service reads from.
type Inbox interface {
	FetchRecent(ctx context.Context, limit int) ([]mailbox.Email, error)
	FetchByUID(ctx context.Context, uid uint32) (*mailbox.Email, error)
}

// Extractor runs the model pipeline for one source document.
type Extractor interface {
	Extract(ctx context.Context, req extract.Request) (*extract.Result, error)
}

// Applications is the write side of the store, alongside the read
// methods reconciliation already uses.
type Applications interface {
	reconcile.Store
	Create(ctx context.Context, app *entity.Application) error
	UpdateRejection(ctx context.Context, id uint, upd *reconcile.RejectionFields) error
}

// Summary reports what one inbox sync did.
type Summary struct {
	Fetched    int `json:"fetched"`
	Relevant   int `json:"relevant"`
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Service syncs inbox messages into application records.
type Service struct {
	inbox      Inbox
	extractor  Extractor
	engine     *reconcile.Engine
	store      Applications
	fetchLimit int
	logger     *slog.Logger
}

func NewService(inbox Inbox, ex Extractor, store Applications, fetchLimit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if fetchLimit <= 0 {
		fetchLimit = 50
	}
	return &Service{
		inbox:      inbox,
		extractor:  ex,
		engine:     reconcile.NewEngine(store, logger),
		store:      store,
		fetchLimit: fetchLimit,
		logger:     logger,
	}
}

// SyncInbox processes the recent inbox window sequentially. Messages
// that fail extraction are counted and skipped; one bad message never
// aborts the sync. Sequential on purpose: the model backend serves one
// request at a time, so concurrency would only reorder the queue.
func (s *Service) SyncInbox(ctx context.Context) (*Summary, error) {
	start := time.Now()
	sum := &Summary{}

	emails, err := s.inbox.FetchRecent(ctx, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}
	sum.Fetched = len(emails)

	for _, em := range emails {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := s.processEmail(ctx, em, false)
		if err != nil {
			s.logger.Warn("ingest.message_failed",
				"uid", em.UID, "subject", em.Subject, "error", err)
			sum.Failed++
			continue
		}
		sum.apply(res)
	}

	s.logger.Info("ingest.sync_done",
		"fetched", sum.Fetched,
		"relevant", sum.Relevant,
		"created", sum.Created,
		"updated", sum.Updated,
		"duplicates", sum.Duplicates,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}

// ProcessSingle runs the pipeline for one message by UID, bypassing the
// job-keyword gate since the user asked for this specific message.
func (s *Service) ProcessSingle(ctx context.Context, uid uint32) (*reconcile.Decision, error) {
	em, err := s.inbox.FetchByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("fetch message %d: %w", uid, err)
	}
	res, err := s.processEmail(ctx, *em, true)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type outcome = reconcile.Decision

func (s *Service) processEmail(ctx context.Context, em mailbox.Email, force bool) (*outcome, error) {
	body := em.Body
	if em.BodyIsHTML {
		cleaned, err := cleaner.CleanHTML(body)
		if err != nil {
			s.logger.Warn("ingest.clean_failed", "uid", em.UID, "error", err)
		} else {
			body = cleaned
		}
	}

	if !force && !constants.IsJobRelated(em.Subject, body) {
		return &outcome{Action: reconcile.ActionSkip, Reason: "not job related"}, nil
	}

	// Cheap dedup before spending a model call.
	if em.ExternalID != "" {
		existing, err := s.store.FindByExternalID(ctx, em.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("dedup precheck: %w", err)
		}
		if existing != nil {
			return &outcome{Action: reconcile.ActionDuplicate, Target: existing.ID}, nil
		}
	}

	res, err := s.extractor.Extract(ctx, extract.Request{
		Kind:    extract.KindEmail,
		Subject: em.Subject,
		Text:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	doc := reconcile.Document{
		Subject:    em.Subject,
		Body:       body,
		ReceivedAt: em.ReceivedAt,
		ExternalID: em.ExternalID,
	}
	decision, err := s.engine.Decide(ctx, doc, res.Fields)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	switch decision.Action {
	case reconcile.ActionCreate:
		if err := s.store.Create(ctx, decision.Create); err != nil {
			return nil, fmt.Errorf("create application: %w", err)
		}
		decision.Target = decision.Create.ID
	case reconcile.ActionUpdateRejection:
		if err := s.store.UpdateRejection(ctx, decision.Target, decision.Update); err != nil {
			return nil, fmt.Errorf("update rejection: %w", err)
		}
	}
	return decision, nil
}

// EmailPreview is a list-view row for the inbox browser.
type EmailPreview struct {
	UID        uint32    `json:"uid"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	Preview    string    `json:"preview"`
	ReceivedAt time.Time `json:"received_at"`
	JobRelated bool      `json:"job_related"`
	Processed  bool      `json:"processed"`
}

// ListEmails returns the recent inbox window as previews, flagging
// which messages look job related and which are already tracked.
func (s *Service) ListEmails(ctx context.Context) ([]EmailPreview, error) {
	emails, err := s.inbox.FetchRecent(ctx, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}

	previews := make([]EmailPreview, 0, len(emails))
	for _, em := range emails {
		body := em.Body
		if em.BodyIsHTML {
			if cleaned, err := cleaner.CleanHTML(body); err == nil {
				body = cleaned
			}
		}

		processed := false
		if em.ExternalID != "" {
			existing, err := s.store.FindByExternalID(ctx, em.ExternalID)
			if err != nil {
				return nil, fmt.Errorf("lookup %s: %w", em.ExternalID, err)
			}
			processed = existing != nil
		}

		previews = append(previews, EmailPreview{
			UID:        em.UID,
			Subject:    em.Subject,
			From:       em.From,
			Preview:    cleaner.Preview(body, 200),
			ReceivedAt: em.ReceivedAt,
			JobRelated: constants.IsJobRelated(em.Subject, body),
			Processed:  processed,
		})
	}
	return previews, nil
}

func (s *Summary) apply(d *reconcile.Decision) {
	switch d.Action {
	case reconcile.ActionCreate:
		s.Relevant++
		s.Created++
	case reconcile.ActionUpdateRejection:
		s.Relevant++
		s.Updated++
	case reconcile.ActionDuplicate:
		s.Relevant++
		s.Duplicates++
	case reconcile.ActionSkip:
		s.Skipped++
	}
}
