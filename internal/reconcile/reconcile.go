package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"apptrack/constants"
	"apptrack/internal/entity"
	"apptrack/internal/extract"
)

// Store is the lookup surface reconciliation needs. Find methods return
// (nil, nil) when no row matches.
type Store interface {
	FindByExternalID(ctx context.Context, externalID string) (*entity.Application, error)
	// FindByCompanySubstring matches rows whose stored company name
	// contains the given text, case-insensitively, oldest first.
	FindByCompanySubstring(ctx context.Context, company string) (*entity.Application, error)
	FindByPositionSubstring(ctx context.Context, position string) (*entity.Application, error)
}

// Document is the source message being reconciled against the store.
type Document struct {
	Subject    string
	Body       string
	ReceivedAt time.Time
	ExternalID string
}

// Action is the outcome class of a reconciliation pass.
type Action string

const (
	ActionDuplicate       Action = "duplicate"
	ActionCreate          Action = "create"
	ActionUpdateRejection Action = "update_rejection"
	ActionSkip            Action = "skip"
)

// RejectionFields is the partial update applied to an existing record
// when a later message reports a rejection. ExternalID ties the source
// message to the matched record so reprocessing it dedups at step one.
type RejectionFields struct {
	RejectionDate   time.Time
	RejectionReason *string
	ExternalID      string
}

// Decision is what the caller should do with the extracted fields.
// Exactly one of Create or Update is set, matching the Action.
type Decision struct {
	Action Action
	Create *entity.Application
	Target uint
	Update *RejectionFields
	Reason string
}

// Engine decides how extracted fields merge into the application store.
type Engine struct {
	store  Store
	logger *slog.Logger
}

func NewEngine(store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// Decide reconciles one extracted document against the store.
//
// Order matters: external-id dedup first, so reprocessing the same
// message is always a no-op regardless of its content. An extraction
// with no company name is a no-op next, whatever else it carries; a
// rejection signal alone is not enough to touch any record. Then
// rejection messages try to update the application they refer to,
// matching the stored company name as a superset of the extracted one
// ("Acme Corp" extracted matches "Acme Corp Inc." stored), falling
// back to position. Everything else creates a new record.
func (e *Engine) Decide(ctx context.Context, doc Document, f extract.Fields) (*Decision, error) {
	if doc.ExternalID != "" {
		existing, err := e.store.FindByExternalID(ctx, doc.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("dedup lookup: %w", err)
		}
		if existing != nil {
			e.logger.Info("reconcile.duplicate",
				"external_id", doc.ExternalID, "application_id", existing.ID)
			return &Decision{Action: ActionDuplicate, Target: existing.ID}, nil
		}
	}

	if f.CompanyName == nil {
		e.logger.Info("reconcile.skip", "reason", "no company name extracted")
		return &Decision{Action: ActionSkip, Reason: "no company name extracted"}, nil
	}

	if isRejection(doc, f) {
		match, err := e.findTarget(ctx, f)
		if err != nil {
			return nil, err
		}
		if match != nil {
			update := &RejectionFields{
				RejectionDate:   rejectionDate(doc, f),
				RejectionReason: f.RejectionReason,
				ExternalID:      doc.ExternalID,
			}
			e.logger.Info("reconcile.update_rejection",
				"application_id", match.ID, "company", match.CompanyName)
			return &Decision{Action: ActionUpdateRejection, Target: match.ID, Update: update}, nil
		}
		// No application to mark rejected; record it as a new row so
		// the rejection is not lost.
		app := e.buildRecord(doc, f)
		app.Status = string(constants.StatusRejected)
		if app.RejectionDate == nil {
			rd := rejectionDate(doc, f)
			app.RejectionDate = &rd
		}
		return &Decision{Action: ActionCreate, Create: app}, nil
	}

	return &Decision{Action: ActionCreate, Create: e.buildRecord(doc, f)}, nil
}

// isRejection is an OR over three signals: the extracted status, the
// word "reject" anywhere in the message, and an extracted rejection
// date. Any one suffices; models frequently miss one of them.
func isRejection(doc Document, f extract.Fields) bool {
	if f.Status == string(constants.StatusRejected) {
		return true
	}
	text := strings.ToLower(doc.Subject) + " " + strings.ToLower(doc.Body)
	if strings.Contains(text, "reject") {
		return true
	}
	return f.RejectionDate != nil
}

// findTarget locates the application a rejection refers to: company
// substring match first, position substring as fallback, oldest match
// wins.
func (e *Engine) findTarget(ctx context.Context, f extract.Fields) (*entity.Application, error) {
	if f.CompanyName != nil {
		match, err := e.store.FindByCompanySubstring(ctx, *f.CompanyName)
		if err != nil {
			return nil, fmt.Errorf("company lookup: %w", err)
		}
		if match != nil {
			return match, nil
		}
	}
	if f.Position != nil {
		match, err := e.store.FindByPositionSubstring(ctx, *f.Position)
		if err != nil {
			return nil, fmt.Errorf("position lookup: %w", err)
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}

// buildRecord shapes a new application row from extracted fields,
// filling required columns with placeholder defaults.
func (e *Engine) buildRecord(doc Document, f extract.Fields) *entity.Application {
	app := &entity.Application{
		CompanyName:     valueOr(f.CompanyName, constants.UnknownCompany),
		Position:        valueOr(f.Position, constants.UnspecifiedPosition),
		Status:          string(constants.NormalizeStatus(f.Status)),
		InterviewDate:   f.InterviewDate,
		RejectionDate:   f.RejectionDate,
		RejectionReason: f.RejectionReason,
		Notes:           f.Notes,
		JobURL:          f.JobURL,
		ContactEmail:    f.ContactEmail,
		Location:        f.Location,
		SalaryRange:     f.SalaryRange,
		Source:          ptr(constants.SourceEmail),
	}
	if f.AppliedDate != nil {
		app.AppliedDate = *f.AppliedDate
	} else {
		app.AppliedDate = extract.AtMidnight(doc.ReceivedAt)
	}
	if doc.ExternalID != "" {
		app.ExternalID = ptr(doc.ExternalID)
	}
	if app.RejectionDate != nil && app.Status != string(constants.StatusRejected) {
		app.Status = string(constants.StatusRejected)
	}
	return app
}

// rejectionDate prefers the extracted date and falls back to the day
// the message arrived.
func rejectionDate(doc Document, f extract.Fields) time.Time {
	if f.RejectionDate != nil {
		return *f.RejectionDate
	}
	return extract.AtMidnight(doc.ReceivedAt)
}

func valueOr(s *string, def string) string {
	if s != nil {
		return *s
	}
	return def
}

func ptr(s string) *string { return &s }
