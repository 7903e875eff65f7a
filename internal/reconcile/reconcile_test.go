package reconcile

import (
	"context"
	"strings"
	"testing"
	"time"

	"apptrack/internal/entity"
	"apptrack/internal/extract"
)

type fakeStore struct {
	apps []entity.Application
}

func (f *fakeStore) FindByExternalID(_ context.Context, externalID string) (*entity.Application, error) {
	for i := range f.apps {
		if f.apps[i].ExternalID != nil && *f.apps[i].ExternalID == externalID {
			return &f.apps[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByCompanySubstring(_ context.Context, company string) (*entity.Application, error) {
	for i := range f.apps {
		if strings.Contains(strings.ToLower(f.apps[i].CompanyName), strings.ToLower(company)) {
			return &f.apps[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByPositionSubstring(_ context.Context, position string) (*entity.Application, error) {
	for i := range f.apps {
		if strings.Contains(strings.ToLower(f.apps[i].Position), strings.ToLower(position)) {
			return &f.apps[i], nil
		}
	}
	return nil, nil
}

func strp(s string) *string { return &s }

var received = time.Date(2026, 5, 14, 16, 45, 0, 0, time.UTC)

func TestDecideDuplicateWinsOverEverything(t *testing.T) {
	store := &fakeStore{apps: []entity.Application{
		{ID: 7, CompanyName: "Acme Corp", Position: "SRE", ExternalID: strp("msg-1")},
	}}
	engine := NewEngine(store, nil)

	doc := Document{Subject: "Rejection", Body: "we regret to reject", ReceivedAt: received, ExternalID: "msg-1"}
	d, err := engine.Decide(context.Background(), doc, extract.Fields{
		CompanyName: strp("Acme Corp"),
		Status:      "rejected",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionDuplicate {
		t.Errorf("action = %v, want duplicate", d.Action)
	}
	if d.Target != 7 {
		t.Errorf("target = %d, want 7", d.Target)
	}
}

func TestDecideCreateWithDefaults(t *testing.T) {
	engine := NewEngine(&fakeStore{}, nil)

	doc := Document{Subject: "Thanks for applying", ReceivedAt: received, ExternalID: "msg-2"}
	d, err := engine.Decide(context.Background(), doc, extract.Fields{
		CompanyName: strp("Globex"),
		Status:      "pending",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionCreate {
		t.Fatalf("action = %v, want create", d.Action)
	}
	app := d.Create
	if app.Position != "Not Specified" {
		t.Errorf("position = %q, want placeholder", app.Position)
	}
	wantApplied := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)
	if !app.AppliedDate.Equal(wantApplied) {
		t.Errorf("applied_date = %v, want received-day midnight", app.AppliedDate)
	}
	if app.ExternalID == nil || *app.ExternalID != "msg-2" {
		t.Errorf("external_id = %v", app.ExternalID)
	}
}

func TestDecideSkipsRejectionWithoutCompanyDespitePositionMatch(t *testing.T) {
	// A rejection with no extracted company must not touch any record,
	// even when the position lines up with a stored one.
	store := &fakeStore{apps: []entity.Application{
		{ID: 4, CompanyName: "Hooli", Position: "Platform Engineer"},
	}}
	engine := NewEngine(store, nil)

	doc := Document{
		Subject:    "Application update",
		Body:       "we decided to reject your candidacy",
		ReceivedAt: received,
		ExternalID: "msg-7",
	}
	d, err := engine.Decide(context.Background(), doc, extract.Fields{
		Position: strp("Platform Engineer"),
		Status:   "rejected",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionSkip {
		t.Errorf("action = %v, want skip", d.Action)
	}
}

func TestDecideSkipWithoutCompany(t *testing.T) {
	engine := NewEngine(&fakeStore{}, nil)

	doc := Document{Subject: "Your application", ReceivedAt: received}
	d, err := engine.Decide(context.Background(), doc, extract.Fields{Status: "pending"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionSkip {
		t.Errorf("action = %v, want skip", d.Action)
	}
}

func TestDecideRejectionMatchesStoredSuperset(t *testing.T) {
	// The stored name is longer than the extracted one; the stored value
	// is the haystack.
	store := &fakeStore{apps: []entity.Application{
		{ID: 3, CompanyName: "Acme Corp Inc.", Position: "Backend Engineer"},
	}}
	engine := NewEngine(store, nil)

	rd := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	doc := Document{Subject: "Update on your application", ReceivedAt: received, ExternalID: "msg-3"}
	d, err := engine.Decide(context.Background(), doc, extract.Fields{
		CompanyName:     strp("Acme Corp"),
		Status:          "rejected",
		RejectionDate:   &rd,
		RejectionReason: strp("position filled"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionUpdateRejection {
		t.Fatalf("action = %v, want update_rejection", d.Action)
	}
	if d.Target != 3 {
		t.Errorf("target = %d, want 3", d.Target)
	}
	if !d.Update.RejectionDate.Equal(rd) {
		t.Errorf("rejection_date = %v, want %v", d.Update.RejectionDate, rd)
	}
	if d.Update.RejectionReason == nil || *d.Update.RejectionReason != "position filled" {
		t.Errorf("rejection_reason = %v", d.Update.RejectionReason)
	}
	// The update carries the message id so a re-sync dedups at step one.
	if d.Update.ExternalID != "msg-3" {
		t.Errorf("external_id = %q, want msg-3", d.Update.ExternalID)
	}
}

func TestDecideRejectionKeywordAndPositionFallback(t *testing.T) {
	store := &fakeStore{apps: []entity.Application{
		{ID: 9, CompanyName: "Hooli", Position: "Staff Platform Engineer"},
	}}
	engine := NewEngine(store, nil)

	// Status came back pending and no company matched, but the body says
	// "reject" and the position lines up.
	doc := Document{
		Subject:    "Platform Engineer role",
		Body:       "we have decided to reject your candidacy",
		ReceivedAt: received,
		ExternalID: "msg-4",
	}
	d, err := engine.Decide(context.Background(), doc, extract.Fields{
		CompanyName: strp("Some Recruiting Agency"),
		Position:    strp("Platform Engineer"),
		Status:      "pending",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionUpdateRejection {
		t.Fatalf("action = %v, want update_rejection", d.Action)
	}
	if d.Target != 9 {
		t.Errorf("target = %d, want 9", d.Target)
	}
	// No extracted rejection date: falls back to the received day.
	want := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)
	if !d.Update.RejectionDate.Equal(want) {
		t.Errorf("rejection_date = %v, want %v", d.Update.RejectionDate, want)
	}
}

func TestDecideRejectionWithoutMatchCreatesRejectedRecord(t *testing.T) {
	engine := NewEngine(&fakeStore{}, nil)

	doc := Document{
		Subject:    "Application update",
		Body:       "unfortunately we will not be moving forward",
		ReceivedAt: received,
		ExternalID: "msg-5",
	}
	rd := time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC)
	d, err := engine.Decide(context.Background(), doc, extract.Fields{
		CompanyName:   strp("Initech"),
		Status:        "rejected",
		RejectionDate: &rd,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionCreate {
		t.Fatalf("action = %v, want create", d.Action)
	}
	if d.Create.Status != "rejected" {
		t.Errorf("status = %q, want rejected", d.Create.Status)
	}
	if d.Create.RejectionDate == nil || !d.Create.RejectionDate.Equal(rd) {
		t.Errorf("rejection_date = %v, want %v", d.Create.RejectionDate, rd)
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store, nil)

	doc := Document{Subject: "Thanks for applying", ReceivedAt: received, ExternalID: "msg-6"}
	fields := extract.Fields{CompanyName: strp("Umbrella"), Status: "pending"}

	d1, err := engine.Decide(context.Background(), doc, fields)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if d1.Action != ActionCreate {
		t.Fatalf("first action = %v, want create", d1.Action)
	}
	d1.Create.ID = 1
	store.apps = append(store.apps, *d1.Create)

	d2, err := engine.Decide(context.Background(), doc, fields)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if d2.Action != ActionDuplicate {
		t.Errorf("second action = %v, want duplicate", d2.Action)
	}
}
