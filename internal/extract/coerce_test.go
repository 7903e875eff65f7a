package extract

import (
	"testing"
	"time"
)

func TestCoerceFullRecord(t *testing.T) {
	f := Coerce(map[string]any{
		"company_name":   "Acme Corp",
		"position":       "Platform Engineer",
		"status":         "Interview",
		"applied_date":   "2026-03-02 14:30",
		"interview_date": "2026-03-10 09:00",
		"rejection_date": "2026-03-20",
		"location":       "Remote",
		"notes":          "  referred by Dana  ",
	})

	if f.CompanyName == nil || *f.CompanyName != "Acme Corp" {
		t.Errorf("company_name = %v", f.CompanyName)
	}
	if f.Status != "interview" {
		t.Errorf("status = %q, want interview", f.Status)
	}

	wantApplied := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if f.AppliedDate == nil || !f.AppliedDate.Equal(wantApplied) {
		t.Errorf("applied_date = %v, want %v (midnight)", f.AppliedDate, wantApplied)
	}

	wantInterview := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if f.InterviewDate == nil || !f.InterviewDate.Equal(wantInterview) {
		t.Errorf("interview_date = %v, want %v (time kept)", f.InterviewDate, wantInterview)
	}

	wantRejection := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	if f.RejectionDate == nil || !f.RejectionDate.Equal(wantRejection) {
		t.Errorf("rejection_date = %v, want %v", f.RejectionDate, wantRejection)
	}

	if f.Notes == nil || *f.Notes != "referred by Dana" {
		t.Errorf("notes = %v, want trimmed", f.Notes)
	}
}

func TestCoerceInterviewDateWithoutClock(t *testing.T) {
	f := Coerce(map[string]any{"interview_date": "2026-04-01"})
	want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if f.InterviewDate == nil || !f.InterviewDate.Equal(want) {
		t.Errorf("interview_date = %v, want %v", f.InterviewDate, want)
	}
}

func TestCoerceBadValues(t *testing.T) {
	f := Coerce(map[string]any{
		"company_name": "",
		"position":     "   ",
		"applied_date": "next Tuesday",
		"status":       nil,
		"notes":        map[string]any{"nested": true},
	})
	if f.CompanyName != nil {
		t.Errorf("empty company_name should be nil, got %v", *f.CompanyName)
	}
	if f.Position != nil {
		t.Errorf("whitespace position should be nil, got %v", *f.Position)
	}
	if f.AppliedDate != nil {
		t.Errorf("unparseable date should be nil, got %v", f.AppliedDate)
	}
	if f.Status != "" {
		t.Errorf("status = %q, want empty", f.Status)
	}
	if f.Notes != nil {
		t.Errorf("nested notes should be nil, got %v", *f.Notes)
	}
}

func TestCoerceScalarNonStrings(t *testing.T) {
	f := Coerce(map[string]any{"salary_range": 120000.0})
	if f.SalaryRange == nil || *f.SalaryRange != "120000" {
		t.Errorf("salary_range = %v, want 120000", f.SalaryRange)
	}
}

func TestCoerceEmptyMap(t *testing.T) {
	f := Coerce(map[string]any{})
	if f.CompanyName != nil || f.AppliedDate != nil || f.Status != "" {
		t.Errorf("empty map should coerce to zero fields: %+v", f)
	}
}
