package extract

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts the model is instructed to use, tried in order.
const (
	layoutDateTime = "2006-01-02 15:04"
	layoutDate     = "2006-01-02"
)

// Fields is the typed result of a successful extraction. Every field is
// optional; Status is the raw lowercased label and may sit outside the
// closed status set. The orchestrator applies the pending default.
type Fields struct {
	CompanyName     *string
	Position        *string
	Status          string
	AppliedDate     *time.Time
	InterviewDate   *time.Time
	RejectionDate   *time.Time
	RejectionReason *string
	JobURL          *string
	ContactEmail    *string
	Location        *string
	SalaryRange     *string
	Notes           *string
}

// Coerce maps a parsed JSON object onto typed fields. It never fails:
// values it cannot interpret become nil, since callers must tolerate
// partial extraction. Dates are normalized to a midnight instant except
// interview_date, which keeps an explicitly supplied time-of-day.
func Coerce(m map[string]any) Fields {
	f := Fields{
		CompanyName:     optString(m["company_name"]),
		Position:        optString(m["position"]),
		RejectionReason: optString(m["rejection_reason"]),
		JobURL:          optString(m["job_url"]),
		ContactEmail:    optString(m["contact_email"]),
		Location:        optString(m["location"]),
		SalaryRange:     optString(m["salary_range"]),
		Notes:           optString(m["notes"]),
	}

	if s := optString(m["status"]); s != nil {
		f.Status = strings.ToLower(*s)
	}

	if t, _ := coerceDate(m["applied_date"]); t != nil {
		f.AppliedDate = ptrTime(AtMidnight(*t))
	}
	if t, hasClock := coerceDate(m["interview_date"]); t != nil {
		if hasClock {
			f.InterviewDate = t
		} else {
			f.InterviewDate = ptrTime(AtMidnight(*t))
		}
	}
	if t, _ := coerceDate(m["rejection_date"]); t != nil {
		f.RejectionDate = ptrTime(AtMidnight(*t))
	}

	return f
}

// AtMidnight strips the time-of-day, keeping only the calendar date.
func AtMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// optString interprets a JSON value as an optional string. Empty and
// whitespace-only strings are nil; scalar non-strings are stringified.
func optString(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64, bool:
		s = fmt.Sprint(t)
	default:
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// coerceDate tries the datetime layout then the date-only layout.
// hasClock reports whether the value carried an explicit time-of-day.
// Unparseable values yield nil; a hallucinated date format must not
// abort the whole record.
func coerceDate(v any) (t *time.Time, hasClock bool) {
	s := optString(v)
	if s == nil {
		return nil, false
	}
	if parsed, err := time.Parse(layoutDateTime, *s); err == nil {
		return &parsed, true
	}
	if parsed, err := time.Parse(layoutDate, *s); err == nil {
		return &parsed, false
	}
	return nil, false
}

func ptrTime(t time.Time) *time.Time { return &t }
