package extract

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("normalized output is not valid JSON: %v\n%s", err, s)
	}
	return m
}

func TestNormalizePlainJSON(t *testing.T) {
	in := `{"company_name": "Acme Corp", "status": "pending"}`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestNormalizeFencedBlock(t *testing.T) {
	in := "Here is the extracted information:\n```json\n{\"company_name\": \"Globex\", \"position\": \"SRE\", \"status\": \"pending\"}\n```\nLet me know if you need anything else!"
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := mustParse(t, out)
	if m["company_name"] != "Globex" {
		t.Errorf("company_name = %v, want Globex", m["company_name"])
	}
	if m["position"] != "SRE" {
		t.Errorf("position = %v, want SRE", m["position"])
	}
}

func TestNormalizeBraceSpan(t *testing.T) {
	in := `Sure! The result is {"company_name": "Initech"} as requested.`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := mustParse(t, out)
	if m["company_name"] != "Initech" {
		t.Errorf("company_name = %v, want Initech", m["company_name"])
	}
}

func TestNormalizeWrappedAndEscaped(t *testing.T) {
	in := `'{\n  "company_name": "Hooli",\n  "position": null\n}'`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := mustParse(t, out)
	if m["company_name"] != "Hooli" {
		t.Errorf("company_name = %v, want Hooli", m["company_name"])
	}
}

func TestNormalizePythonLiterals(t *testing.T) {
	in := `{"company_name": "Umbrella", "interview_date": None, "remote": True, "onsite": False}`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := mustParse(t, out)
	if m["interview_date"] != nil {
		t.Errorf("interview_date = %v, want nil", m["interview_date"])
	}
	if m["remote"] != true {
		t.Errorf("remote = %v, want true", m["remote"])
	}
	if m["onsite"] != false {
		t.Errorf("onsite = %v, want false", m["onsite"])
	}
}

func TestNormalizeKeepsLiteralsInsideStrings(t *testing.T) {
	in := `{"notes": "They said None of the roles fit", "status": None}`
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := mustParse(t, out)
	if m["notes"] != "They said None of the roles fit" {
		t.Errorf("notes mangled: %v", m["notes"])
	}
	if m["status"] != nil {
		t.Errorf("status = %v, want nil", m["status"])
	}
}

func TestNormalizeMalformed(t *testing.T) {
	in := "I could not find any job information in this email."
	_, err := Normalize(in)
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if !IsKind(err, KindMalformedResponse) {
		t.Errorf("kind = %v, want malformed_response", err)
	}
}

func TestNormalizeMalformedSampleBounded(t *testing.T) {
	in := strings.Repeat("x", 5000)
	_, err := Normalize(in)
	if err == nil {
		t.Fatal("expected error")
	}
	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatal("expected *Error")
	}
	if len(ee.Sample) > malformedSampleLimit {
		t.Errorf("sample length %d exceeds limit %d", len(ee.Sample), malformedSampleLimit)
	}
}
