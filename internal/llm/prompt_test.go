package llm

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("zero limit should pass through, got %q", got)
	}
}

func TestBuildEmailPromptBoundsBody(t *testing.T) {
	body := strings.Repeat("x", MaxDocumentChars+5000)
	p := BuildEmailPrompt("Re: your application", body)

	if !strings.Contains(p, "Re: your application") {
		t.Error("prompt does not carry the subject")
	}
	if strings.Contains(p, strings.Repeat("x", MaxDocumentChars+1)) {
		t.Error("body was not truncated to the document budget")
	}
	if !strings.Contains(p, "Return ONLY valid JSON") {
		t.Error("prompt missing the JSON-only instruction")
	}
}

func TestBuildResumePromptGrounding(t *testing.T) {
	with := BuildResumePrompt("Go developer role", "My Profile Information:\n{}")
	if !strings.Contains(with, "My Profile Information") {
		t.Error("grounded prompt missing base context")
	}
	if !strings.Contains(with, "Only include information that is relevant") {
		t.Error("grounded prompt missing tailoring instruction")
	}

	without := BuildResumePrompt("Go developer role", "")
	if strings.Contains(without, "my profile information") {
		t.Error("ungrounded prompt should not mention a profile")
	}
	if !strings.Contains(without, "create a professional resume") {
		t.Error("ungrounded prompt missing fallback instruction")
	}
}
