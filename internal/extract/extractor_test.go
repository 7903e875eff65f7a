package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"apptrack/internal/llm"
)

type fakeBackend struct {
	response string
	genErr   error
	models   []string
	listErr  error
	lastReq  llm.GenerateRequest
}

func (f *fakeBackend) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	f.lastReq = req
	return f.response, f.genErr
}

func (f *fakeBackend) ListModels(_ context.Context) ([]string, error) {
	return f.models, f.listErr
}

func TestExtractEmailHappyPath(t *testing.T) {
	backend := &fakeBackend{
		response: `{"company_name": "Acme Corp", "position": "Backend Engineer", "status": "application received"}`,
	}
	ex := New(backend, "gemma3:4b", nil)

	res, err := ex.Extract(context.Background(), Request{
		Kind:    KindEmail,
		Subject: "Thank you for applying to Acme Corp",
		Text:    "We received your application for Backend Engineer.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fields.CompanyName == nil || *res.Fields.CompanyName != "Acme Corp" {
		t.Errorf("company_name = %v", res.Fields.CompanyName)
	}
	// Unknown status labels fall back to pending.
	if res.Fields.Status != "pending" {
		t.Errorf("status = %q, want pending", res.Fields.Status)
	}
	if !strings.Contains(backend.lastReq.Prompt, "Thank you for applying to Acme Corp") {
		t.Error("prompt does not carry the subject")
	}
	if backend.lastReq.Format != "json" {
		t.Errorf("format = %q, want json", backend.lastReq.Format)
	}
}

func TestExtractEmptyResponse(t *testing.T) {
	ex := New(&fakeBackend{response: "   \n"}, "gemma3:4b", nil)
	_, err := ex.Extract(context.Background(), Request{Kind: KindEmail, Subject: "s", Text: "b"})
	if !IsKind(err, KindEmptyResponse) {
		t.Errorf("kind = %v, want empty_response", err)
	}
}

func TestExtractBackendError(t *testing.T) {
	ex := New(&fakeBackend{genErr: errors.New("connection refused")}, "gemma3:4b", nil)
	_, err := ex.Extract(context.Background(), Request{Kind: KindEmail, Subject: "s", Text: "b"})
	if !IsKind(err, KindBackendError) {
		t.Errorf("kind = %v, want backend_error", err)
	}
}

func TestExtractImageNoVisionModel(t *testing.T) {
	ex := New(&fakeBackend{models: []string{"gemma3:4b", "qwen2.5:7b"}}, "gemma3:4b", nil)
	_, err := ex.Extract(context.Background(), Request{Kind: KindImage, Image: []byte{0xff}})
	if !IsKind(err, KindCapabilityUnavailable) {
		t.Fatalf("kind = %v, want capability_unavailable", err)
	}
	var ee *Error
	if !errors.As(err, &ee) || !strings.Contains(ee.Remediation, "ollama pull llava") {
		t.Errorf("remediation missing install instructions: %v", err)
	}
}

func TestExtractImagePicksVisionModel(t *testing.T) {
	backend := &fakeBackend{
		models:   []string{"gemma3:4b", "LLaVA:13b"},
		response: `{"company_name": "Initech", "position": "Analyst"}`,
	}
	ex := New(backend, "gemma3:4b", nil)

	res, err := ex.Extract(context.Background(), Request{Kind: KindImage, Image: []byte{0xff, 0xd8}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.lastReq.Model != "LLaVA:13b" {
		t.Errorf("model = %q, want LLaVA:13b", backend.lastReq.Model)
	}
	if len(backend.lastReq.Images) != 1 {
		t.Errorf("images = %d, want 1", len(backend.lastReq.Images))
	}
	if res.Fields.CompanyName == nil || *res.Fields.CompanyName != "Initech" {
		t.Errorf("company_name = %v", res.Fields.CompanyName)
	}
}

func TestExtractImageListFailure(t *testing.T) {
	ex := New(&fakeBackend{listErr: errors.New("dial tcp: refused")}, "gemma3:4b", nil)
	_, err := ex.Extract(context.Background(), Request{Kind: KindImage, Image: []byte{0xff}})
	if !IsKind(err, KindCapabilityUnavailable) {
		t.Errorf("kind = %v, want capability_unavailable", err)
	}
}

func TestExtractResumeReturnsDocument(t *testing.T) {
	backend := &fakeBackend{
		response: "```json\n{\"summary\": \"Engineer\", \"skills\": [\"Go\"]}\n```",
	}
	ex := New(backend, "gemma3:4b", nil)

	res, err := ex.Extract(context.Background(), Request{Kind: KindResume, Text: "Go developer role"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Document["summary"] != "Engineer" {
		t.Errorf("summary = %v", res.Document["summary"])
	}
	// Resume output is free-shape; no flat fields are coerced.
	if res.Fields.CompanyName != nil {
		t.Errorf("resume extraction should not coerce fields")
	}
}
