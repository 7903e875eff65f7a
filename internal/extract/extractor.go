package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"apptrack/constants"
	"apptrack/internal/llm"
)

// SourceKind selects the prompt and post-processing for one extraction.
type SourceKind string

const (
	KindEmail     SourceKind = "email"
	KindImage     SourceKind = "image"
	KindPortfolio SourceKind = "portfolio"
	KindResume    SourceKind = "resume"
)

// Request describes one extraction. Subject applies to email; Image to
// image; Grounding is the optional base context for resume generation.
type Request struct {
	Kind      SourceKind
	Subject   string
	Text      string
	Image     []byte
	Grounding string
}

// Result carries both views of the normalized response: typed Fields for
// email and image sources, and the raw document for portfolio and resume
// sources, whose shape is nested rather than flat.
type Result struct {
	Fields   Fields
	Document map[string]any
	RawJSON  string
}

const visionRemediation = `Vision model not available. To enable image processing:
1. Make sure Ollama is installed: https://ollama.ai
2. Install a vision model: ollama pull llava
3. Restart the application`

// Extractor runs prompts against a model backend and shapes the output.
type Extractor struct {
	backend llm.Generator
	model   string
	schema  map[string]any
	logger  *slog.Logger
}

func New(backend llm.Generator, model string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		backend: backend,
		model:   model,
		schema:  llm.BuildApplicationJSONSchema(),
		logger:  logger,
	}
}

// Extract runs the full pipeline for one source: prompt composition,
// backend call, response normalization, and coercion. Schema validation
// is diagnostic only; a response that fails it is still used.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	e.logger.Info("extract.start",
		"req_id", rid,
		"kind", string(req.Kind),
		"text_len", len(req.Text),
		"has_image", len(req.Image) > 0,
	)

	gen := llm.GenerateRequest{
		Model:  e.model,
		Format: "json",
	}

	switch req.Kind {
	case KindEmail:
		gen.Prompt = llm.BuildEmailPrompt(req.Subject, req.Text)
	case KindImage:
		model, err := e.pickVisionModel(ctx)
		if err != nil {
			return nil, err
		}
		gen.Model = model
		gen.Prompt = llm.BuildImagePrompt()
		gen.Images = [][]byte{req.Image}
	case KindPortfolio:
		gen.Prompt = llm.BuildPortfolioPrompt(req.Text)
	case KindResume:
		gen.Prompt = llm.BuildResumePrompt(req.Text, req.Grounding)
		gen.Options = map[string]any{"temperature": 0.7}
	default:
		return nil, fmt.Errorf("unknown source kind %q", req.Kind)
	}

	raw, err := e.backend.Generate(ctx, gen)
	if err != nil {
		e.logger.Error("extract.backend_error",
			"req_id", rid, "kind", string(req.Kind), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, &Error{Kind: KindBackendError, Message: "model backend call failed", Cause: err}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &Error{Kind: KindEmptyResponse, Message: "model returned an empty response"}
	}

	normalized, err := Normalize(raw)
	if err != nil {
		e.logger.Error("extract.malformed",
			"req_id", rid, "kind", string(req.Kind), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		// Normalize guarantees an object; keep the guard anyway.
		return nil, newMalformed(normalized, err)
	}

	res := &Result{Document: doc, RawJSON: normalized}

	switch req.Kind {
	case KindEmail, KindImage:
		if verr := llm.ValidateJSONAgainstSchema(e.schema, []byte(normalized)); verr != nil {
			e.logger.Warn("extract.schema_mismatch",
				"req_id", rid, "kind", string(req.Kind), "error", verr,
			)
		}
		res.Fields = Coerce(doc)
		res.Fields.Status = string(constants.NormalizeStatus(res.Fields.Status))
	}

	e.logger.Info("extract.ok",
		"req_id", rid,
		"kind", string(req.Kind),
		"response_len", len(normalized),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// pickVisionModel finds an installed vision-capable model. No model, or
// an unreachable backend, is a soft capability failure with remediation
// text the caller can surface to the user.
func (e *Extractor) pickVisionModel(ctx context.Context) (string, error) {
	names, err := e.backend.ListModels(ctx)
	if err != nil {
		e.logger.Warn("extract.vision.list_failed", "error", err)
		return "", &Error{
			Kind:        KindCapabilityUnavailable,
			Message:     "cannot list available models",
			Remediation: visionRemediation,
			Cause:       err,
		}
	}
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, want := range constants.VisionModelNames {
			if strings.Contains(lower, want) {
				return name, nil
			}
		}
	}
	return "", &Error{
		Kind:        KindCapabilityUnavailable,
		Message:     "no vision-capable model installed",
		Remediation: visionRemediation,
	}
}
