package llm

import "context"

// GenerateRequest is a single completion call against the model backend.
// Images are raw bytes; the client encodes them for the wire.
type GenerateRequest struct {
	Model   string
	Prompt  string
	Format  string // "json" to request JSON-formatted output
	Images  [][]byte
	Options map[string]any // backend options, e.g. temperature
}

// Generator is the interface the extraction pipeline depends on.
type Generator interface {
	// Generate runs one prompt and returns the raw response text.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// ListModels enumerates the model names the backend can serve.
	ListModels(ctx context.Context) ([]string, error)
}
