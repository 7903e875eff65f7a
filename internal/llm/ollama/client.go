package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"apptrack/internal/llm"
)

// Generate implements llm.Generator against Ollama's /api/generate
// endpoint. Streaming is disabled; the full response text comes back in
// one JSON document.
func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	opts := map[string]any{}
	for k, v := range req.Options {
		opts[k] = v
	}
	if _, ok := opts["temperature"]; !ok && c.cfg.Temperature > 0 {
		opts["temperature"] = c.cfg.Temperature
	}

	body := map[string]any{
		"model":  model,
		"prompt": req.Prompt,
		"stream": false,
	}
	if req.Format != "" {
		body["format"] = req.Format
	}
	if len(opts) > 0 {
		body["options"] = opts
	}
	if len(req.Images) > 0 {
		encoded := make([]string, 0, len(req.Images))
		for _, img := range req.Images {
			encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
		}
		body["images"] = encoded
	}

	c.logger.Info("llm.generate.start",
		"req_id", rid,
		"model", model,
		"prompt_len", len(req.Prompt),
		"images", len(req.Images),
		"format", req.Format,
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	raw, err := llm.SendJSON(ctx, c.http, endpoint, body, c.logger)
	if err != nil {
		c.logger.Error("llm.generate.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	var gr struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.logger.Error("llm.generate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	c.logger.Info("llm.generate.ok",
		"req_id", rid,
		"response_len", len(gr.Response),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return gr.Response, nil
}

// ListModels enumerates locally available models via /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/tags"
	raw, err := llm.GetJSON(ctx, c.http, endpoint, c.logger)
	if err != nil {
		return nil, fmt.Errorf("ollama list models: %w", err)
	}

	var tr struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("decode ollama tags: %w", err)
	}

	names := make([]string, 0, len(tr.Models))
	for _, m := range tr.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
