package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"apptrack/internal/entity"
	"apptrack/internal/extract"
)

// Extractor is the model pipeline used for resume generation.
type Extractor interface {
	Extract(ctx context.Context, req extract.Request) (*extract.Result, error)
}

// Profiles loads the stored user profile.
type Profiles interface {
	Load() (entity.Profile, error)
}

// Builder generates tailored resumes from a job description, grounded
// on whatever profile material exists.
type Builder struct {
	extractor Extractor
	profiles  Profiles
	dir       string
	logger    *slog.Logger
}

func NewBuilder(ex Extractor, profiles Profiles, dir string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{extractor: ex, profiles: profiles, dir: dir, logger: logger}
}

// Generated is the result of one resume build.
type Generated struct {
	Path     string         `json:"path"`
	FileName string         `json:"file_name"`
	Resume   map[string]any `json:"resume"`
}

// Generate builds a tailored resume for the job description and writes
// it as a PDF. Grounding preference: stored resume/portfolio text, then
// the structured profile when it has substance, then nothing, in which
// case the model works from the job description alone.
//
// company and applicationID only affect the output file name.
func (b *Builder) Generate(ctx context.Context, jobDescription, company string, applicationID uint) (*Generated, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is empty")
	}

	grounding, source, err := b.grounding()
	if err != nil {
		return nil, err
	}
	b.logger.Info("resume.generate.start",
		"grounding", source, "jd_len", len(jobDescription))

	res, err := b.extractor.Extract(ctx, extract.Request{
		Kind:      extract.KindResume,
		Text:      jobDescription,
		Grounding: grounding,
	})
	if err != nil {
		return nil, fmt.Errorf("generate resume content: %w", err)
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create resume dir: %w", err)
	}

	name := resumeFileName(company, applicationID)
	path := filepath.Join(b.dir, name)
	if err := RenderPDF(res.Document, path); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	b.logger.Info("resume.generate.ok", "path", path)
	return &Generated{Path: path, FileName: name, Resume: res.Document}, nil
}

// grounding picks the base context for generation and names the choice
// for logging.
func (b *Builder) grounding() (text, source string, err error) {
	profile, err := b.profiles.Load()
	if err != nil {
		return "", "", fmt.Errorf("load profile: %w", err)
	}

	if pt, ok := profile["portfolio_text"].(string); ok && strings.TrimSpace(pt) != "" {
		return "My Current Resume/Profile:\n" + pt, "portfolio_text", nil
	}

	if profile.HasResumeContent() {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("encode profile: %w", err)
		}
		return "My Profile Information:\n" + string(data), "profile", nil
	}

	return "", "none", nil
}

var reUnsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func resumeFileName(company string, applicationID uint) string {
	slug := reUnsafeFileChars.ReplaceAllString(strings.TrimSpace(company), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "untitled"
	}
	ts := time.Now().UTC().Format("20060102_150405")
	if applicationID > 0 {
		return fmt.Sprintf("resume_%d_%s_%s.pdf", applicationID, slug, ts)
	}
	return fmt.Sprintf("resume_%s_%s.pdf", slug, ts)
}
