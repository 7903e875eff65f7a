package entity

// Profile is the stored user profile used as grounding context for
// resume generation. It is a free-form JSON document; the keys below are
// the canonical top-level sections.
type Profile map[string]any

// DefaultProfile returns the empty profile skeleton. Saved profiles are
// merged over this so every section always exists.
func DefaultProfile() Profile {
	return Profile{
		"personal_info": map[string]any{
			"name":      "",
			"email":     "",
			"phone":     "",
			"location":  "",
			"linkedin":  "",
			"portfolio": "",
			"github":    "",
		},
		"summary":         "",
		"skills":          []any{},
		"experience":      []any{},
		"education":       []any{},
		"projects":        []any{},
		"certifications":  []any{},
		"languages":       []any{},
		"publications":    []any{},
		"awards":          []any{},
		"volunteer_work":  []any{},
		"portfolio_text":  "",
		"additional_info": map[string]any{},
	}
}

// HasResumeContent reports whether the profile carries enough substance
// to ground resume generation: a name or at least one experience entry.
func (p Profile) HasResumeContent() bool {
	if p == nil {
		return false
	}
	if pi, ok := p["personal_info"].(map[string]any); ok {
		if name, ok := pi["name"].(string); ok && name != "" {
			return true
		}
	}
	if exp, ok := p["experience"].([]any); ok && len(exp) > 0 {
		return true
	}
	return false
}
