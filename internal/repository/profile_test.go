package repository

import (
	"testing"

	"apptrack/internal/entity"
)

func TestProfileStoreDefaultsWhenMissing(t *testing.T) {
	store := NewProfileStore(t.TempDir(), nil)

	p, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p["personal_info"]; !ok {
		t.Error("default profile missing personal_info")
	}
	if p.HasResumeContent() {
		t.Error("empty profile should not have resume content")
	}
}

func TestProfileStoreRoundTrip(t *testing.T) {
	store := NewProfileStore(t.TempDir(), nil)

	p := entity.DefaultProfile()
	p["personal_info"] = map[string]any{"name": "Jordan Smith"}
	p["skills"] = []any{"Go", "Postgres"}
	if err := store.Save(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pi, _ := loaded["personal_info"].(map[string]any)
	if pi["name"] != "Jordan Smith" {
		t.Errorf("name = %v", pi["name"])
	}
	if !loaded.HasResumeContent() {
		t.Error("profile with a name should have resume content")
	}
	// Sections absent from the file still come from the defaults.
	if _, ok := loaded["education"]; !ok {
		t.Error("merged profile missing education section")
	}
}
