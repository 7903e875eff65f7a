package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"apptrack/internal/common"
	"apptrack/internal/entity"
)

const profileFileName = "user_profile.json"

// ProfileStore persists the single user profile as a JSON file. A file
// store keeps the profile hand-editable; there is exactly one profile
// per deployment so a table buys nothing.
type ProfileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

func NewProfileStore(dir string, logger *slog.Logger) *ProfileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileStore{
		path:   filepath.Join(dir, profileFileName),
		logger: logger,
	}
}

// Load reads the stored profile merged over the default skeleton, so
// callers always see every section. A missing file yields the defaults.
func (s *ProfileStore) Load() (entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := entity.DefaultProfile()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return nil, common.NewAppError("PROFILE_READ", "read profile file", err)
	}

	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, common.NewAppError("PROFILE_PARSE", "profile file is not valid JSON", err)
	}
	for k, v := range stored {
		profile[k] = v
	}
	return profile, nil
}

// Save writes the profile atomically: temp file then rename, so a crash
// mid-write never leaves a truncated profile behind.
func (s *ProfileStore) Save(p entity.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return common.NewAppError("PROFILE_WRITE", "encode profile", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return common.NewAppError("PROFILE_WRITE", "create profile dir", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return common.NewAppError("PROFILE_WRITE", "write profile file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return common.NewAppError("PROFILE_WRITE", "replace profile file", err)
	}

	s.logger.Info("repo.profile.saved", "path", s.path, "bytes", len(data))
	return nil
}
