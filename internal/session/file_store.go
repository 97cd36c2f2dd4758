package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corops/cordash/internal/domain"
)

// FileStore persists a single session record on disk for the CLI. The file
// carries credentials, so it is written with 0600 permissions and replaced
// atomically via a temp file and rename.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. The path must be
// absolute and free of traversal segments.
func NewFileStore(path string) (*FileStore, error) {
	if err := validateSessionPath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// DefaultSessionPath returns the per-user location of the CLI session file.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "cordash", "session.yaml"), nil
}

// validateSessionPath validates that the session path is safe.
func validateSessionPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("invalid session path: path traversal not allowed")
	}
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("invalid session path: must be absolute path")
	}
	return nil
}

// Load reads the persisted session. A missing file is an empty session.
func (f *FileStore) Load(_ context.Context) (domain.Session, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var s domain.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return s, nil
}

// Save writes the whole record. The temp-file-and-rename dance guarantees a
// concurrent Load sees either the previous or the new record, never a mix.
func (f *FileStore) Save(_ context.Context, s domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent file is a no-op.
func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
