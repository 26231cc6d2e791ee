package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalStore writes uploaded files to local disk. Stored paths are
// relative to the root and derived from the owning ticket's id:
// anexos/chamado_{id}/{filename}.
type LocalStore struct {
	root   string
	logger *zap.Logger
}

// NewLocalStore creates the store, ensuring the root directory exists.
func NewLocalStore(root string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &LocalStore{root: root, logger: logger}, nil
}

// Save streams the upload to disk and returns the stored relative path
// and the number of bytes written. Name collisions inside a ticket
// directory are resolved with a random prefix.
func (s *LocalStore) Save(ticketID int64, filename string, r io.Reader) (string, int64, error) {
	name := sanitizeFilename(filename)
	dir := fmt.Sprintf("anexos/chamado_%d", ticketID)
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", 0, fmt.Errorf("create ticket dir: %w", err)
	}

	relative := filepath.ToSlash(filepath.Join(dir, name))
	if s.Exists(relative) {
		name = uuid.NewString()[:8] + "_" + name
		relative = filepath.ToSlash(filepath.Join(dir, name))
	}

	f, err := os.Create(filepath.Join(s.root, filepath.FromSlash(relative)))
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return relative, size, nil
}

// Remove deletes the stored file. Callers treat failures, including a
// file already missing on disk, as non-fatal warnings.
func (s *LocalStore) Remove(path string) error {
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(path)))
}

// Exists reports whether a stored file is present on disk.
func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(path)))
	return err == nil
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(filepath.ToSlash(filename))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		name = "arquivo"
	}
	return name
}
