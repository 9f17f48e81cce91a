// Package local stores uploaded receipts on the local filesystem. This is
// the default backend when no Drive configuration is present.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Raggahmuff1n/DamageInvoice/internal/receipts"
)

type Store struct {
	dir string
}

var _ receipts.Store = (*Store)(nil)

// New creates the upload directory if needed and returns a disk-backed store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the upload under a unique stored name. A failed write is
// reported to the caller and not retried.
func (s *Store) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	storedName := receipts.StoredName(originalName)
	path := filepath.Join(s.dir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write receipt file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close receipt file: %w", err)
	}
	return storedName, nil
}
