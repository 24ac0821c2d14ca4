package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilePersister keeps the document in a single JSON file.
type FilePersister struct {
	path string
}

// NewFilePersister returns a persister for path. The file is created lazily on first save.
func NewFilePersister(path string) *FilePersister {
	if path == "" {
		path = "./data.json"
	}
	return &FilePersister{path: path}
}

// Load reads the whole file.
func (p *FilePersister) Load(_ context.Context) ([]byte, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}
	return raw, nil
}

// Save rewrites the file via a temp file and rename so readers never see a partial document.
func (p *FilePersister) Save(_ context.Context, raw []byte) error {
	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp data file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Location returns the file path.
func (p *FilePersister) Location() string {
	return p.path
}
