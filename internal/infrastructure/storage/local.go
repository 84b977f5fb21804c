package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/config"
)

// LocalStorage keeps assets on the local filesystem under a root directory.
// Writes go through a temp file and an atomic rename so a crashed upload never
// leaves a partial asset behind.
type LocalStorage struct {
	root      string
	publicURL string
}

func NewLocalStorage(cfg config.StorageConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.LocalPath, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage root %q: %w", cfg.LocalPath, err)
	}
	absRoot, err := filepath.Abs(cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	return &LocalStorage{
		root:      absRoot,
		publicURL: cfg.PublicURL,
	}, nil
}

// abs resolves a key to a path under root, rejecting keys that escape it.
func (l *LocalStorage) abs(key string) (string, error) {
	joined := filepath.Join(l.root, filepath.Clean(filepath.FromSlash(key)))
	rel, err := filepath.Rel(l.root, joined)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return joined, nil
}

func (l *LocalStorage) Upload(_ context.Context, key string, reader io.Reader, _ string, _ int64) error {
	dest, err := l.abs(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("creating asset dir: %w", err)
	}

	tmp := dest + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("opening temp file: %w", err)
	}

	_, werr := io.Copy(f, reader)
	cerr := f.Close()

	if werr != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing asset: %w", werr)
	}
	if cerr != nil {
		os.Remove(tmp)
		return fmt.Errorf("flushing asset: %w", cerr)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming asset: %w", err)
	}
	return nil
}

func (l *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	path, err := l.abs(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("statting asset: %w", err)
	}
	return true, nil
}

// Delete reports domain.ErrAssetNotFound for a missing key so callers can
// tell "already gone" apart from an I/O failure.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := l.abs(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrAssetNotFound
		}
		return fmt.Errorf("removing asset: %w", err)
	}
	return nil
}

func (l *LocalStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(l.publicURL, "/"), key)
}
