package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
)

// FileStore is a file-based bookmark store for CLI use.
// Bookmarks are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based bookmark store.
// If baseDir is empty, defaults to $XDG_CONFIG_HOME/mandelbrot/bookmarks/
// (~/.config/mandelbrot/bookmarks/ when unset).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, storageErr(err, "create bookmark dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default bookmark directory.
func DefaultDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "mandelbrot", "bookmarks"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "mandelbrot", "bookmarks"), nil
}

func (s *FileStore) bookmarkPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Get(ctx context.Context, name string) (*Bookmark, error) {
	if err := mberr.ValidateBookmarkName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.bookmarkPath(name), name)
}

func (s *FileStore) read(path, name string) (*Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, storageErr(err, "read bookmark %q", name)
	}

	var b Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, storageErr(err, "parse bookmark %q", name)
	}
	return &b, nil
}

func (s *FileStore) List(ctx context.Context) ([]*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageErr(err, "read bookmark dir")
	}

	var out []*Bookmark
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		b, err := s.read(filepath.Join(s.baseDir, entry.Name()), name)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) Save(ctx context.Context, b *Bookmark) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return storageErr(err, "marshal bookmark %q", b.Name)
	}

	// Readers never observe a partially written file.
	path := s.bookmarkPath(b.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return storageErr(err, "write bookmark %q", b.Name)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return storageErr(err, "write bookmark %q", b.Name)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := mberr.ValidateBookmarkName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.bookmarkPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return storageErr(err, "remove bookmark %q", name)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for bookmark files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
