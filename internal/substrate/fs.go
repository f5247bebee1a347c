package substrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/starford/fms/internal/checksum"
)

const fileExt = ".json"

// FS stores each key as <root>/<key>.json.
type FS struct {
	root string // absolute path to the data directory

	mu      sync.Mutex
	written map[string]string // key -> checksum of our last write
}

// NewFS creates an FS substrate rooted at dir, creating it if needed.
func NewFS(dir string) (*FS, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("substrate: empty fs root")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("substrate: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("substrate: mkdir root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("substrate: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("substrate: root is not a directory: %s", abs)
	}
	return &FS{root: abs, written: make(map[string]string)}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string { return f.root }

// keyPath maps a key to its file, rejecting anything that is not a plain name.
func (f *FS) keyPath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("substrate: key is required")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") || filepath.Base(key) != key {
		return "", fmt.Errorf("substrate: invalid key: %s", key)
	}
	return filepath.Join(f.root, key+fileExt), nil
}

func (f *FS) Get(_ context.Context, key string) ([]byte, error) {
	p, err := f.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("substrate: read %s: %w", key, err)
	}
	return data, nil
}

// Set writes atomically: tmp file → fsync → rename.
func (f *FS) Set(_ context.Context, key string, value []byte) error {
	p, err := f.keyPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".fms-tmp-*")
	if err != nil {
		return fmt.Errorf("substrate: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("substrate: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("substrate: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("substrate: close temp: %w", err)
	}

	// Record before the rename so the watcher never sees an unrecorded write.
	f.mu.Lock()
	f.written[key] = checksum.Sum(value)
	f.mu.Unlock()

	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("substrate: rename: %w", err)
	}
	success = true
	return nil
}

// ownWrite reports whether data is exactly what this process last wrote to key.
func (f *FS) ownWrite(key string, data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, ok := f.written[key]
	return ok && sum == checksum.Sum(data)
}

func (f *FS) Close() error { return nil }

// keyFromPath is the inverse of keyPath; ok is false for non-data files.
func keyFromPath(p string) (string, bool) {
	name := filepath.Base(p)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}
