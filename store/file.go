package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps best times as a JSON object on disk, rewritten on every
// improvement.
type File struct {
	mu    sync.Mutex
	path  string
	times map[string]int
}

// NewFile loads path if it exists. A missing file is an empty store.
func NewFile(path string) (*File, error) {
	f := &File{path: path, times: make(map[string]int)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("file store: read %s: %w", path, err)
	}

	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.times); err != nil {
		return nil, fmt.Errorf("file store: decode %s: %w", path, err)
	}
	if f.times == nil {
		f.times = make(map[string]int)
	}
	return f, nil
}

func (f *File) Best(_ context.Context, preset string) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seconds, ok := f.times[preset]
	return seconds, ok, nil
}

func (f *File) Record(_ context.Context, preset string, seconds int) (bool, error) {
	if err := validate(seconds); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, ok := f.times[preset]
	if ok && seconds >= prev {
		return false, nil
	}

	f.times[preset] = seconds
	if err := f.save(); err != nil {
		if ok {
			f.times[preset] = prev
		} else {
			delete(f.times, preset)
		}
		return false, err
	}
	return true, nil
}

// save writes a temp file next to the target and renames it into place.
func (f *File) save() error {
	data, err := json.MarshalIndent(f.times, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file store: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".best-*.json")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
