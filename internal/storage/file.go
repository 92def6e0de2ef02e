package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores all items in a single JSON object file.
//
// Every write rewrites the whole file through a temp file and a rename,
// so readers only ever see a complete file. Reading a file that cannot be
// parsed reports ErrMalformedStoredData; the next SetItem or RemoveItem
// replaces it.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV returns a FileKV backed by path. The file and its directory
// are created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) GetItem(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FileKV) SetItem(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	malformed := errors.Is(err, ErrMalformedStoredData)
	if err != nil && !malformed {
		return err
	}
	items[key] = value
	return f.write(items)
}

func (f *FileKV) RemoveItem(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	malformed := errors.Is(err, ErrMalformedStoredData)
	if err != nil && !malformed {
		return err
	}
	if _, ok := items[key]; !ok && !malformed {
		return nil
	}
	delete(items, key)
	return f.write(items)
}

// read returns the stored items. An unparseable file yields an empty map
// together with an error wrapping ErrMalformedStoredData.
func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("storage.FileKV: read %s: %v: %w", f.path, err, ErrStorageUnavailable)
	}
	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return make(map[string]string), fmt.Errorf("storage.FileKV: parse %s: %v: %w", f.path, err, ErrMalformedStoredData)
	}
	return items, nil
}

func (f *FileKV) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("storage.FileKV: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("storage.FileKV: create %s: %v: %w", dir, err, ErrStorageUnavailable)
	}
	tmp, err := os.CreateTemp(dir, ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("storage.FileKV: create temp: %v: %w", err, ErrStorageUnavailable)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("storage.FileKV: write temp: %v: %w", err, ErrStorageUnavailable)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("storage.FileKV: chmod temp: %v: %w", err, ErrStorageUnavailable)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage.FileKV: close temp: %v: %w", err, ErrStorageUnavailable)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage.FileKV: replace %s: %v: %w", f.path, err, ErrStorageUnavailable)
	}
	return nil
}
