package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps slots in a single JSON file. Every operation re-reads the
// file, so mutations made by another process on the same machine are picked
// up by the next Get. Writes go through a temp file and an atomic rename.
type FileStore struct {
	path string
	lock sync.Mutex
}

// NewFileStore creates a store backed by the file at path. The file and its
// parent directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Get(name string) (string, bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	slots := fs.read()
	value, ok := slots[name]
	return value, ok
}

func (fs *FileStore) Set(name, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	slots := fs.read()
	slots[name] = value
	return fs.write(slots)
}

func (fs *FileStore) Remove(name string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	slots := fs.read()
	if _, ok := slots[name]; !ok {
		return nil
	}
	delete(slots, name)
	return fs.write(slots)
}

// read returns the current slot map. A missing or unreadable file is treated
// as an empty store rather than an error.
func (fs *FileStore) read() map[string]string {
	slots := make(map[string]string)
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return slots
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return make(map[string]string)
	}
	return slots
}

func (fs *FileStore) write(slots map[string]string) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tempFile := fs.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, fs.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
