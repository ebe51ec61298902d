package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Named collections
const (
	CollectionListings  = "listings"
	CollectionUsers     = "users"
	CollectionInquiries = "inquiries"
)

var (
	// ErrStoreUnavailable means a collection could not be read: missing or corrupt
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCollectionMissing means the collection has never been written
	ErrCollectionMissing = fmt.Errorf("%w: collection missing", ErrStoreUnavailable)
	// ErrNotFound means an id lookup missed
	ErrNotFound = errors.New("not found")
)

// CollectionStore reads and writes whole named collections
type CollectionStore interface {
	ReadCollection(ctx context.Context, name string) ([]byte, error)
	WriteCollection(ctx context.Context, name string, data []byte) error
}

// fileNames keeps the data file names used by the existing data directory
var fileNames = map[string]string{
	CollectionListings:  "pgs.json",
	CollectionUsers:     "users.json",
	CollectionInquiries: "inquiries.json",
}

// FileCollectionStore keeps one JSON file per collection
type FileCollectionStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileCollectionStore creates a file store rooted at dir
func NewFileCollectionStore(dir string) (*FileCollectionStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileCollectionStore{dir: dir}, nil
}

func (s *FileCollectionStore) path(name string) string {
	file, ok := fileNames[name]
	if !ok {
		file = name + ".json"
	}
	return filepath.Join(s.dir, file)
}

// ReadCollection returns the raw file contents
func (s *FileCollectionStore) ReadCollection(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrCollectionMissing)
		}
		return nil, fmt.Errorf("%s: %w: %v", name, ErrStoreUnavailable, err)
	}
	return data, nil
}

// WriteCollection replaces the file through a temp file and rename, so a
// reader never sees a partially written collection
func (s *FileCollectionStore) WriteCollection(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(name)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// MemoryCollectionStore keeps collections in process memory
type MemoryCollectionStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryCollectionStore creates an empty in-memory store
func NewMemoryCollectionStore() *MemoryCollectionStore {
	return &MemoryCollectionStore{data: make(map[string][]byte)}
}

// ReadCollection returns a copy of the stored bytes
func (s *MemoryCollectionStore) ReadCollection(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrCollectionMissing)
	}
	return append([]byte(nil), data...), nil
}

// WriteCollection stores a copy of data
func (s *MemoryCollectionStore) WriteCollection(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = append([]byte(nil), data...)
	return nil
}

func readJSON(ctx context.Context, store CollectionStore, name string, v interface{}) error {
	data, err := store.ReadCollection(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w: %v", name, ErrStoreUnavailable, err)
	}
	return nil
}

func writeJSON(ctx context.Context, store CollectionStore, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := store.WriteCollection(ctx, name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
