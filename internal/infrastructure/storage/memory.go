package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/emlak/backend/internal/application/media"
)

var _ media.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory. It is used when
// object storage is disabled in local development and in tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// MemoryObject is a stored object
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// NewMemoryObjectStorage creates an empty storage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{objects: make(map[string]MemoryObject)}
}

// Upload stores a copy of data
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = MemoryObject{
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
	}
	return nil
}

// DeleteObject removes the object
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// Get returns the stored object
func (s *MemoryObjectStorage) Get(storageKey string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
