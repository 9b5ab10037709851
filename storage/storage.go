package storage

import (
	"errors"
	"sync"
)

// ErrNotFound indicates no blob exists under the requested name.
var ErrNotFound = errors.New("blob not found")

// BlobStore is the durable load/save service backing the broker's state
// snapshots. Implementations must make Save atomic with respect to crashes.
type BlobStore interface {
	// Load returns the blob saved under name, or ErrNotFound.
	Load(name string) ([]byte, error)

	// Save overwrites the blob under name.
	Save(name string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// MemoryStore is an in-process BlobStore used by tests and by brokers that
// deliberately run without durability.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Load implements BlobStore.
func (m *MemoryStore) Load(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save implements BlobStore.
func (m *MemoryStore) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[name] = stored
	return nil
}

// Close implements BlobStore.
func (m *MemoryStore) Close() error { return nil }
