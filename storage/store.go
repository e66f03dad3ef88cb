package storage

import (
	"sync"

	"github.com/juju/errors"
)

// Store is the persistent key-value capability.
type Store interface {
	Has(key string) bool
	GetString(key string) (string, error)
	PutString(key, value string) error
	Remove(key string) error
}

const (
	KeyHistory           = "image_history"
	KeyLastConfirmed     = "last_confirmed_image"
	KeyTutorialCompleted = "tutorial_completed"
	imagePrefix          = "image/"
)

// ImageKey is the key holding the encoded blob for image id.
func ImageKey(id string) string {
	return imagePrefix + id
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}

func (m *Memory) GetString(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", errors.NotFoundf("key %q", key)
	}
	return v, nil
}

func (m *Memory) PutString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
