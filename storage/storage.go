// Package storage provides the local key-value slot that holds all
// persisted blog state: one SQLite file on disk, or an in-memory map in tests.
package storage

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when a key has never been set or was removed.
var ErrNotFound = errors.New("storage: key not found")

// Slot is a string key-value medium. Every Set overwrites the whole value
// for its key in a single write.
type Slot interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is an in-memory Slot, safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}
