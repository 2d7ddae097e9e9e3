// Package testutil provides testing utilities for wrkout tests.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrInjected is returned by MemoryStorage when a failure is configured
var ErrInjected = errors.New("injected storage failure")

// MemoryStorage is an in-memory key-value store with JSON round-tripping
// and per-key failure injection. It is safe for concurrent use.
type MemoryStorage struct {
	mu       sync.Mutex
	data     map[string][]byte
	failSave map[string]bool
	failLoad map[string]bool
	saves    map[string]int
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data:     make(map[string][]byte),
		failSave: make(map[string]bool),
		failLoad: make(map[string]bool),
		saves:    make(map[string]int),
	}
}

// FailSave makes Save fail for key until cleared with fail=false
func (m *MemoryStorage) FailSave(key string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave[key] = fail
}

// FailRetrieve makes Retrieve fail for key until cleared with fail=false
func (m *MemoryStorage) FailRetrieve(key string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad[key] = fail
}

// FailAllSaves makes every Save fail when fail is true
func (m *MemoryStorage) FailAllSaves(fail bool) {
	m.FailSave("*", fail)
}

// SaveCount returns how many successful saves key has received
func (m *MemoryStorage) SaveCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[key]
}

// TotalSaves returns the number of successful saves across all keys
func (m *MemoryStorage) TotalSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.saves {
		total += n
	}
	return total
}

// Save stores the JSON encoding of value under key
func (m *MemoryStorage) Save(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSave[key] || m.failSave["*"] {
		return ErrInjected
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = payload
	m.saves[key]++
	return nil
}

// Retrieve decodes the value under key into out
func (m *MemoryStorage) Retrieve(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLoad[key] {
		return false, ErrInjected
	}

	payload, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, out)
}
