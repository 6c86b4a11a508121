package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

type memoryEntry struct {
	kind  Kind
	seq   int64
	value []byte
}

// MemoryStore keeps records in process memory. It is used for tests and
// for throwaway sessions.
type MemoryStore struct {
	mu      sync.Mutex
	seq     int64
	records *csmap.CsMap[string, memoryEntry]
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: csmap.Create[string, memoryEntry]()}
}

func memoryKey(kind Kind, key string) string {
	return string(kind) + "/" + key
}

func (m *MemoryStore) Get(_ context.Context, kind Kind, key string) ([]byte, error) {
	entry, ok := m.records.Load(memoryKey(kind, key))
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	return slices.Clone(entry.value), nil
}

func (m *MemoryStore) Set(_ context.Context, kind Kind, key string, value []byte) error {
	if err := validKind(kind); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(kind, key, value)
	return nil
}

func (m *MemoryStore) SetMany(_ context.Context, kind Kind, records []Record) error {
	if err := validKind(kind); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.setLocked(kind, r.Key, r.Value)
	}
	return nil
}

func (m *MemoryStore) setLocked(kind Kind, key string, value []byte) {
	k := memoryKey(kind, key)
	entry, ok := m.records.Load(k)
	if !ok {
		m.seq++
		entry = memoryEntry{kind: kind, seq: m.seq}
	}
	entry.value = slices.Clone(value)
	m.records.Store(k, entry)
}

func (m *MemoryStore) Delete(_ context.Context, kind Kind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memoryKey(kind, key)
	if _, ok := m.records.Load(k); !ok {
		return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	m.records.Delete(k)
	return nil
}

func (m *MemoryStore) List(_ context.Context, kind Kind) ([][]byte, error) {
	var entries []memoryEntry
	m.records.Range(func(_ string, entry memoryEntry) bool {
		if entry.kind == kind {
			entries = append(entries, entry)
		}
		return false
	})
	slices.SortFunc(entries, func(a, b memoryEntry) int {
		return int(a.seq - b.seq)
	})

	values := make([][]byte, 0, len(entries))
	for _, entry := range entries {
		values = append(values, slices.Clone(entry.value))
	}
	return values, nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	return nil
}

func (m *MemoryStore) Replace(_ context.Context, batches map[Kind][]Record) error {
	if err := validBatches(batches); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	for _, kind := range Kinds {
		for _, r := range batches[kind] {
			m.setLocked(kind, r.Key, r.Value)
		}
	}
	return nil
}

func (m *MemoryStore) clearLocked() {
	var keys []string
	m.records.Range(func(key string, _ memoryEntry) bool {
		keys = append(keys, key)
		return false
	})
	for _, key := range keys {
		m.records.Delete(key)
	}
}

func (m *MemoryStore) Close() error {
	return nil
}
