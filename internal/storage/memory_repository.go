package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is a process-local Repository. Nothing survives Close.
type MemoryRepository struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]Entry
	// FailPuts makes every Put return the error, for exercising write failures.
	FailPuts error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now, entries: make(map[string]Entry)}
}

func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.Value...), nil
}

func (r *MemoryRepository) Put(_ context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: key is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailPuts != nil {
		return r.FailPuts
	}
	r.entries[key] = Entry{Key: key, Value: append([]byte(nil), value...), UpdatedAt: r.now().UTC()}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return ErrNotFound
	}
	delete(r.entries, key)
	return nil
}

func (r *MemoryRepository) List(_ context.Context, filter EntryListFilter) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.entries))
	for key, entry := range r.entries {
		if strings.HasPrefix(key, filter.Prefix) {
			entry.Value = append([]byte(nil), entry.Value...)
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return paginate(out, filter.Limit, filter.Offset), nil
}
