package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileRepository keeps every key in one JSON document on disk. Values must be
// valid JSON; they are embedded verbatim so the file stays human-readable.
type FileRepository struct {
	path    string
	now     func() time.Time
	entries map[string]fileEntry
}

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OpenFile loads path if it exists. A missing, blank or undecodable file starts
// empty; the next write replaces an undecodable one.
func OpenFile(path string, opts ...OpenOption) (*FileRepository, error) {
	o := resolveOptions(opts)
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: file path is required")
	}
	repo := &FileRepository{path: trimmed, now: time.Now, entries: make(map[string]fileEntry)}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return repo, nil
	}
	if err := json.Unmarshal(raw, &repo.entries); err != nil {
		o.logger.Warn("discarding unreadable store file", "path", trimmed, "err", err)
		repo.entries = make(map[string]fileEntry)
	}
	return repo, nil
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := r.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.Value...), nil
}

func (r *FileRepository) Put(_ context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: key is required")
	}
	if !json.Valid(value) {
		return fmt.Errorf("storage: value for %q is not valid json", key)
	}
	prev, existed := r.entries[key]
	r.entries[key] = fileEntry{Value: append(json.RawMessage(nil), value...), UpdatedAt: r.now().UTC()}
	if err := r.flush(); err != nil {
		if existed {
			r.entries[key] = prev
		} else {
			delete(r.entries, key)
		}
		return err
	}
	return nil
}

func (r *FileRepository) Delete(_ context.Context, key string) error {
	prev, ok := r.entries[key]
	if !ok {
		return ErrNotFound
	}
	delete(r.entries, key)
	if err := r.flush(); err != nil {
		r.entries[key] = prev
		return err
	}
	return nil
}

func (r *FileRepository) List(_ context.Context, filter EntryListFilter) ([]Entry, error) {
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		if strings.HasPrefix(key, filter.Prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entry := r.entries[key]
		out = append(out, Entry{Key: key, Value: append([]byte(nil), entry.Value...), UpdatedAt: entry.UpdatedAt})
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *FileRepository) flush() error {
	dir := filepath.Dir(r.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
