package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the local key-value store the task list persists into. Values
// are opaque JSON documents; callers own their encoding.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, filter EntryListFilter) ([]Entry, error)
	Close() error
}
