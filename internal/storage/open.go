package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverFile   Driver = "file"
	DriverMemory Driver = "memory"
)

func (d Driver) IsValid() bool {
	switch d {
	case DriverSQLite, DriverFile, DriverMemory:
		return true
	default:
		return false
	}
}

type openOptions struct {
	logger *log.Logger
}

type OpenOption func(*openOptions)

// WithLogger receives warnings about persisted data that had to be discarded.
func WithLogger(logger *log.Logger) OpenOption {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolveOptions(opts []OpenOption) openOptions {
	o := openOptions{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open returns the backend named by driver. path is ignored for DriverMemory.
func Open(ctx context.Context, driver Driver, path string, opts ...OpenOption) (Repository, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(ctx, path)
	case DriverFile:
		return OpenFile(path, opts...)
	case DriverMemory:
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
