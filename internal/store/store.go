// Package store is the persistence port behind the repositories. A Store
// holds named collections, each an ordered sequence of flat records encoded
// as a single JSON array; repositories always read and replace a collection
// as a whole.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store loads and replaces whole collections.
type Store interface {
	// Load returns the encoded collection, or nil when it has never been saved.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save atomically replaces the encoded collection.
	Save(ctx context.Context, collection string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string
	DatabaseURL string
	SQLitePath  string
}

// Open constructs the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.DataDir)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	case BackendSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}
