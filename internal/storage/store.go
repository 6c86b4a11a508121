// Package storage persists catalog records as opaque JSON values grouped by
// kind. Records of a kind are listed in insertion order and updating an
// existing key keeps its position.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Digital-Shane/reelshelf/internal/config"
)

// Kind groups records of the same entity type.
type Kind string

const (
	KindContent   Kind = "content"
	KindHistory   Kind = "history"
	KindBookmarks Kind = "bookmarks"
	KindRatings   Kind = "ratings"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{KindContent, KindHistory, KindBookmarks, KindRatings}

// ErrNotFound is returned when a key does not exist for a kind.
var ErrNotFound = errors.New("record not found")

// Record is a key and its encoded value.
type Record struct {
	Key   string
	Value []byte
}

// Store is the persistence contract used by the catalog.
type Store interface {
	Get(ctx context.Context, kind Kind, key string) ([]byte, error)
	Set(ctx context.Context, kind Kind, key string, value []byte) error
	// SetMany writes every record or none of them.
	SetMany(ctx context.Context, kind Kind, records []Record) error
	Delete(ctx context.Context, kind Kind, key string) error
	List(ctx context.Context, kind Kind) ([][]byte, error)
	Clear(ctx context.Context) error
	// Replace removes every record and writes batches in Kinds order as a
	// single change. On error the previous records are left in place.
	Replace(ctx context.Context, batches map[Kind][]Record) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendSQLite, "":
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func validBatches(batches map[Kind][]Record) error {
	for kind := range batches {
		if err := validKind(kind); err != nil {
			return err
		}
	}
	return nil
}

func validKind(kind Kind) error {
	for _, k := range Kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("unknown record kind %q", kind)
}
