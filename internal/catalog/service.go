// Package catalog manages the user's media catalog: entries, viewing
// history, bookmarks and ratings. It fills in series metadata from episode
// filenames and generates episode lists from a single sample URL.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Digital-Shane/reelshelf/internal/config"
	oplog "github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/logger"
	"github.com/Digital-Shane/reelshelf/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the catalog API. Writes are serialized so read-modify-write
// sequences are atomic within the process.
type Service struct {
	store storage.Store
	cfg   *config.Config
	log   *zap.SugaredLogger
	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how entry IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) { s.log = l }
}

// WithConfig supplies settings such as the range naming templates.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// New creates a Service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

func decode[T any](kind storage.Kind, raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return v, nil
}

func getRecord[T any](ctx context.Context, store storage.Store, kind storage.Kind, key string) (T, error) {
	raw, err := store.Get(ctx, kind, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](kind, raw)
}

func listRecords[T any](ctx context.Context, store storage.Store, kind storage.Kind) ([]T, error) {
	raws, err := store.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := decode[T](kind, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// current returns the stored bytes for kind/key, or nil when absent.
func (s *Service) current(ctx context.Context, kind storage.Kind, key string) ([]byte, error) {
	raw, err := s.store.Get(ctx, kind, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return raw, err
}

// put stores value and records the change in the operation log.
// Callers hold s.mu.
func (s *Service) put(ctx context.Context, op oplog.OperationType, kind storage.Kind, key, title string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	before, err := s.current(ctx, kind, key)
	if err != nil {
		return err
	}
	err = s.store.Set(ctx, kind, key, data)
	oplog.LogChange(op, kind, key, title, before, data, err)
	return err
}

// remove deletes kind/key and records the change. Callers hold s.mu.
func (s *Service) remove(ctx context.Context, op oplog.OperationType, kind storage.Kind, key, title string) error {
	before, err := s.current(ctx, kind, key)
	if err != nil {
		return err
	}
	if before == nil {
		return fmt.Errorf("%s %q: %w", kind, key, storage.ErrNotFound)
	}
	err = s.store.Delete(ctx, kind, key)
	oplog.LogChange(op, kind, key, title, before, nil, err)
	return err
}
