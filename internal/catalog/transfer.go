package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	oplog "github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/storage"
)

// Export returns every record in the catalog.
func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Content, err = listRecords[Content](ctx, s.store, storage.KindContent); err != nil {
		return Snapshot{}, err
	}
	if snap.History, err = listRecords[History](ctx, s.store, storage.KindHistory); err != nil {
		return Snapshot{}, err
	}
	if snap.Bookmarks, err = listRecords[Bookmark](ctx, s.store, storage.KindBookmarks); err != nil {
		return Snapshot{}, err
	}
	if snap.Ratings, err = listRecords[Rating](ctx, s.store, storage.KindRatings); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Import replaces the whole catalog with snap. The replacement is a single
// store change: when it fails the previous catalog is kept.
func (s *Service) Import(ctx context.Context, snap Snapshot) error {
	batches, err := snapshotRecords(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Export(ctx)
	if err != nil {
		return err
	}
	existing, err := snapshotRecords(current)
	if err != nil {
		return err
	}

	err = s.store.Replace(ctx, batches)
	for _, kind := range storage.Kinds {
		for _, r := range existing[kind] {
			oplog.LogChange(oplog.OpClear, kind, r.Key, "", r.Value, nil, err)
		}
	}
	for _, kind := range storage.Kinds {
		for _, r := range batches[kind] {
			oplog.LogChange(oplog.OpImport, kind, r.Key, "", nil, r.Value, err)
		}
	}
	if err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}
	s.log.Infow("imported catalog", "content", len(snap.Content), "history", len(snap.History),
		"bookmarks", len(snap.Bookmarks), "ratings", len(snap.Ratings))
	return nil
}

// Clear removes every record from the catalog.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

func (s *Service) clearLocked(ctx context.Context) error {
	snap, err := s.Export(ctx)
	if err != nil {
		return err
	}
	existing, err := snapshotRecords(snap)
	if err != nil {
		return err
	}

	err = s.store.Clear(ctx)
	for _, kind := range storage.Kinds {
		for _, r := range existing[kind] {
			oplog.LogChange(oplog.OpClear, kind, r.Key, "", r.Value, nil, err)
		}
	}
	if err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return nil
}

func snapshotRecords(snap Snapshot) (map[storage.Kind][]storage.Record, error) {
	out := make(map[storage.Kind][]storage.Record, len(storage.Kinds))
	add := func(kind storage.Kind, key string, v any) error {
		if key == "" {
			return fmt.Errorf("%w: %s record without id", ErrInvalidContent, kind)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", kind, key, err)
		}
		out[kind] = append(out[kind], storage.Record{Key: key, Value: data})
		return nil
	}

	for _, c := range snap.Content {
		if err := add(storage.KindContent, c.ID, c); err != nil {
			return nil, err
		}
	}
	for _, h := range snap.History {
		if err := add(storage.KindHistory, h.ContentID, h); err != nil {
			return nil, err
		}
	}
	for _, b := range snap.Bookmarks {
		if err := add(storage.KindBookmarks, b.ContentID, b); err != nil {
			return nil, err
		}
	}
	for _, r := range snap.Ratings {
		if err := add(storage.KindRatings, r.ContentID, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}
