package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	oplog "github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/storage"
	"github.com/samber/mo"
)

// lookup wraps a keyed read as an Option, treating ErrNotFound as None.
func lookup[T any](ctx context.Context, store storage.Store, kind storage.Kind, key string) (mo.Option[T], error) {
	v, err := getRecord[T](ctx, store, kind, key)
	if errors.Is(err, storage.ErrNotFound) {
		return mo.None[T](), nil
	}
	if err != nil {
		return mo.None[T](), err
	}
	return mo.Some(v), nil
}

// SaveHistory records viewing progress, replacing any earlier progress for
// the same entry.
func (s *Service) SaveHistory(ctx context.Context, h History) (History, error) {
	if h.ContentID == "" {
		return History{}, fmt.Errorf("%w: history requires a content id", ErrInvalidContent)
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := getRecord[Content](ctx, s.store, storage.KindContent, h.ContentID)
	if err != nil {
		return History{}, err
	}
	if c.Type == TypeSeries && h.CurrentEpisode != 0 {
		if _, ok := c.Episode(h.CurrentEpisode); !ok {
			return History{}, &media.ValidationError{
				Field:   "episode",
				Value:   strconv.Itoa(h.CurrentEpisode),
				Message: fmt.Sprintf("%q has %d episodes", c.Title, len(c.Episodes)),
			}
		}
	}
	if err := s.put(ctx, oplog.OpHistory, storage.KindHistory, h.ContentID, c.Title, h); err != nil {
		return History{}, err
	}
	return h, nil
}

// GetHistory returns the viewing progress for an entry, if any.
func (s *Service) GetHistory(ctx context.Context, contentID string) (mo.Option[History], error) {
	return lookup[History](ctx, s.store, storage.KindHistory, contentID)
}

// AllHistory returns all viewing progress in insertion order.
func (s *Service) AllHistory(ctx context.Context) ([]History, error) {
	return listRecords[History](ctx, s.store, storage.KindHistory)
}

// RecentlyWatched returns up to limit entries, most recently watched first.
func (s *Service) RecentlyWatched(ctx context.Context, limit int) ([]Content, error) {
	history, err := s.AllHistory(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})

	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}

	recent := make([]Content, 0, limit)
	for _, h := range history {
		if len(recent) == limit {
			break
		}
		c, err := s.GetContent(ctx, h.ContentID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recent = append(recent, c)
	}
	return recent, nil
}

// AddBookmark bookmarks an entry. When episode is 0 the current episode
// from viewing history is used.
func (s *Service) AddBookmark(ctx context.Context, contentID string, episode int) (Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := getRecord[Content](ctx, s.store, storage.KindContent, contentID)
	if err != nil {
		return Bookmark{}, err
	}
	if episode == 0 && c.Type == TypeSeries {
		h, err := lookup[History](ctx, s.store, storage.KindHistory, contentID)
		if err != nil {
			return Bookmark{}, err
		}
		if v, ok := h.Get(); ok {
			episode = v.CurrentEpisode
		}
	}

	b := Bookmark{
		ContentID:      contentID,
		Title:          c.Title,
		Type:           c.Type,
		CurrentEpisode: episode,
		Timestamp:      s.now(),
	}
	if err := s.put(ctx, oplog.OpBookmark, storage.KindBookmarks, contentID, c.Title, b); err != nil {
		return Bookmark{}, err
	}
	return b, nil
}

// RemoveBookmark removes the bookmark for an entry, or returns ErrNotFound.
func (s *Service) RemoveBookmark(ctx context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, oplog.OpUnbookmark, storage.KindBookmarks, contentID, "")
}

// IsBookmarked reports whether an entry is bookmarked.
func (s *Service) IsBookmarked(ctx context.Context, contentID string) (bool, error) {
	b, err := lookup[Bookmark](ctx, s.store, storage.KindBookmarks, contentID)
	return b.IsPresent(), err
}

// Bookmarks returns all bookmarks in insertion order.
func (s *Service) Bookmarks(ctx context.Context) ([]Bookmark, error) {
	return listRecords[Bookmark](ctx, s.store, storage.KindBookmarks)
}

// Rate stores a 1 to 5 rating for an entry.
func (s *Service) Rate(ctx context.Context, contentID string, rating int) (Rating, error) {
	if rating < MinRating || rating > MaxRating {
		return Rating{}, &media.ValidationError{
			Field:   "rating",
			Value:   strconv.Itoa(rating),
			Message: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := getRecord[Content](ctx, s.store, storage.KindContent, contentID)
	if err != nil {
		return Rating{}, err
	}
	r := Rating{ContentID: contentID, Rating: rating, Timestamp: s.now()}
	if err := s.put(ctx, oplog.OpRate, storage.KindRatings, contentID, c.Title, r); err != nil {
		return Rating{}, err
	}
	return r, nil
}

// RatingFor returns the rating of an entry, if rated.
func (s *Service) RatingFor(ctx context.Context, contentID string) (mo.Option[int], error) {
	r, err := lookup[Rating](ctx, s.store, storage.KindRatings, contentID)
	if err != nil {
		return mo.None[int](), err
	}
	if v, ok := r.Get(); ok {
		return mo.Some(v.Rating), nil
	}
	return mo.None[int](), nil
}

// Ratings returns all ratings in insertion order.
func (s *Service) Ratings(ctx context.Context) ([]Rating, error) {
	return listRecords[Rating](ctx, s.store, storage.KindRatings)
}
