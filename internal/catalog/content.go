package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	oplog "github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/storage"
	"github.com/samber/lo"
)

// AddContent stores a new entry. For a series whose first episode URL has
// a recognized filename, an empty title defaults to the parsed series name
// and an empty description to the parsed quality, languages and format.
func (s *Service) AddContent(ctx context.Context, p Payload) (Content, error) {
	c, err := s.prepare(p)
	if err != nil {
		return Content{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.put(ctx, oplog.OpAdd, storage.KindContent, c.ID, c.Title, c); err != nil {
		return Content{}, fmt.Errorf("store %q: %w", c.Title, err)
	}
	s.log.Debugw("added content", "id", c.ID, "title", c.Title, "type", c.Type, "episodes", len(c.Episodes))
	return c, nil
}

func (s *Service) prepare(p Payload) (Content, error) {
	switch p.Type {
	case TypeMovie:
		if strings.TrimSpace(p.URL) == "" {
			return Content{}, fmt.Errorf("%w: movie requires a URL", ErrInvalidContent)
		}
	case TypeSeries:
		if len(p.Episodes) == 0 {
			return Content{}, fmt.Errorf("%w: series requires at least one episode", ErrInvalidContent)
		}
	default:
		return Content{}, fmt.Errorf("%w: unknown type %q", ErrInvalidContent, p.Type)
	}

	if p.Type == TypeSeries {
		if info, ok := media.ParseURL(p.Episodes[0].URL).Get(); ok {
			if strings.TrimSpace(p.Title) == "" {
				p.Title = info.SeriesName
			}
			if p.Description == "" {
				p.Description = info.Description()
			}
		}
	}

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return Content{}, fmt.Errorf("%w: title is required", ErrInvalidContent)
	}

	return Content{
		ID:          s.newID(),
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		URL:         p.URL,
		Episodes:    p.Episodes,
		CreatedAt:   s.now(),
	}, nil
}

// AddMovie stores a single-video entry.
func (s *Service) AddMovie(ctx context.Context, title, url, description string) (Content, error) {
	return s.AddContent(ctx, Payload{Title: title, Description: description, Type: TypeMovie, URL: url})
}

// AddSeries generates total episodes from sampleURL and stores them as one
// series. Title and description may be empty to use the parsed defaults.
func (s *Service) AddSeries(ctx context.Context, title, description, sampleURL string, total int) (Content, media.Batch, error) {
	batch, err := media.GenerateEpisodes(sampleURL, total)
	if err != nil {
		return Content{}, media.Batch{}, err
	}
	s.warnApproximate(sampleURL, batch)

	c, err := s.AddContent(ctx, Payload{
		Title:       title,
		Description: description,
		Type:        TypeSeries,
		URL:         sampleURL,
		Episodes:    batch.Episodes,
	})
	return c, batch, err
}

// QuickAdd creates a series from a recognized sample filename alone.
func (s *Service) QuickAdd(ctx context.Context, sampleURL string, total int) (Content, error) {
	info, ok := media.ParseURL(sampleURL).Get()
	if !ok {
		return Content{}, fmt.Errorf("%w: %s", ErrUnrecognizedURL, media.FilenameFromURL(sampleURL))
	}

	batch, err := media.GenerateFromPattern(sampleURL, info, total)
	if err != nil {
		return Content{}, err
	}
	s.warnApproximate(sampleURL, batch)

	return s.AddContent(ctx, Payload{
		Title:       info.SeriesName,
		Description: info.Description(),
		Type:        TypeSeries,
		URL:         sampleURL,
		Episodes:    batch.Episodes,
	})
}

// AddSeasonRange creates one series entry per season in req by expanding
// template. Everything is validated before the first write and all
// entries are stored together.
func (s *Service) AddSeasonRange(ctx context.Context, seriesName, template string, req media.RangeRequest) ([]Content, error) {
	seriesName = strings.TrimSpace(seriesName)
	if seriesName == "" {
		return nil, &media.ValidationError{Field: "series name", Message: "is required"}
	}
	if strings.TrimSpace(template) == "" {
		return nil, &media.ValidationError{Field: "url template", Message: "is required"}
	}

	seasons, err := media.GenerateSeasonRange(template, req)
	if err != nil {
		return nil, err
	}

	contents := make([]Content, 0, len(seasons))
	records := make([]storage.Record, 0, len(seasons))
	for _, season := range seasons {
		c := Content{
			ID:          s.newID(),
			Title:       s.cfg.ApplyRangeTitle(seriesName, season.Season),
			Description: s.cfg.ApplyRangeDescription(seriesName, season.Season),
			Type:        TypeSeries,
			URL:         template,
			Episodes:    season.Episodes,
			CreatedAt:   s.now(),
		}
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode season %d: %w", season.Season, err)
		}
		contents = append(contents, c)
		records = append(records, storage.Record{Key: c.ID, Value: data})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.SetMany(ctx, storage.KindContent, records)
	for i, r := range records {
		oplog.LogChange(oplog.OpAdd, storage.KindContent, r.Key, contents[i].Title, nil, r.Value, err)
	}
	if err != nil {
		return nil, fmt.Errorf("store season range: %w", err)
	}
	s.log.Debugw("added season range", "series", seriesName, "seasons", len(contents))
	return contents, nil
}

func (s *Service) warnApproximate(sampleURL string, batch media.Batch) {
	if !batch.Approximate {
		return
	}
	s.log.Warnw("episode URLs could not be derived from the sample; generated URLs are approximate",
		"url", sampleURL, "mode", batch.Mode, "episodes", len(batch.Episodes))
}

// GetAllContent returns every entry in insertion order.
func (s *Service) GetAllContent(ctx context.Context) ([]Content, error) {
	return listRecords[Content](ctx, s.store, storage.KindContent)
}

// GetContent returns the entry with id, or ErrNotFound.
func (s *Service) GetContent(ctx context.Context, id string) (Content, error) {
	return getRecord[Content](ctx, s.store, storage.KindContent, id)
}

// UpdateContent applies fn to the stored entry and saves the result. The
// ID and creation time cannot be changed.
func (s *Service) UpdateContent(ctx context.Context, id string, fn func(*Content)) (Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := getRecord[Content](ctx, s.store, storage.KindContent, id)
	if err != nil {
		return Content{}, err
	}
	created := c.CreatedAt
	fn(&c)
	c.ID = id
	c.CreatedAt = created

	if err := s.put(ctx, oplog.OpUpdate, storage.KindContent, id, c.Title, c); err != nil {
		return Content{}, err
	}
	return c, nil
}

// DeleteContent removes an entry along with its history, bookmark and
// rating.
func (s *Service) DeleteContent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := getRecord[Content](ctx, s.store, storage.KindContent, id)
	if err != nil {
		return err
	}
	if err := s.remove(ctx, oplog.OpDelete, storage.KindContent, id, c.Title); err != nil {
		return err
	}

	for _, kind := range []storage.Kind{storage.KindHistory, storage.KindBookmarks, storage.KindRatings} {
		if err := s.remove(ctx, oplog.OpDelete, kind, id, c.Title); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete %s for %s: %w", kind, id, err)
		}
	}
	return nil
}

// Search returns the entries whose title contains term, case-insensitively,
// and that match filter.
func (s *Service) Search(ctx context.Context, term string, filter Filter) ([]Content, error) {
	all, err := s.GetAllContent(ctx)
	if err != nil {
		return nil, err
	}

	var bookmarked map[string]Bookmark
	if filter == FilterBookmarked {
		bookmarks, err := s.Bookmarks(ctx)
		if err != nil {
			return nil, err
		}
		bookmarked = lo.KeyBy(bookmarks, func(b Bookmark) string { return b.ContentID })
	}

	term = strings.ToLower(term)
	return lo.Filter(all, func(c Content, _ int) bool {
		if !strings.Contains(strings.ToLower(c.Title), term) {
			return false
		}
		switch filter {
		case FilterMovie:
			return c.Type == TypeMovie
		case FilterSeries:
			return c.Type == TypeSeries
		case FilterBookmarked:
			_, ok := bookmarked[c.ID]
			return ok
		default:
			return true
		}
	}), nil
}
