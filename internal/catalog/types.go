package catalog

import (
	"errors"
	"time"

	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/storage"
)

// ContentType distinguishes single videos from episodic series.
type ContentType string

const (
	TypeMovie  ContentType = "movie"
	TypeSeries ContentType = "series"
)

var (
	// ErrNotFound is returned when a catalog entry does not exist.
	ErrNotFound = storage.ErrNotFound
	// ErrUnrecognizedURL is returned by QuickAdd when the sample filename
	// does not follow a known release layout.
	ErrUnrecognizedURL = errors.New("unrecognized filename format")
	// ErrInvalidContent is returned when a payload cannot be stored.
	ErrInvalidContent = errors.New("invalid content")
)

// Content is a catalog entry.
type Content struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        ContentType     `json:"type"`
	URL         string          `json:"url,omitempty"`
	Episodes    []media.Episode `json:"episodes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Payload is the caller supplied part of a Content.
type Payload struct {
	Title       string
	Description string
	Type        ContentType
	URL         string
	Episodes    []media.Episode
}

// Episode returns the episode numbered n.
func (c Content) Episode(n int) (media.Episode, bool) {
	for _, ep := range c.Episodes {
		if ep.Number == n {
			return ep, true
		}
	}
	return media.Episode{}, false
}

// History is the viewing progress for one entry.
type History struct {
	ContentID      string    `json:"contentId"`
	CurrentEpisode int       `json:"currentEpisode,omitempty"`
	CurrentTime    float64   `json:"currentTime,omitempty"`
	Duration       float64   `json:"duration,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Progress returns the watched fraction in [0,1], or 0 when the duration
// is unknown.
func (h History) Progress() float64 {
	if h.Duration <= 0 {
		return 0
	}
	p := h.CurrentTime / h.Duration
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Bookmark marks an entry for later.
type Bookmark struct {
	ContentID      string      `json:"contentId"`
	Title          string      `json:"title"`
	Type           ContentType `json:"type"`
	CurrentEpisode int         `json:"currentEpisode,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// Rating is a user score from 1 to 5.
type Rating struct {
	ContentID string    `json:"contentId"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// Snapshot is the full catalog used for export and import.
type Snapshot struct {
	Content   []Content  `json:"content"`
	History   []History  `json:"history"`
	Bookmarks []Bookmark `json:"bookmarks"`
	Ratings   []Rating   `json:"ratings"`
}

// Filter selects entries in Search.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterMovie      Filter = "movie"
	FilterSeries     Filter = "series"
	FilterBookmarked Filter = "bookmarked"
)
