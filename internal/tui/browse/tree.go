package browse

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Source is the read side of the catalog used by the browser.
type Source interface {
	GetAllContent(ctx context.Context) ([]catalog.Content, error)
	AllHistory(ctx context.Context) ([]catalog.History, error)
	Bookmarks(ctx context.Context) ([]catalog.Bookmark, error)
	Ratings(ctx context.Context) ([]catalog.Rating, error)
}

// Item is the data behind one tree row: a catalog entry, or one episode of
// a series when Episode is set.
type Item struct {
	Content    catalog.Content
	Episode    media.Episode
	History    mo.Option[catalog.History]
	Rating     mo.Option[int]
	Bookmarked bool
}

// IsEpisode reports whether the row is an episode of a series.
func (i Item) IsEpisode() bool {
	return i.Episode.Number > 0
}

// IsCurrent reports whether the row is the episode the viewer is on.
func (i Item) IsCurrent() bool {
	h, ok := i.History.Get()
	return ok && i.IsEpisode() && h.CurrentEpisode == i.Episode.Number
}

// EpisodeChoice is the episode to play for this row: the row's own number
// for episodes, none for entries so playback falls back to history.
func (i Item) EpisodeChoice() mo.Option[int] {
	if i.IsEpisode() {
		return mo.Some(i.Episode.Number)
	}
	return mo.None[int]()
}

// LoadItems reads the catalog and joins history, bookmarks and ratings
// onto each entry.
func LoadItems(ctx context.Context, src Source) ([]Item, error) {
	contents, err := src.GetAllContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	history, err := src.AllHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	bookmarks, err := src.Bookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	ratings, err := src.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	historyByID := lo.KeyBy(history, func(h catalog.History) string { return h.ContentID })
	bookmarkByID := lo.KeyBy(bookmarks, func(b catalog.Bookmark) string { return b.ContentID })
	ratingByID := lo.KeyBy(ratings, func(r catalog.Rating) string { return r.ContentID })

	items := make([]Item, 0, len(contents))
	for _, c := range contents {
		it := Item{Content: c, History: mo.None[catalog.History](), Rating: mo.None[int]()}
		if h, ok := historyByID[c.ID]; ok {
			it.History = mo.Some(h)
		}
		if r, ok := ratingByID[c.ID]; ok {
			it.Rating = mo.Some(r.Rating)
		}
		_, it.Bookmarked = bookmarkByID[c.ID]
		items = append(items, it)
	}
	return items, nil
}

// BuildTree turns items into a tree with one node per entry and one child
// per series episode.
func BuildTree(items []Item, th theme.Theme) *treeview.Tree[Item] {
	nodes := make([]*treeview.Node[Item], 0, len(items))
	for _, it := range items {
		node := treeview.NewNode(it.Content.ID, it.Content.Title, it)
		for _, ep := range it.Content.Episodes {
			child := it
			child.Episode = ep
			node.AddChild(treeview.NewNode(episodeNodeID(it.Content.ID, ep.Number), ep.Title, child))
		}
		nodes = append(nodes, node)
	}
	return treeview.NewTree(nodes,
		treeview.WithExpandAll[Item](),
		treeview.WithProvider(CatalogProvider(th)),
	)
}

func episodeNodeID(contentID string, n int) string {
	return fmt.Sprintf("%s/%d", contentID, n)
}
