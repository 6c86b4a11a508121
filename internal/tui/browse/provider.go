package browse

import (
	"fmt"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
)

// itemRule adapts an Item predicate to a node predicate.
func itemRule(cond func(*Item) bool) func(*treeview.Node[Item]) bool {
	return func(n *treeview.Node[Item]) bool {
		if it := n.Data(); it != nil {
			return cond(it)
		}
		return false
	}
}

func isEpisode() func(*treeview.Node[Item]) bool {
	return itemRule(func(it *Item) bool { return it.IsEpisode() })
}

func isCurrentEpisode() func(*treeview.Node[Item]) bool {
	return itemRule(func(it *Item) bool { return it.IsEpisode() && it.IsCurrent() })
}

func entryOfType(t catalog.ContentType) func(*treeview.Node[Item]) bool {
	return itemRule(func(it *Item) bool { return !it.IsEpisode() && it.Content.Type == t })
}

func bookmarkedEntry() func(*treeview.Node[Item]) bool {
	return itemRule(func(it *Item) bool { return !it.IsEpisode() && it.Bookmarked })
}

// CatalogProvider builds the node provider for the catalog tree:
//   - icon rules (bookmark and current episode before type icons)
//   - style rules (normal & focused variants)
//   - the CatalogFormatter labels.
func CatalogProvider(th theme.Theme) *treeview.DefaultNodeProvider[Item] {
	colors := th.Colors()
	iconSet := th.IconSet()

	bookmarkIconRule := treeview.WithIconRule(bookmarkedEntry(), iconSet["bookmark"])
	currentIconRule := treeview.WithIconRule(isCurrentEpisode(), iconSet["play"])
	seriesIconRule := treeview.WithIconRule(entryOfType(catalog.TypeSeries), iconSet["series"])
	movieIconRule := treeview.WithIconRule(entryOfType(catalog.TypeMovie), iconSet["movie"])
	episodeIconRule := treeview.WithIconRule(isEpisode(), iconSet["episode"])
	defaultIconRule := treeview.WithDefaultIcon[Item](iconSet["unknown"])

	currentStyleRule := treeview.WithStyleRule(
		isCurrentEpisode(),
		lipgloss.NewStyle().Foreground(colors.Accent).Bold(true),
		lipgloss.NewStyle().Foreground(colors.Background).Bold(true).Background(colors.Accent),
	)
	episodeStyleRule := treeview.WithStyleRule(
		isEpisode(),
		lipgloss.NewStyle().Foreground(colors.Muted),
		lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Primary),
	)
	seriesStyleRule := treeview.WithStyleRule(
		entryOfType(catalog.TypeSeries),
		lipgloss.NewStyle().Foreground(colors.Primary).Bold(true),
		lipgloss.NewStyle().Foreground(colors.Background).Bold(true).Background(colors.Secondary).PaddingRight(1),
	)
	movieStyleRule := treeview.WithStyleRule(
		entryOfType(catalog.TypeMovie),
		lipgloss.NewStyle().Foreground(colors.Secondary).Bold(true),
		lipgloss.NewStyle().Foreground(colors.Background).Bold(true).Background(colors.Primary).PaddingRight(1),
	)
	defaultStyleRule := treeview.WithStyleRule(
		func(*treeview.Node[Item]) bool { return true },
		lipgloss.NewStyle().Foreground(colors.Primary),
		lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Primary),
	)

	return treeview.NewDefaultNodeProvider(
		bookmarkIconRule, currentIconRule, seriesIconRule, movieIconRule, episodeIconRule, defaultIconRule,
		currentStyleRule, episodeStyleRule, seriesStyleRule, movieStyleRule, defaultStyleRule,
		treeview.WithFormatter(CatalogFormatter),
	)
}

// CatalogFormatter labels entries with their episode count and rating, and
// episodes with their number and title.
func CatalogFormatter(node *treeview.Node[Item]) (string, bool) {
	it := node.Data()
	if it == nil {
		return node.Name(), true
	}
	if it.IsEpisode() {
		return fmt.Sprintf("%02d  %s", it.Episode.Number, it.Episode.Title), true
	}

	label := it.Content.Title
	if it.Content.Type == catalog.TypeSeries {
		label = fmt.Sprintf("%s (%d)", label, len(it.Content.Episodes))
	}
	if rating, ok := it.Rating.Get(); ok {
		label = fmt.Sprintf("%s %d/%d", label, rating, catalog.MaxRating)
	}
	return label, true
}
