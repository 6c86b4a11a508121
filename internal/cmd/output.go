package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

const (
	idWidth    = 8
	titleWidth = 40
)

// printer renders command output with the TUI theme.
type printer struct {
	w     io.Writer
	theme theme.Theme
}

func newPrinter(w io.Writer) printer {
	return printer{w: w, theme: theme.Default()}
}

func (p printer) line(format string, a ...any) {
	fmt.Fprintf(p.w, format+"\n", a...)
}

func (p printer) heading(text string) {
	style := lipgloss.NewStyle().Bold(true).Foreground(p.theme.Colors().Primary)
	fmt.Fprintln(p.w, style.Render(text))
}

func (p printer) field(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.theme.LabelStyle().Render(runewidth.FillRight(label+":", 12)), value)
}

func (p printer) warn(format string, a ...any) {
	fmt.Fprintln(p.w, p.theme.Notice(theme.NoticeWarning, fmt.Sprintf(format, a...)))
}

func (p printer) success(format string, a ...any) {
	fmt.Fprintln(p.w, p.theme.Notice(theme.NoticeSuccess, fmt.Sprintf(format, a...)))
}

// parsed prints the fields recognized in a release filename.
func (p printer) parsed(info media.ParsedVideoInfo) {
	p.field("Series", info.SeriesName)
	p.field("Season", info.Season)
	p.field("Episode", info.Episode)
	p.field("Quality", info.Quality)
	if len(info.Languages) > 0 {
		p.field("Languages", strings.Join(info.Languages, ", "))
	}
	if info.Format != "" {
		p.field("Format", info.Format)
	}
	p.field("Description", info.Description())
}

// table prints one row per entry: short id, type, title, episodes, age.
func (p printer) table(contents []catalog.Content) {
	if len(contents) == 0 {
		p.line("No entries found.")
		return
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(p.theme.Colors().Muted)
	p.line("%s", header.Render(fmt.Sprintf("%-*s  %-6s  %s  %8s  %s",
		idWidth, "ID", "TYPE", runewidth.FillRight("TITLE", titleWidth), "EPISODES", "ADDED")))
	for _, c := range contents {
		episodes := "-"
		if c.Type == catalog.TypeSeries {
			episodes = fmt.Sprint(len(c.Episodes))
		}
		p.line("%-*s  %-6s  %s  %8s  %s",
			idWidth, shortID(c.ID),
			c.Type,
			runewidth.FillRight(runewidth.Truncate(c.Title, titleWidth, "…"), titleWidth),
			episodes,
			humanize.Time(c.CreatedAt),
		)
	}
}

func shortID(id string) string {
	if len(id) <= idWidth {
		return id
	}
	return id[:idWidth]
}

// resolveID accepts a full id or a unique prefix of one.
func resolveID(ctx context.Context, svc *catalog.Service, ref string) (catalog.Content, error) {
	c, err := svc.GetContent(ctx, ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return catalog.Content{}, err
	}

	all, err := svc.GetAllContent(ctx)
	if err != nil {
		return catalog.Content{}, err
	}
	matches := lo.Filter(all, func(c catalog.Content, _ int) bool {
		return ref != "" && strings.HasPrefix(c.ID, ref)
	})
	switch len(matches) {
	case 0:
		return catalog.Content{}, fmt.Errorf("no entry with id %q: %w", ref, catalog.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return catalog.Content{}, fmt.Errorf("id prefix %q matches %d entries", ref, len(matches))
	}
}
