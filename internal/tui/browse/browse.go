package browse

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/playback"
	"github.com/Digital-Shane/reelshelf/internal/tui/components"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/mo"
)

// Model is the catalog browser: entries and episodes on the left, details
// and player links for the focused row on the right.
type Model struct {
	*treeview.TuiTreeModel[Item]
	width      int
	height     int
	splitRatio float64
	theme      theme.Theme

	detailsViewport *viewport.Model
	detailsFocused  bool

	selected mo.Option[Item]
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) { m.theme = th }
}

// New creates a browser over tree.
func New(tree *treeview.Tree[Item], opts ...Option) *Model {
	m := &Model{
		width:      80,
		height:     24,
		splitRatio: 0.5,
		theme:      theme.Default(),
		selected:   mo.None[Item](),
	}
	for _, opt := range opts {
		opt(m)
	}

	keyMap := treeview.DefaultKeyMap()
	keyMap.Reset = []string{}

	treeWidth := int(float64(m.width)*m.splitRatio) - 2
	m.TuiTreeModel = treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[Item](treeWidth),
		treeview.WithTuiHeight[Item](m.height-4),
		treeview.WithTuiAllowResize[Item](true),
		treeview.WithTuiDisableNavBar[Item](true),
		treeview.WithTuiKeyMap[Item](keyMap),
	)

	m.detailsViewport = components.NewViewport(m.width-treeWidth-6, m.height-8, m.theme)
	return m
}

// Selected returns the row chosen with enter, if any.
func (m *Model) Selected() mo.Option[Item] {
	return m.selected
}

func (m *Model) focusedItem() mo.Option[Item] {
	node := m.TuiTreeModel.Tree.GetFocusedNode()
	if node == nil || node.Data() == nil {
		return mo.None[Item]()
	}
	return mo.Some(*node.Data())
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		treeWidth := int(float64(m.width)*m.splitRatio) - 2
		treeModel, cmd := m.TuiTreeModel.Update(tea.WindowSizeMsg{Width: treeWidth, Height: m.height - 4})
		m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[Item])
		m.detailsViewport.Width = m.width - treeWidth - 6
		m.detailsViewport.Height = m.height - 8
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.detailsFocused = !m.detailsFocused
			return m, nil
		case "enter":
			if it, ok := m.focusedItem().Get(); ok {
				m.selected = mo.Some(it)
				return m, tea.Quit
			}
			return m, nil
		case "up":
			if m.detailsFocused {
				m.detailsViewport.ScrollUp(1)
				return m, nil
			}
		case "down":
			if m.detailsFocused {
				m.detailsViewport.ScrollDown(1)
				return m, nil
			}
		case "pgup":
			if m.detailsFocused {
				m.detailsViewport.HalfPageUp()
				return m, nil
			}
		case "pgdown":
			if m.detailsFocused {
				m.detailsViewport.HalfPageDown()
				return m, nil
			}
		}
	}

	if !m.detailsFocused {
		treeModel, cmd := m.TuiTreeModel.Update(msg)
		m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[Item])
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	colors := m.theme.Colors()

	b.WriteString(m.theme.HeaderStyle().Width(m.width).Render("ReelShelf Catalog"))
	b.WriteByte('\n')

	leftWidth := int(float64(m.width) * m.splitRatio)
	left := m.renderTree(leftWidth, m.height-3)
	right := m.renderDetails(m.width-leftWidth, m.height-3)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteByte('\n')

	focusInfo := "Tab: Details Focus | "
	if m.detailsFocused {
		focusInfo = "Tab: List Focus | "
	}
	b.WriteString(lipgloss.NewStyle().
		Italic(true).
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(colors.Muted).
		Render(focusInfo + "↑↓ Navigate | /: Search | Enter: Play | Esc/Ctrl+C: Quit"))
	return b.String()
}

func (m *Model) sizedPanel(width, height int, border lipgloss.Color) lipgloss.Style {
	style := m.theme.PanelStyle().BorderForeground(border)
	if w := width - style.GetHorizontalFrameSize(); w > 0 {
		style = style.Width(w)
	}
	if h := height - style.GetVerticalFrameSize(); h > 0 {
		style = style.Height(h)
	}
	return style.Padding(0, 1)
}

func (m *Model) panelTitle(text string, width int, color lipgloss.Color) string {
	if width > 4 {
		width -= 4
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}

func (m *Model) renderTree(width, height int) string {
	colors := m.theme.Colors()
	title := m.panelTitle("Library", width, colors.Primary)
	return m.sizedPanel(width, height, colors.Primary).Render(title + "\n" + m.TuiTreeModel.View())
}

func (m *Model) renderDetails(width, height int) string {
	colors := m.theme.Colors()

	if it, ok := m.focusedItem().Get(); ok {
		m.detailsViewport.SetContent(m.formatDetails(it))
	} else {
		m.detailsViewport.SetContent(lipgloss.NewStyle().
			Italic(true).
			Foreground(colors.Muted).
			Render("Select an entry to view details"))
	}

	scroll := ""
	if m.detailsViewport.TotalLineCount() > m.detailsViewport.Height {
		if m.detailsFocused {
			scroll = " [Use Tab+↑↓]"
		} else {
			scroll = " [Tab to scroll]"
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.panelTitle("Details"+scroll, width, colors.Secondary),
		"",
		m.detailsViewport.View(),
	)
	return m.sizedPanel(width, height, colors.Secondary).Render(content)
}

// formatDetails renders the entry, its activity and the player links for
// the row.
func (m *Model) formatDetails(it Item) string {
	var b strings.Builder
	colors := m.theme.Colors()
	label := lipgloss.NewStyle().Bold(true).Foreground(colors.Accent)
	value := lipgloss.NewStyle().Foreground(colors.Primary)
	line := func(name, v string) {
		b.WriteString(label.Render(name+": ") + value.Render(v) + "\n")
	}

	c := it.Content
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.theme.KindIcon(string(c.Type)) + " " + c.Title))
	b.WriteString("\n\n")
	if c.Description != "" {
		b.WriteString(c.Description)
		b.WriteString("\n\n")
	}

	line("Type", string(c.Type))
	if c.Type == catalog.TypeSeries {
		line("Episodes", fmt.Sprintf("%d", len(c.Episodes)))
	}
	if !c.CreatedAt.IsZero() {
		line("Added", humanize.Time(c.CreatedAt))
	}
	if rating, ok := it.Rating.Get(); ok {
		b.WriteString(label.Render("Rating: ") + m.theme.Stars(rating) + "\n")
	}
	if it.Bookmarked {
		line("Bookmarked", m.theme.Icon("bookmark"))
	}
	if h, ok := it.History.Get(); ok {
		progress := fmt.Sprintf("%.0f%%", h.Progress()*100)
		if h.CurrentEpisode > 0 {
			progress = fmt.Sprintf("episode %d, %s", h.CurrentEpisode, progress)
		}
		line("Watched", progress+" "+humanize.Time(h.Timestamp))
	}

	if info, ok := media.ParseURL(m.sampleURL(it)).Get(); ok {
		b.WriteByte('\n')
		line("Quality", info.Quality)
		if len(info.Languages) > 0 {
			line("Languages", strings.Join(info.Languages, ", "))
		}
		if info.Format != "" {
			line("Format", info.Format)
		}
	}

	target, err := playback.Resolve(c, it.EpisodeChoice(), it.History)
	b.WriteByte('\n')
	if err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(colors.Error).Render(err.Error()))
		return b.String()
	}
	line("Plays", target.DisplayTitle())
	b.WriteString(lipgloss.NewStyle().Foreground(colors.Muted).Render(target.URL))
	b.WriteString("\n\n")
	b.WriteString(label.Render(m.theme.Icon("link") + " Open with:"))
	b.WriteByte('\n')
	for _, link := range playback.Intents(target.URL, target.DisplayTitle()).Links() {
		b.WriteString(value.Render("  "+link[0]) + "\n")
	}
	return b.String()
}

func (m *Model) sampleURL(it Item) string {
	if it.IsEpisode() {
		return it.Episode.URL
	}
	if len(it.Content.Episodes) > 0 {
		return it.Content.Episodes[0].URL
	}
	return it.Content.URL
}
