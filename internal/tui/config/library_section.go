package config

import (
	"github.com/Digital-Shane/reelshelf/internal/config"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type librarySection struct {
	state *LibraryState
	theme theme.Theme
	width int
}

func newLibrarySection(state *LibraryState, th theme.Theme) *librarySection {
	return &librarySection{state: state, theme: th}
}

func (l *librarySection) Init() tea.Cmd { return nil }

func (l *librarySection) Section() Section { return SectionLibrary }

func (l *librarySection) Title() string { return "Library" }

func (l *librarySection) Focus() tea.Cmd {
	l.blurInputs()
	if in := l.state.Input(l.state.Focus); in != nil {
		return in.Focus()
	}
	return nil
}

func (l *librarySection) Blur() {
	l.blurInputs()
}

func (l *librarySection) blurInputs() {
	for f := LibraryFieldPath; f < libraryFieldCount; f++ {
		l.state.Input(f).Blur()
	}
}

func (l *librarySection) Resize(width int) {
	l.width = width
	if width > 0 {
		l.state.Path.Width = width
	}
}

func (l *librarySection) moveFocus(delta int) tea.Cmd {
	next := (int(l.state.Focus) + delta + int(libraryFieldCount)) % int(libraryFieldCount)
	l.state.Focus = LibraryField(next)
	return l.Focus()
}

func (l *librarySection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch key.Type {
	case tea.KeyUp:
		return l, l.moveFocus(-1)
	case tea.KeyDown:
		return l, l.moveFocus(1)
	case tea.KeyEnter, tea.KeySpace:
		if l.state.Focus == LibraryFieldBackend {
			if l.state.Backend == config.BackendSQLite {
				l.state.Backend = config.BackendMemory
			} else {
				l.state.Backend = config.BackendSQLite
			}
			return l, nil
		}
		if key.Type == tea.KeyEnter {
			return l, nil
		}
	}

	in := l.state.Input(l.state.Focus)
	if in == nil {
		return l, nil
	}
	if l.state.Focus != LibraryFieldPath {
		if key, ok = digitsOnly(key); !ok {
			return l, nil
		}
	} else if key.Type == tea.KeySpace {
		key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(key)
	return l, cmd
}

func (l *librarySection) View() string {
	colors := l.theme.Colors()
	focused := lipgloss.NewStyle().Background(colors.Accent).Foreground(colors.Background)
	value := lipgloss.NewStyle().Foreground(colors.Primary)
	muted := lipgloss.NewStyle().Foreground(colors.Muted)

	render := func(field LibraryField, label, text string) string {
		if l.state.Focus == field {
			if in := l.state.Input(field); in != nil {
				return label + focused.Render(in.View())
			}
			return label + focused.Render("< "+text+" >")
		}
		return label + value.Render(text)
	}

	path := l.state.Path.Value()
	if path == "" {
		path = "default"
	}
	if l.state.Backend == config.BackendMemory {
		path = muted.Render(path + " (unused)")
	}

	rows := []string{
		l.theme.PanelTitleStyle().Render("Library Settings"),
		render(LibraryFieldBackend, "Storage Backend: ", l.state.Backend),
		render(LibraryFieldPath, "Database Path: ", path),
		render(LibraryFieldEpisodes, "Default Episodes: ", l.state.Episodes.Value()),
		render(LibraryFieldPreviewLimit, "Preview Rows: ", l.state.PreviewLimit.Value()),
		render(LibraryFieldCacheTTL, "Preview Cache (s): ", l.state.CacheTTL.Value()),
		"",
		muted.Render("The memory backend keeps the catalog for a single run only."),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
