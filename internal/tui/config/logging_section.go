package config

import (
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loggingSection struct {
	state *LoggingState
	theme theme.Theme
	icons map[string]string
	width int
}

func newLoggingSection(state *LoggingState, th theme.Theme) *loggingSection {
	return &loggingSection{state: state, theme: th, icons: th.IconSet()}
}

func (l *loggingSection) Init() tea.Cmd { return nil }

func (l *loggingSection) Section() Section { return SectionLogging }

func (l *loggingSection) Title() string { return "Logging" }

func (l *loggingSection) Focus() tea.Cmd {
	if l.state.Focus == LoggingFieldRetention {
		return l.state.Retention.Focus()
	}
	l.state.Retention.Blur()
	return nil
}

func (l *loggingSection) Blur() {
	l.state.Retention.Blur()
}

func (l *loggingSection) Resize(width int) {
	l.width = width
	if width > 0 {
		l.state.Retention.Width = width
	}
}

func (l *loggingSection) moveFocus(delta int) tea.Cmd {
	next := (int(l.state.Focus) + delta + int(loggingFieldCount)) % int(loggingFieldCount)
	l.state.Focus = LoggingField(next)
	return l.Focus()
}

func (l *loggingSection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		switch l.state.Focus {
		case LoggingFieldToggle:
			l.state.Enabled = !l.state.Enabled
			return l, nil
		case LoggingFieldLevel:
			l.state.Level = nextLevel(l.state.Level)
			return l, nil
		}
		return l, nil
	}

	if l.state.Focus != LoggingFieldRetention || !l.state.Enabled {
		return l, nil
	}
	key, ok = digitsOnly(key)
	if !ok {
		return l, nil
	}
	var cmd tea.Cmd
	l.state.Retention, cmd = l.state.Retention.Update(key)
	return l, cmd
}

func (l *loggingSection) View() string {
	colors := l.theme.Colors()

	label := l.theme.PanelTitleStyle().Render("Logging Configuration")

	toggleLabel := "Disabled"
	toggleIcon := "[ ]"
	if l.state.Enabled {
		toggleLabel = "Enabled"
		toggleIcon = "[" + l.icons["success"] + "]"
	}

	focusedStyle := lipgloss.NewStyle().
		Background(colors.Accent).
		Foreground(colors.Background)

	toggleStyle := lipgloss.NewStyle().Foreground(colors.Error)
	if l.state.Enabled {
		toggleStyle = lipgloss.NewStyle().Foreground(colors.Success)
	}
	toggleText := toggleIcon + " " + toggleLabel
	if l.state.Focus == LoggingFieldToggle {
		toggleText = focusedStyle.Render(toggleText)
	} else {
		toggleText = toggleStyle.Render(toggleText)
	}

	var retentionValue string
	switch {
	case l.state.Focus == LoggingFieldRetention && l.state.Enabled:
		retentionValue = focusedStyle.Render(l.state.Retention.View())
	case l.state.Enabled:
		retentionValue = lipgloss.NewStyle().Foreground(colors.Primary).Render(l.state.Retention.Value())
	default:
		retentionValue = lipgloss.NewStyle().Foreground(colors.Muted).Render(l.state.Retention.Value() + " (disabled)")
	}

	levelValue := lipgloss.NewStyle().Foreground(colors.Primary).Render(l.state.Level)
	if l.state.Focus == LoggingFieldLevel {
		levelValue = focusedStyle.Render("< " + l.state.Level + " >")
	}

	help := lipgloss.NewStyle().Foreground(colors.Muted).Render("Session logs feed the undo command. Old sessions are cleaned up after the retention period.")

	rows := []string{label, toggleText, "Retention Days: " + retentionValue, "Log Level: " + levelValue, "", help}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
