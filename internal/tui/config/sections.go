package config

import (
	"unicode"

	"github.com/charmbracelet/bubbletea"
)

// sectionModel represents a focusable child model rendered inside the config UI.
type sectionModel interface {
	tea.Model

	Section() Section
	Title() string
	Focus() tea.Cmd
	Blur()
	Resize(width int)
}

// digitsOnly keeps only the digit runes of a key press. It reports false
// when nothing remains to insert.
func digitsOnly(key tea.KeyMsg) (tea.KeyMsg, bool) {
	if key.Type != tea.KeyRunes {
		return key, true
	}
	filtered := make([]rune, 0, len(key.Runes))
	for _, r := range key.Runes {
		if unicode.IsDigit(r) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return key, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: filtered}, true
}
