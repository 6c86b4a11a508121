package config

import (
	"strconv"

	"github.com/Digital-Shane/reelshelf/internal/config"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
)

// Section represents each top-level configuration panel.
type Section int

const (
	SectionRangeTitle Section = iota
	SectionRangeDescription
	SectionLibrary
	SectionLogging
)

// TemplateSections holds the two range naming template editors.
type TemplateSections struct {
	Title       TemplateSectionState
	Description TemplateSectionState
}

// For returns the state associated with the given section.
func (t *TemplateSections) For(section Section) *TemplateSectionState {
	switch section {
	case SectionRangeTitle:
		return &t.Title
	case SectionRangeDescription:
		return &t.Description
	default:
		return nil
	}
}

// TemplateSectionState holds the edit state for a single template editor.
type TemplateSectionState struct {
	Section Section
	Title   string
	Input   textinput.Model
}

// LoggingField identifies the focusable elements within the logging section.
type LoggingField int

const (
	LoggingFieldToggle LoggingField = iota
	LoggingFieldRetention
	LoggingFieldLevel
	loggingFieldCount
)

// LogLevels is the cycle order of the level selector.
var LogLevels = []string{"debug", "info", "warn", "error"}

// LoggingState tracks logging configuration and UI focus.
type LoggingState struct {
	Enabled   bool
	Focus     LoggingField
	Retention textinput.Model
	Level     string
}

// LibraryField identifies the focusable elements within the library section.
type LibraryField int

const (
	LibraryFieldBackend LibraryField = iota
	LibraryFieldPath
	LibraryFieldEpisodes
	LibraryFieldPreviewLimit
	LibraryFieldCacheTTL
	libraryFieldCount
)

// LibraryState tracks storage and add-form defaults.
type LibraryState struct {
	Backend      string
	Focus        LibraryField
	Path         textinput.Model
	Episodes     textinput.Model
	PreviewLimit textinput.Model
	CacheTTL     textinput.Model
}

// Input returns the text input behind field, or nil for the backend toggle.
func (l *LibraryState) Input(field LibraryField) *textinput.Model {
	switch field {
	case LibraryFieldPath:
		return &l.Path
	case LibraryFieldEpisodes:
		return &l.Episodes
	case LibraryFieldPreviewLimit:
		return &l.PreviewLimit
	case LibraryFieldCacheTTL:
		return &l.CacheTTL
	default:
		return nil
	}
}

// ConfigState aggregates all section-specific state objects.
type ConfigState struct {
	Templates TemplateSections
	Library   LibraryState
	Logging   LoggingState
}

func buildStateFromConfig(cfg *config.Config, th theme.Theme) ConfigState {
	colors := th.Colors()
	newInput := func(value, placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.PlaceholderStyle = in.PlaceholderStyle.Foreground(colors.Muted)
		in.SetValue(value)
		in.CursorEnd()
		return in
	}

	return ConfigState{
		Templates: TemplateSections{
			Title: TemplateSectionState{
				Section: SectionRangeTitle,
				Title:   "Range Title",
				Input:   newInput(cfg.RangeTitle, "{name} Season {season}", 200),
			},
			Description: TemplateSectionState{
				Section: SectionRangeDescription,
				Title:   "Range Description",
				Input:   newInput(cfg.RangeDescription, "Season {season} of {name}", 400),
			},
		},
		Library: LibraryState{
			Backend:      cfg.StoreBackend,
			Path:         newInput(cfg.StorePath, "~/.reelshelf/reelshelf.db", 400),
			Episodes:     newInput(strconv.Itoa(cfg.DefaultEpisodes), "10", 4),
			PreviewLimit: newInput(strconv.Itoa(cfg.PreviewLimit), "5", 3),
			CacheTTL:     newInput(strconv.Itoa(cfg.PreviewCacheTTLSeconds), "300", 6),
		},
		Logging: LoggingState{
			Enabled:   cfg.EnableLogging,
			Retention: newInput(strconv.Itoa(cfg.LogRetentionDays), "30", 4),
			Level:     cfg.LogLevel,
		},
	}
}

func nextLevel(current string) string {
	for i, l := range LogLevels {
		if l == current {
			return LogLevels[(i+1)%len(LogLevels)]
		}
	}
	return LogLevels[0]
}
