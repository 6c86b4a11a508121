// Package theme holds the palette and icons shared by the terminal screens
// and the command line output.
package theme

import (
	"maps"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	panelPadding  = 1
	statusPadding = 1
	maxStars      = 5
)

// IconSet maps icon names to glyphs.
type IconSet map[string]string

// Colors is the palette used by every screen.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// NoticeKind selects the color and icon of a one-line notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// Theme bundles the palette with an icon set. Icons missing from the set
// fall back to their ASCII form.
type Theme struct {
	colors Colors
	icons  IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithColors replaces the palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) { t.colors = colors }
}

// WithIconSet replaces the icon set. A nil set keeps the terminal default.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		if set != nil {
			t.icons = maps.Clone(set)
		}
	}
}

// New returns the reelshelf palette with icons suited to the terminal.
func New(opts ...Option) Theme {
	t := Theme{colors: shelfColors, icons: defaultIconSet()}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Default returns New().
func Default() Theme {
	return New()
}

// Colors returns the palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// Icon returns the glyph for name, or "" when no set defines it.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	return asciiIcons[name]
}

// IconSet returns a copy of the active icons.
func (t Theme) IconSet() IconSet {
	return maps.Clone(t.icons)
}

// KindIcon returns the icon for a catalog entry type.
func (t Theme) KindIcon(contentType string) string {
	switch contentType {
	case "movie", "series", "episode":
		return t.Icon(contentType)
	default:
		return t.Icon("unknown")
	}
}

// Stars renders a rating out of five. Values outside 0..5 are clamped.
func (t Theme) Stars(rating int) string {
	rating = min(max(rating, 0), maxStars)
	filled := lipgloss.NewStyle().Foreground(t.colors.Accent).Render(strings.Repeat(t.Icon("star"), rating))
	empty := lipgloss.NewStyle().Foreground(t.colors.Muted).Render(strings.Repeat(t.Icon("star_empty"), maxStars-rating))
	return filled + empty
}

func (t Theme) noticeColor(kind NoticeKind) (lipgloss.Color, string) {
	switch kind {
	case NoticeSuccess:
		return t.colors.Success, "success"
	case NoticeWarning:
		return t.colors.Accent, "warning"
	case NoticeError:
		return t.colors.Error, "error"
	default:
		return t.colors.Secondary, "info"
	}
}

// Notice renders text prefixed with the kind's icon in the kind's color.
func (t Theme) Notice(kind NoticeKind, text string) string {
	color, icon := t.noticeColor(kind)
	return lipgloss.NewStyle().Foreground(color).Render(t.Icon(icon) + " " + text)
}

// NoticeBar is a full-width status bar colored for kind.
func (t Theme) NoticeBar(kind NoticeKind) lipgloss.Style {
	color, _ := t.noticeColor(kind)
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, statusPadding).
		Background(color).
		Foreground(t.colors.Background)
}

// HeaderStyle is the centered title bar at the top of each screen.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Background(t.colors.Primary).
		Foreground(t.colors.Background).
		Align(lipgloss.Center)
}

// StatusBarStyle is the footer bar.
func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.colors.Secondary).
		Foreground(t.colors.Background).
		Padding(0, statusPadding)
}

// PanelStyle is a rounded, accent-bordered container.
func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.colors.Accent).
		Padding(panelPadding)
}

func (t Theme) PanelTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Underline(true)
}

// LabelStyle is used for field names in details and command output.
func (t Theme) LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Muted)
}

func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return maps.Clone(asciiIcons)
	}
	return maps.Clone(emojiIcons)
}

// isLimitedTerminal reports SSH sessions and Windows consoles, where emoji
// widths are unreliable.
func isLimitedTerminal() bool {
	for _, env := range []string{"SSH_CLIENT", "SSH_TTY", "SSH_CONNECTION"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return runtime.GOOS == "windows"
}

var shelfColors = Colors{
	Primary:    lipgloss.Color("#3b2f63"),
	Secondary:  lipgloss.Color("#5b4a8f"),
	Accent:     lipgloss.Color("#f2b84b"),
	Background: lipgloss.Color("#faf7f0"),
	Muted:      lipgloss.Color("#8e8aa3"),
	Success:    lipgloss.Color("#4fb286"),
	Error:      lipgloss.Color("#e0525c"),
}

var emojiIcons = IconSet{
	"series":     "📺",
	"movie":      "🎬",
	"episode":    "🎞",
	"history":    "🕘",
	"play":       "▶",
	"bookmark":   "🔖",
	"star":       "★",
	"star_empty": "☆",
	"link":       "🔗",
	"search":     "🔍",
	"stats":      "📊",
	"info":       "ℹ",
	"success":    "✅",
	"warning":    "⚠",
	"error":      "❌",
	"delete":     "🗑",
	"unknown":    "❓",
}

var asciiIcons = IconSet{
	"series":     "[TV]",
	"movie":      "[M]",
	"episode":    "[E]",
	"history":    "[H]",
	"play":       ">",
	"bookmark":   "[B]",
	"star":       "*",
	"star_empty": ".",
	"link":       "[->]",
	"search":     "[/]",
	"stats":      "[#]",
	"info":       "[i]",
	"success":    "[v]",
	"warning":    "[~]",
	"error":      "[!]",
	"delete":     "[x]",
	"unknown":    "[?]",
}
