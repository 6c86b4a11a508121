package add

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/preview"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Adder stores a series generated from a sample episode URL.
type Adder interface {
	AddSeries(ctx context.Context, title, description, sampleURL string, total int) (catalog.Content, media.Batch, error)
}

// Field identifies an input on the add screen.
type Field int

const (
	FieldURL Field = iota
	FieldEpisodes
	FieldTitle
	fieldCount
)

// AddedMsg reports the outcome of a submitted series.
type AddedMsg struct {
	Content catalog.Content
	Batch   media.Batch
	Err     error
}

// Model is the interactive add-series screen. Every keystroke re-parses the
// URL and regenerates the episode preview.
type Model struct {
	ctx       context.Context
	adder     Adder
	previewer *preview.Previewer
	theme     theme.Theme

	inputs [fieldCount]textinput.Model
	focus  Field

	previewLimit    int
	defaultEpisodes int

	info     media.ParsedVideoInfo
	parsed   bool
	batch    media.Batch
	inputErr error

	submitting bool
	added      []catalog.Content
	status     string
	err        error

	width, height int
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) { m.theme = th }
}

// WithPreviewLimit caps how many generated episodes are listed.
func WithPreviewLimit(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.previewLimit = n
		}
	}
}

// WithDefaultEpisodes pre-fills the episode count.
func WithDefaultEpisodes(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.defaultEpisodes = n
		}
	}
}

// WithContext sets the context used for submissions.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New creates the add screen.
func New(adder Adder, previewer *preview.Previewer, opts ...Option) *Model {
	m := &Model{
		ctx:             context.Background(),
		adder:           adder,
		previewer:       previewer,
		theme:           theme.Default(),
		previewLimit:    5,
		defaultEpisodes: 10,
		width:           80,
		height:          24,
	}
	for _, opt := range opts {
		opt(m)
	}

	for i := range m.inputs {
		ti := textinput.New()
		configureInput(&ti, m.theme)
		m.inputs[i] = ti
	}
	m.inputs[FieldURL].Placeholder = "https://host/Show.S01E01.720p.WEB.x265.mkv"
	m.inputs[FieldURL].Width = 64
	m.inputs[FieldEpisodes].CharLimit = 4
	m.inputs[FieldEpisodes].SetValue(strconv.Itoa(m.defaultEpisodes))
	m.inputs[FieldTitle].Placeholder = "detected from filename"
	m.inputs[FieldTitle].Width = 48

	m.inputs[FieldURL].Focus()
	m.refresh()
	return m
}

func configureInput(ti *textinput.Model, th theme.Theme) {
	ti.Prompt = ""
	ti.CursorStyle = lipgloss.NewStyle().Background(th.Colors().Accent).Foreground(th.Colors().Background)
	ti.TextStyle = lipgloss.NewStyle().Foreground(th.Colors().Primary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(th.Colors().Muted)
}

// Added returns every entry stored during the session.
func (m *Model) Added() []catalog.Content {
	return m.added
}

// Focused returns the active input.
func (m *Model) Focused() Field {
	return m.focus
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case AddedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = msg.Err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.added = append(m.added, msg.Content)
		m.status = fmt.Sprintf("Added %q with %d episodes", msg.Content.Title, len(msg.Content.Episodes))
		if msg.Batch.Approximate {
			m.status += " (some URLs could not be derived)"
		}
		m.inputs[FieldURL].SetValue("")
		m.inputs[FieldTitle].SetValue("")
		m.refresh()
		return m, m.setFocus(FieldURL)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		case tea.KeyEnter:
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) setFocus(f Field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[f].Focus()
}

// refresh re-derives the parse result and episode preview from the inputs.
func (m *Model) refresh() {
	url := strings.TrimSpace(m.inputs[FieldURL].Value())
	m.info, m.parsed = media.ParsedVideoInfo{}, false
	m.batch = media.Batch{}
	m.inputErr = nil

	if url == "" {
		return
	}
	m.info, m.parsed = m.previewer.Parse(url).Get()

	total, err := media.ParseCount("episode count", m.inputs[FieldEpisodes].Value())
	if err != nil {
		m.inputErr = err
		return
	}
	m.batch, m.inputErr = m.previewer.Episodes(url, total, m.previewLimit)
}

func (m *Model) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	url := strings.TrimSpace(m.inputs[FieldURL].Value())
	if url == "" {
		m.err = &media.ValidationError{Field: "url", Message: "is required"}
		return nil
	}
	total, err := media.ParseCount("episode count", m.inputs[FieldEpisodes].Value())
	if err != nil {
		m.err = err
		return nil
	}

	m.submitting = true
	m.err = nil
	title := strings.TrimSpace(m.inputs[FieldTitle].Value())
	ctx, adder := m.ctx, m.adder
	return func() tea.Msg {
		content, batch, err := adder.AddSeries(ctx, title, "", url, total)
		return AddedMsg{Content: content, Batch: batch, Err: err}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	colors := m.theme.Colors()

	b.WriteString(m.theme.HeaderStyle().Width(m.width).Render("ReelShelf Add Series"))
	b.WriteByte('\n')

	form := lipgloss.JoinVertical(lipgloss.Left,
		m.renderField(FieldURL, "Episode URL"),
		m.renderField(FieldEpisodes, "Episodes"),
		m.renderField(FieldTitle, "Title"),
	)
	b.WriteString(m.panel(colors.Primary).Render(form))
	b.WriteByte('\n')

	b.WriteString(m.panel(colors.Secondary).Render(m.renderDetected()))
	b.WriteByte('\n')

	b.WriteString(m.renderStatus())
	b.WriteByte('\n')

	help := "Tab/↑↓: Switch field | Enter: Add | Esc/Ctrl+C: Quit"
	b.WriteString(lipgloss.NewStyle().
		Italic(true).
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(colors.Muted).
		Render(help))
	return b.String()
}

func (m *Model) panel(border lipgloss.Color) lipgloss.Style {
	style := m.theme.PanelStyle().BorderForeground(border).Padding(0, 1)
	if w := m.width - style.GetHorizontalFrameSize(); w > 0 {
		style = style.Width(w)
	}
	return style
}

func (m *Model) renderField(f Field, label string) string {
	labelStyle := m.theme.LabelStyle().Width(12)
	if f == m.focus {
		labelStyle = labelStyle.Foreground(m.theme.Colors().Accent).Bold(true)
	}
	return labelStyle.Render(label) + m.inputs[f].View()
}

func (m *Model) renderDetected() string {
	var b strings.Builder
	label := m.theme.LabelStyle().Width(12)
	title := m.theme.PanelTitleStyle()

	b.WriteString(title.Render(m.theme.Icon("search") + " Detected"))
	b.WriteByte('\n')

	url := strings.TrimSpace(m.inputs[FieldURL].Value())
	switch {
	case url == "":
		b.WriteString(m.theme.LabelStyle().Italic(true).Render("Paste an episode URL to preview"))
		return b.String()
	case m.parsed:
		rows := [][2]string{
			{"Series", m.info.SeriesName},
			{"Season", m.info.Season},
			{"Episode", m.info.Episode},
			{"Quality", m.info.Quality},
			{"Languages", strings.Join(m.info.Languages, ", ")},
			{"Format", m.info.Format},
		}
		for _, row := range rows {
			value := row[1]
			if value == "" {
				value = "-"
			}
			b.WriteString(label.Render(row[0]) + value + "\n")
		}
	default:
		b.WriteString(m.theme.Notice(theme.NoticeWarning, "Unrecognized filename, episodes use generic numbering"))
		b.WriteByte('\n')
	}

	if m.inputErr != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Colors().Error).Render(m.inputErr.Error()))
		return b.String()
	}

	b.WriteByte('\n')
	b.WriteString(title.Render(fmt.Sprintf("%s Preview (%s)", m.theme.Icon("episode"), m.batch.Mode)))
	b.WriteByte('\n')
	for _, ep := range m.batch.Episodes {
		b.WriteString(fmt.Sprintf("%3d  %s\n", ep.Number, truncate(media.FilenameFromURL(ep.URL), m.width-14)))
	}
	total, _ := media.ParseCount("episode count", m.inputs[FieldEpisodes].Value())
	if more := total - len(m.batch.Episodes); more > 0 {
		b.WriteString(m.theme.LabelStyle().Render(fmt.Sprintf("     … and %d more", more)))
		b.WriteByte('\n')
	}
	if m.batch.Approximate {
		b.WriteString(m.theme.Notice(theme.NoticeWarning, "Episode number not found in URL, generated URLs are approximate"))
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	var text string
	switch {
	case m.submitting:
		text = "Adding..."
	case m.err != nil:
		return m.theme.NoticeBar(theme.NoticeError).Width(m.width).Render(m.theme.Icon("error") + " " + m.err.Error())
	case m.status != "":
		return m.theme.NoticeBar(theme.NoticeSuccess).Width(m.width).Render(m.theme.Icon("success") + " " + m.status)
	default:
		text = fmt.Sprintf("%d added this session", len(m.added))
	}
	return m.theme.StatusBarStyle().Width(m.width).Render(text)
}

func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
