package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/config"
	"github.com/Digital-Shane/reelshelf/internal/tui/components"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model orchestrates the configuration UI.
type Model struct {
	config   *config.Config
	original config.Config

	state       ConfigState
	resolver    *config.TemplateResolver
	theme       theme.Theme
	icons       map[string]string
	sections    []sectionModel
	activeIndex int

	variables *viewport.Model

	width, height int

	saveStatus string
	err        error
}

// New creates a new configuration UI model for the config on disk.
func New() (*Model, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	m := &Model{
		config:   cfg,
		original: *cfg,
		resolver: config.NewTemplateResolver(),
		theme:    theme.Default(),
	}
	m.icons = m.theme.IconSet()
	m.state = buildStateFromConfig(cfg, m.theme)
	m.initSections()
	m.variables = components.NewViewport(0, 0, m.theme)
	m.refreshVariablesPanel()
	return m, nil
}

func (m *Model) initSections() {
	m.sections = []sectionModel{
		newTemplateSection(&m.state.Templates.Title, m.theme),
		newTemplateSection(&m.state.Templates.Description, m.theme),
		newLibrarySection(&m.state.Library, m.theme),
		newLoggingSection(&m.state.Logging, m.theme),
	}
	m.activeIndex = 0
}

// Saved reports the configuration as last written to disk.
func (m *Model) Saved() config.Config {
	return m.original
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.sections[m.activeIndex].Focus()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		m.refreshVariablesPanel()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.save()
			return m, nil
		case tea.KeyCtrlR:
			m.reset()
			return m, nil
		case tea.KeyTab:
			cmd := m.setActiveSection((m.activeIndex + 1) % len(m.sections))
			m.refreshVariablesPanel()
			return m, cmd
		case tea.KeyShiftTab:
			cmd := m.setActiveSection((m.activeIndex - 1 + len(m.sections)) % len(m.sections))
			m.refreshVariablesPanel()
			return m, cmd
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			if m.isTemplateSection() {
				m.scrollVariables(msg.Type)
				return m, nil
			}
		}
	}

	_, cmd := m.sections[m.activeIndex].Update(msg)
	return m, cmd
}

func (m *Model) isTemplateSection() bool {
	return m.state.Templates.For(m.activeSection()) != nil
}

func (m *Model) scrollVariables(key tea.KeyType) {
	switch key {
	case tea.KeyUp:
		m.variables.ScrollUp(1)
	case tea.KeyDown:
		m.variables.ScrollDown(1)
	case tea.KeyPgUp:
		m.variables.HalfPageUp()
	case tea.KeyPgDown:
		m.variables.HalfPageDown()
	}
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	leftWidth := m.width / 3
	rightWidth := max(m.width-leftWidth-4, 0)
	panelHeight := max(m.height-10, 0)

	m.variables.Width = max(leftWidth-4, 0)
	m.variables.Height = max(panelHeight-4, 0)

	for _, sec := range m.sections {
		sec.Resize(rightWidth - 2)
	}
}

func (m *Model) setActiveSection(idx int) tea.Cmd {
	if idx == m.activeIndex {
		return nil
	}
	m.sections[m.activeIndex].Blur()
	m.activeIndex = idx
	return m.sections[m.activeIndex].Focus()
}

func (m *Model) activeSection() Section {
	return m.sections[m.activeIndex].Section()
}

// View renders the UI.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.width < 30 || m.height < 10 {
		return "Terminal too small. Please resize to at least 30x10."
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.Colors().Primary).
		Padding(1, 0).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.icons["series"] + " ReelShelf Configuration")

	leftWidth := m.width / 3
	rightWidth := max(m.width-leftWidth-4, 0)
	panelHeight := max(m.height-10, 0)

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderLeftPanel(leftWidth, panelHeight),
		m.renderRightPanel(rightWidth, panelHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, m.renderTabs(), panels, m.renderStatusBar())
}

func (m *Model) renderTabs() string {
	base := lipgloss.NewStyle().Padding(0, 2)
	active := base.Bold(true).Foreground(m.theme.Colors().Primary)

	rendered := make([]string, len(m.sections))
	for i, sec := range m.sections {
		style := base
		label := sec.Title()
		if i == m.activeIndex {
			style = active
			label = "[ " + label + " ]"
		}
		rendered[i] = style.Render(label)
	}
	joined := lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(m.width).Render(joined)
}

func (m *Model) renderLeftPanel(width, height int) string {
	panel := m.theme.PanelStyle().Width(width).Height(height)

	title := "Controls"
	if m.isTemplateSection() {
		title = "Template Variables"
	}
	body := m.variables.View()
	if strings.TrimSpace(body) == "" {
		body = lipgloss.NewStyle().Foreground(m.theme.Colors().Muted).Render("Nothing to show.")
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, m.theme.PanelTitleStyle().Render(title), "", body))
}

func (m *Model) renderRightPanel(width, height int) string {
	panel := m.theme.PanelStyle().Width(width).Height(height)

	sectionView := m.sections[m.activeIndex].View()
	previews := buildPreviews(m.activeSection(), &m.state, m.icons, m.resolver)
	separator := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted).Render(strings.Repeat("─", max(width-2, 0)))

	content := lipgloss.JoinVertical(lipgloss.Left, sectionView, separator, m.renderPreview(previews))
	return panel.Render(content)
}

func (m *Model) renderPreview(previews []preview) string {
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Success)
	lines := []string{m.theme.PanelTitleStyle().Render("Live Previews:"), ""}
	for _, p := range previews {
		lines = append(lines, fmt.Sprintf("%s %s %s", p.icon, labelStyle.Render(p.label+":"), valueStyle.Render(p.preview)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	key := lipgloss.NewStyle().Foreground(m.theme.Colors().Accent).Bold(true)
	help := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	success := m.theme.StatusBarStyle().Foreground(m.theme.Colors().Background)
	failure := lipgloss.NewStyle().Foreground(m.theme.Colors().Error).Bold(true)

	parts := []string{
		key.Render("Tab") + ": Switch",
		key.Render("Type") + ": Edit",
		key.Render("Ctrl+S") + ": Save",
		key.Render("Ctrl+R") + ": Reset",
		key.Render("Esc/Ctrl+C") + ": Quit",
	}

	line := help.Render(strings.Join(parts, " │ "))
	if m.saveStatus != "" {
		if m.err != nil {
			line += " │ " + failure.Render(m.saveStatus)
		} else {
			line += " │ " + success.Render(m.saveStatus)
		}
	}
	return line
}

// apply copies the edited state onto cfg. Numbers that do not parse are
// left as zero so validation reports them.
func (m *Model) apply(cfg *config.Config) {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n
	}

	cfg.RangeTitle = strings.TrimSpace(m.state.Templates.Title.Input.Value())
	cfg.RangeDescription = strings.TrimSpace(m.state.Templates.Description.Input.Value())

	cfg.StoreBackend = m.state.Library.Backend
	cfg.StorePath = strings.TrimSpace(m.state.Library.Path.Value())
	cfg.DefaultEpisodes = atoi(m.state.Library.Episodes.Value())
	cfg.PreviewLimit = atoi(m.state.Library.PreviewLimit.Value())
	cfg.PreviewCacheTTLSeconds = atoi(m.state.Library.CacheTTL.Value())

	cfg.EnableLogging = m.state.Logging.Enabled
	cfg.LogRetentionDays = atoi(m.state.Logging.Retention.Value())
	cfg.LogLevel = m.state.Logging.Level
}

func (m *Model) save() {
	candidate := *m.config
	m.apply(&candidate)

	if err := candidate.Validate(); err != nil {
		m.err = err
		m.saveStatus = "Not saved: " + err.Error()
		return
	}
	if err := candidate.Save(); err != nil {
		m.err = err
		m.saveStatus = "Failed to save: " + err.Error()
		return
	}

	*m.config = candidate
	m.original = candidate
	m.err = nil
	m.saveStatus = "Configuration saved!"
}

func (m *Model) reset() {
	m.state = buildStateFromConfig(&m.original, m.theme)
	active := m.activeIndex
	m.initSections()
	m.activeIndex = active
	if w := m.width; w > 0 {
		m.handleWindowResize(tea.WindowSizeMsg{Width: w, Height: m.height})
	}
	m.sections[m.activeIndex].Focus()
	m.refreshVariablesPanel()

	m.saveStatus = "Reset to saved values"
	m.err = nil
}

func (m *Model) refreshVariablesPanel() {
	vars := buildVariables(m.activeSection())

	nameStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	exampleStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Primary).Italic(true)

	lines := make([]string, 0, len(vars)*4)
	for _, v := range vars {
		lines = append(lines, nameStyle.Render(v.name))
		lines = append(lines, descStyle.Render("  "+v.description))
		if v.example != "" {
			lines = append(lines, exampleStyle.Render("  Example: "+v.example))
		}
		lines = append(lines, "")
	}
	m.variables.SetContent(strings.Join(lines, "\n"))
	m.variables.GotoTop()
}
