package undo

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/tui/components"
	"github.com/Digital-Shane/reelshelf/internal/tui/theme"
	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// UndoFunc reverts a session and reports how many operations were
// reversed and how many failed.
type UndoFunc func(summary log.SessionSummary) (successful, failed int, errs []error)

// UndoCompleteMsg is emitted when undo operation completes.
type UndoCompleteMsg struct {
	successCount, errorCount int
	errs                     []error
}

func (u UndoCompleteMsg) SuccessCount() int { return u.successCount }

func (u UndoCompleteMsg) ErrorCount() int { return u.errorCount }

// UndoModel represents the TUI for selecting and undoing sessions
type UndoModel struct {
	*treeview.TuiTreeModel[log.SessionSummary]
	undo           UndoFunc
	confirmingUndo bool
	undoInProgress bool
	undoComplete   bool
	undoSuccess    int
	undoFailed     int
	undoErrs       []error
	width          int
	height         int
	splitRatio     float64
	theme          theme.Theme

	detailsViewport *viewport.Model
	detailsFocused  bool
}

// Option configures an UndoModel during construction.
type Option func(*UndoModel)

// WithTheme overrides the default theme for the undo TUI.
func WithTheme(th theme.Theme) Option {
	return func(m *UndoModel) {
		m.theme = th
	}
}

func (m *UndoModel) colors() theme.Colors {
	return m.theme.Colors()
}

func (m *UndoModel) sizedPanel(width, height int, borderColor lipgloss.Color) lipgloss.Style {
	style := m.theme.PanelStyle()
	if borderColor != "" {
		style = style.BorderForeground(borderColor)
	}
	if width > 0 {
		style = style.Width(max(width-style.GetHorizontalFrameSize(), 0))
	}
	if height > 0 {
		style = style.Height(max(height-style.GetVerticalFrameSize(), 0))
	}
	return style.Padding(0, 1)
}

// NewUndoModel creates a new undo selection model
func NewUndoModel(tree *treeview.Tree[log.SessionSummary], undo UndoFunc, opts ...Option) *UndoModel {
	m := &UndoModel{
		undo:       undo,
		width:      80,
		height:     24,
		splitRatio: 0.5,
	}

	initOpts := append([]Option{WithTheme(theme.Default())}, opts...)
	for _, opt := range initOpts {
		opt(m)
	}

	keyMap := treeview.DefaultKeyMap()
	keyMap.SearchStart = []string{}
	keyMap.Reset = []string{}

	treeWidth := int(float64(m.width)*m.splitRatio) - 2
	m.TuiTreeModel = treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[log.SessionSummary](treeWidth),
		treeview.WithTuiHeight[log.SessionSummary](m.height-4),
		treeview.WithTuiAllowResize[log.SessionSummary](true),
		treeview.WithTuiDisableNavBar[log.SessionSummary](true),
		treeview.WithTuiKeyMap[log.SessionSummary](keyMap),
	)

	rightWidth := m.width - treeWidth
	m.detailsViewport = components.NewViewport(rightWidth-6, m.height-8, m.theme)

	return m
}

// SessionNodes builds one tree node per session summary.
func SessionNodes(summaries []log.SessionSummary) []*treeview.Node[log.SessionSummary] {
	nodes := make([]*treeview.Node[log.SessionSummary], 0, len(summaries))
	for _, summary := range summaries {
		meta := summary.Session.Metadata
		command := "?"
		if len(meta.CommandArgs) > 0 {
			command = meta.CommandArgs[0]
		}
		name := fmt.Sprintf("%s %s - %s (%d ops)", summary.Icon, command, summary.RelativeTime, meta.TotalOps)
		nodes = append(nodes, treeview.NewNode(meta.SessionID, name, summary))
	}
	return nodes
}

func (m *UndoModel) Init() tea.Cmd {
	return nil
}

func (m *UndoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		treeWidth := int(float64(m.width)*m.splitRatio) - 2
		treeModel, cmd := m.TuiTreeModel.Update(tea.WindowSizeMsg{Width: treeWidth, Height: m.height - 4})
		m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[log.SessionSummary])

		rightWidth := m.width - treeWidth
		m.detailsViewport.Width = rightWidth - 6
		m.detailsViewport.Height = m.height - 8
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.detailsFocused = !m.detailsFocused
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

		case "enter":
			if m.undoComplete {
				return m, nil
			}
			if m.confirmingUndo {
				if focused := m.TuiTreeModel.Tree.GetFocusedNode(); focused != nil {
					m.undoInProgress = true
					m.confirmingUndo = false
					return m, m.performUndo(*focused.Data())
				}
			} else if !m.undoInProgress {
				m.confirmingUndo = true
			}
			return m, nil

		case "n", "N":
			if m.confirmingUndo {
				m.confirmingUndo = false
			}
			return m, nil
		}

	case UndoCompleteMsg:
		m.undoInProgress = false
		m.undoComplete = true
		m.undoSuccess = msg.successCount
		m.undoFailed = msg.errorCount
		m.undoErrs = msg.errs
		return m, nil
	}

	if !m.confirmingUndo && !m.undoInProgress && !m.detailsFocused {
		treeModel, cmd := m.TuiTreeModel.Update(msg)
		m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[log.SessionSummary])
		return m, cmd
	}

	return m, nil
}

func (m *UndoModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderStyle().Width(m.width).Render("ReelShelf Undo Sessions"))
	b.WriteByte('\n')

	switch {
	case m.undoComplete:
		resultText := fmt.Sprintf("Undo completed: %d operations reversed", m.undoSuccess)
		if m.undoFailed > 0 {
			resultText = fmt.Sprintf("Undo completed: %d success, %d failed", m.undoSuccess, m.undoFailed)
		}
		b.WriteString(m.theme.StatusBarStyle().Width(m.width).Render(resultText))
		b.WriteByte('\n')

		errStyle := lipgloss.NewStyle().Foreground(m.colors().Error)
		for _, err := range m.undoErrs {
			b.WriteString(errStyle.Render(m.theme.Icon("error") + " " + err.Error()))
			b.WriteByte('\n')
		}

		b.WriteString(lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Foreground(m.colors().Muted).
			Render("Press 'Ctrl+C' or 'esc' to exit"))

	case m.undoInProgress:
		b.WriteString(m.theme.StatusBarStyle().Width(m.width).Render("Undoing operations..."))
		b.WriteByte('\n')

	case m.confirmingUndo:
		if focused := m.TuiTreeModel.Tree.GetFocusedNode(); focused != nil {
			b.WriteString(m.renderConfirmation(*focused.Data()))
		}

	default:
		b.WriteString(m.renderMainView())
	}

	return b.String()
}

// renderMainView renders the split view with session list and preview
func (m *UndoModel) renderMainView() string {
	leftWidth := int(float64(m.width) * m.splitRatio)
	rightWidth := m.width - leftWidth

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSessionList(leftWidth, m.height-3),
		m.renderSessionPreview(rightWidth, m.height-3),
	)

	focusInfo := "Tab: Details Focus | "
	if m.detailsFocused {
		focusInfo = "Tab: List Focus | "
	}
	instruction := lipgloss.NewStyle().
		Italic(true).
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(m.colors().Muted).
		Render(focusInfo + "↑↓ Navigate | PgUp/PgDn: Page | Enter: Select | Esc/Ctrl+C: Quit")

	return content + "\n" + instruction
}

func (m *UndoModel) panelTitle(text string, width int, color lipgloss.Color) string {
	titleWidth := width - 4
	if titleWidth < 0 {
		titleWidth = width
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Width(titleWidth).
		Align(lipgloss.Center).
		Render(text)
}

func (m *UndoModel) renderSessionList(width, height int) string {
	colors := m.colors()
	title := m.panelTitle("Sessions", width, colors.Primary)
	return m.sizedPanel(width, height, colors.Primary).Render(title + "\n" + m.TuiTreeModel.View())
}

// renderSessionPreview renders the right panel with session details using a scrollable viewport
func (m *UndoModel) renderSessionPreview(width, height int) string {
	colors := m.colors()
	if focused := m.TuiTreeModel.Tree.GetFocusedNode(); focused != nil {
		m.detailsViewport.SetContent(m.formatSessionDetails(*focused.Data(), m.detailsViewport.Width))
	} else {
		m.detailsViewport.SetContent(lipgloss.NewStyle().
			Italic(true).
			Foreground(colors.Muted).
			Render("Select a session to view details"))
	}

	scrollIndicator := ""
	if m.detailsViewport.TotalLineCount() > m.detailsViewport.Height {
		if m.detailsFocused {
			scrollIndicator = " [Use Tab+↑↓]"
		} else {
			scrollIndicator = " [Tab to scroll]"
		}
	}

	fullContent := lipgloss.JoinVertical(
		lipgloss.Left,
		m.panelTitle("Session Details"+scrollIndicator, width, colors.Secondary),
		"",
		m.detailsViewport.View(),
	)
	return m.sizedPanel(width, height, colors.Secondary).Render(fullContent)
}

// formatSessionDetails formats detailed information about a session
func (m *UndoModel) formatSessionDetails(summary log.SessionSummary, width int) string {
	var b strings.Builder
	session := summary.Session
	colors := m.colors()

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(colors.Accent)
	valueStyle := lipgloss.NewStyle().Foreground(colors.Primary)
	indent := lipgloss.NewStyle().MarginLeft(2)

	b.WriteString(labelStyle.Render("Command: "))
	b.WriteString(valueStyle.Render(strings.Join(session.Metadata.CommandArgs, " ")))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Time: "))
	b.WriteString(valueStyle.Render(summary.RelativeTime))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Date: "))
	b.WriteString(valueStyle.Render(session.Metadata.Timestamp.Format("2006-01-02 15:04:05")))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Operations:"))
	b.WriteString("\n")
	stats := fmt.Sprintf("Total: %d\nSuccessful: %d\nFailed: %d",
		session.Metadata.TotalOps,
		session.Metadata.SuccessfulOps,
		session.Metadata.FailedOps)
	b.WriteString(indent.Render(valueStyle.Render(stats)))
	b.WriteString("\n\n")

	if len(session.Operations) > 0 {
		b.WriteString(labelStyle.Render("Recent Operations:"))
		b.WriteString("\n")

		start := max(len(session.Operations)-5, 0)
		for _, op := range session.Operations[start:] {
			line := fmt.Sprintf("%s %s", m.operationIcon(op), formatOperation(op, width-6))
			b.WriteString(indent.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Session ID: "))
	b.WriteString(lipgloss.NewStyle().
		Foreground(colors.Muted).
		Italic(true).
		Render(session.Metadata.SessionID))

	return b.String()
}

// operationIcon returns an icon for the operation type
func (m *UndoModel) operationIcon(op log.OperationLog) string {
	if !op.Success {
		return m.theme.Icon("error")
	}
	switch op.Type {
	case log.OpAdd, log.OpImport:
		return m.theme.Icon("success")
	case log.OpDelete, log.OpClear:
		return m.theme.Icon("delete")
	case log.OpHistory:
		return m.theme.Icon("history")
	case log.OpBookmark, log.OpUnbookmark:
		return m.theme.Icon("bookmark")
	case log.OpRate:
		return m.theme.Icon("star")
	case log.OpUpdate:
		return m.theme.Icon("stats")
	default:
		return m.theme.Icon("unknown")
	}
}

// formatOperation formats a single operation for display
func formatOperation(op log.OperationLog, maxWidth int) string {
	subject := op.Title
	if subject == "" {
		subject = op.Key
	}
	text := fmt.Sprintf("%s %s: %s", op.Type, op.Kind, subject)

	if maxWidth > 3 {
		text = runewidth.Truncate(text, maxWidth, "...")
	}
	if !op.Success && op.Error != "" {
		text += " (failed)"
	}
	return text
}

// renderConfirmation renders the confirmation dialog
func (m *UndoModel) renderConfirmation(summary log.SessionSummary) string {
	session := summary.Session
	colors := m.colors()

	confirmStyle := m.theme.PanelStyle().
		BorderForeground(colors.Accent).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center).
		Background(colors.Background)

	confirmText := fmt.Sprintf(
		"Confirm Undo Operation\n\n"+
			"Command: %s\n"+
			"Time: %s\n"+
			"Operations: %d (Success: %d, Failed: %d)\n\n"+
			"This will restore every record the session changed.\n\n"+
			"Press ENTER to confirm or 'n' to cancel",
		strings.Join(session.Metadata.CommandArgs, " "),
		summary.RelativeTime,
		session.Metadata.TotalOps,
		session.Metadata.SuccessfulOps,
		session.Metadata.FailedOps)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(confirmStyle.Render(confirmText))
}

func (m *UndoModel) performUndo(summary log.SessionSummary) tea.Cmd {
	undo := m.undo
	return func() tea.Msg {
		if undo == nil {
			return UndoCompleteMsg{}
		}
		successful, failed, errs := undo(summary)
		return UndoCompleteMsg{successCount: successful, errorCount: failed, errs: errs}
	}
}
