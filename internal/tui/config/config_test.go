package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Digital-Shane/reelshelf/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	t.Setenv(config.EnvPath, filepath.Join(t.TempDir(), "config.json"))

	m, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 36})
	return m
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestNewLoadsDefaults(t *testing.T) {
	m := newTestModel(t)

	if got, want := m.state.Templates.Title.Input.Value(), config.DefaultConfig().RangeTitle; got != want {
		t.Errorf("title template = %q, want %q", got, want)
	}
	if got := m.state.Library.Backend; got != config.BackendSQLite {
		t.Errorf("backend = %q, want %q", got, config.BackendSQLite)
	}
	if got := m.state.Logging.Level; got != "info" {
		t.Errorf("level = %q, want info", got)
	}
}

func TestBuildPreviewsResolvesTemplates(t *testing.T) {
	m := newTestModel(t)
	m.state.Templates.Title.Input.SetValue("")
	typeText(m, "{name} S{season:02d}")

	got := buildPreviews(SectionRangeTitle, &m.state, m.icons, m.resolver)
	want := []string{"Breaking Bad S01", "Breaking Bad S02"}
	values := make([]string, len(got))
	for i, p := range got {
		values[i] = p.preview
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("previews mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPreviewsFlagsUnknownVariables(t *testing.T) {
	m := newTestModel(t)
	m.state.Templates.Title.Input.SetValue("{name} {year}")

	got := buildPreviews(SectionRangeTitle, &m.state, m.icons, m.resolver)
	if len(got) != 1 || got[0].label != "Invalid" || !strings.Contains(got[0].preview, "{year}") {
		t.Errorf("previews = %+v, want single invalid entry naming {year}", got)
	}
}

func TestTabCyclesSections(t *testing.T) {
	m := newTestModel(t)

	want := []Section{SectionRangeDescription, SectionLibrary, SectionLogging, SectionRangeTitle}
	for _, w := range want {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if got := m.activeSection(); got != w {
			t.Fatalf("activeSection() = %v, want %v", got, w)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.activeSection(); got != SectionLogging {
		t.Errorf("activeSection() after shift+tab = %v, want %v", got, SectionLogging)
	}
}

func TestLibrarySectionEditing(t *testing.T) {
	m := newTestModel(t)
	m.setActiveSection(2)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if got := m.state.Library.Backend; got != config.BackendMemory {
		t.Errorf("backend after toggle = %q, want %q", got, config.BackendMemory)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.state.Library.Focus != LibraryFieldEpisodes {
		t.Fatalf("focus = %v, want episodes", m.state.Library.Focus)
	}
	typeText(m, "x2")
	if got := m.state.Library.Episodes.Value(); got != "102" {
		t.Errorf("episodes = %q, want %q", got, "102")
	}
}

func TestLoggingSectionEditing(t *testing.T) {
	m := newTestModel(t)
	m.setActiveSection(3)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	typeText(m, "a7")
	if got := m.state.Logging.Retention.Value(); got != "307" {
		t.Errorf("retention = %q, want %q", got, "307")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.state.Logging.Level; got != "warn" {
		t.Errorf("level = %q, want warn", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.state.Logging.Enabled {
		t.Error("logging still enabled after toggle")
	}
	typeText(m, "9")
	if got := m.state.Logging.Retention.Value(); got != "307" {
		t.Errorf("retention changed while focus on toggle: %q", got)
	}
}

func TestSaveWritesConfig(t *testing.T) {
	m := newTestModel(t)
	m.state.Templates.Title.Input.SetValue("{name} S{season:02d}")
	m.state.Library.Backend = config.BackendMemory
	m.state.Logging.Level = "debug"

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.err != nil {
		t.Fatalf("save error = %v", m.err)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := config.DefaultConfig()
	want.RangeTitle = "{name} S{season:02d}"
	want.StoreBackend = config.BackendMemory
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("saved config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(*want, m.Saved()); diff != "" {
		t.Errorf("Saved() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRejectsInvalidValues(t *testing.T) {
	m := newTestModel(t)
	m.state.Library.Episodes.SetValue("0")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.err == nil {
		t.Fatal("save error = nil, want validation error")
	}
	if !strings.HasPrefix(m.saveStatus, "Not saved") {
		t.Errorf("saveStatus = %q, want Not saved prefix", m.saveStatus)
	}
	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultEpisodes != 10 {
		t.Errorf("DefaultEpisodes on disk = %d, want untouched 10", loaded.DefaultEpisodes)
	}
}

func TestResetRestoresSavedValues(t *testing.T) {
	m := newTestModel(t)
	m.setActiveSection(1)
	m.state.Templates.Description.Input.SetValue("changed")
	m.state.Logging.Enabled = false

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	if got, want := m.state.Templates.Description.Input.Value(), config.DefaultConfig().RangeDescription; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
	if !m.state.Logging.Enabled {
		t.Error("logging not restored")
	}
	if got := m.activeSection(); got != SectionRangeDescription {
		t.Errorf("activeSection() = %v, want description", got)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(t)
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("%v returned nil command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v produced %T, want tea.QuitMsg", k, cmd())
		}
	}
}

func TestViewSizes(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"ReelShelf Configuration", "[ Range Title ]", "Template Variables", "{season:02d}", "Breaking Bad Season 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if got := m.View(); !strings.Contains(got, "Terminal too small") {
		t.Errorf("small View() = %q", got)
	}
}

func TestNextLevelWraps(t *testing.T) {
	if got := nextLevel("error"); got != "debug" {
		t.Errorf("nextLevel(error) = %q, want debug", got)
	}
	if got := nextLevel("bogus"); got != "debug" {
		t.Errorf("nextLevel(bogus) = %q, want debug", got)
	}
}
