package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/config"
	"github.com/Digital-Shane/reelshelf/internal/tui/add"
	"github.com/Digital-Shane/reelshelf/internal/tui/browse"
	configui "github.com/Digital-Shane/reelshelf/internal/tui/config"
	"github.com/Digital-Shane/reelshelf/internal/tui/undo"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowseEmptyCatalog(t *testing.T) {
	a, _ := newTestApp(t)
	out := mustRun(t, a, "browse")
	assertContains(t, out, "The catalog is empty")
}

func TestBrowsePlaysSelection(t *testing.T) {
	a, store := newTestApp(t)
	mustRun(t, a, "add", "series", sampleURL, "-n", "3")
	c := onlyContent(t, store)

	a.runProgram = func(m tea.Model) (tea.Model, error) {
		bm, ok := m.(*browse.Model)
		if !ok {
			t.Fatalf("program model is %T, want *browse.Model", m)
		}
		if _, err := bm.Tree.SetFocusedID(context.Background(), c.ID+"/2"); err != nil {
			t.Fatalf("SetFocusedID() error = %v", err)
		}
		bm.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return bm, nil
	}

	out := mustRun(t, a, "browse")
	assertContains(t, out, "MyShow - Episode 2", "VLC (iOS)")

	if a.svc != nil {
		t.Error("catalog service still open after command")
	}
	h, ok := mustHistory(t, catalog.New(store), c.ID)
	if !ok || h.CurrentEpisode != 2 {
		t.Errorf("history = %+v (present %v), want episode 2", h, ok)
	}
}

func TestBrowseWithoutSelection(t *testing.T) {
	a, _ := newTestApp(t)
	mustRun(t, a, "add", "movie", "Feature", "https://host/feature.mp4")

	out := mustRun(t, a, "browse")
	if out != "" {
		t.Errorf("browse without selection printed %q", out)
	}
}

func TestPreviewRunsAddScreen(t *testing.T) {
	a, _ := newTestApp(t)
	var got tea.Model
	a.runProgram = func(m tea.Model) (tea.Model, error) {
		got = m
		return m, nil
	}

	mustRun(t, a, "preview")
	if _, ok := got.(*add.Model); !ok {
		t.Errorf("program model is %T, want *add.Model", got)
	}
}

func TestConfigCommand(t *testing.T) {
	a, _ := newTestApp(t)

	out := mustRun(t, a, "config")
	assertContains(t, out, "not created", `"store_backend": "sqlite"`, `"range_title"`)

	out = mustRun(t, a, "config", "--init")
	assertContains(t, out, "Wrote default configuration")
	path, _ := config.ConfigPath()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run(t, a, "config", "--init"); err == nil {
		t.Error("second config --init error = nil, want already exists")
	}

	var got tea.Model
	a.runProgram = func(m tea.Model) (tea.Model, error) {
		got = m
		return m, nil
	}
	mustRun(t, a, "config", "--edit")
	if _, ok := got.(*configui.Model); !ok {
		t.Errorf("program model is %T, want *config.Model", got)
	}
}

func TestUndoCommand(t *testing.T) {
	a, store := newTestApp(t)

	out := mustRun(t, a, "undo")
	assertContains(t, out, "No operation sessions found to undo.")

	mustRun(t, a, "add", "movie", "Feature", "https://host/feature.mp4")
	var got tea.Model
	a.runProgram = func(m tea.Model) (tea.Model, error) {
		got = m
		return m, nil
	}
	mustRun(t, a, "undo")
	if _, ok := got.(*undo.UndoModel); !ok {
		t.Errorf("program model is %T, want *undo.UndoModel", got)
	}
	if n := len(contents(t, store)); n != 1 {
		t.Errorf("catalog has %d entries, want untouched 1", n)
	}
}
