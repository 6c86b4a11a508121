package add

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/Digital-Shane/reelshelf/internal/preview"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

const sampleURL = "https://host/MyShow.S01E01.720p.WEB.x265.Hindi.mkv"

type addCall struct {
	Title string
	URL   string
	Total int
}

type fakeAdder struct {
	calls []addCall
	err   error
}

func (f *fakeAdder) AddSeries(_ context.Context, title, _ string, sampleURL string, total int) (catalog.Content, media.Batch, error) {
	f.calls = append(f.calls, addCall{Title: title, URL: sampleURL, Total: total})
	if f.err != nil {
		return catalog.Content{}, media.Batch{}, f.err
	}
	batch, err := media.GenerateEpisodes(sampleURL, total)
	if err != nil {
		return catalog.Content{}, media.Batch{}, err
	}
	if title == "" {
		title = "MyShow"
	}
	return catalog.Content{ID: "id-1", Title: title, Type: catalog.TypeSeries, Episodes: batch.Episodes}, batch, nil
}

func newTestModel(adder Adder, opts ...Option) *Model {
	return New(adder, preview.New(0), opts...)
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestTypingURLUpdatesPreview(t *testing.T) {
	m := newTestModel(&fakeAdder{}, WithDefaultEpisodes(8), WithPreviewLimit(3))

	typeText(m, sampleURL)

	if !m.parsed {
		t.Fatalf("parsed = false after typing %q, want true", sampleURL)
	}
	want := media.ParsedVideoInfo{
		SeriesName: "MyShow",
		Season:     "S01",
		Episode:    "E01",
		Quality:    "720p",
		Languages:  []string{"Hindi"},
		Format:     "x265",
	}
	if diff := cmp.Diff(want, m.info); diff != "" {
		t.Errorf("parsed info mismatch (-want +got):\n%s", diff)
	}
	if got := len(m.batch.Episodes); got != 3 {
		t.Errorf("preview episodes = %d, want 3", got)
	}

	view := m.View()
	for _, want := range []string{"MyShow", "720p", "Hindi", "MyShow.S01E03.720p.WEB.x265.Hindi.mkv", "and 5 more"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestUnrecognizedURLShowsFallbackPreview(t *testing.T) {
	m := newTestModel(&fakeAdder{}, WithDefaultEpisodes(2))

	typeText(m, "https://host/video_ep_1.mp4")

	if m.parsed {
		t.Error("parsed = true for unrecognized filename, want false")
	}
	if m.batch.Mode != media.ModeFallback {
		t.Errorf("preview mode = %q, want %q", m.batch.Mode, media.ModeFallback)
	}
	if view := m.View(); !strings.Contains(view, "Unrecognized filename") {
		t.Errorf("View() missing unrecognized notice:\n%s", view)
	}
}

func TestInvalidCountReportsError(t *testing.T) {
	m := newTestModel(&fakeAdder{})
	typeText(m, sampleURL)

	press(m, tea.KeyTab)
	if m.Focused() != FieldEpisodes {
		t.Fatalf("Focused() = %v, want FieldEpisodes", m.Focused())
	}
	m.inputs[FieldEpisodes].SetValue("")
	typeText(m, "0")

	if !media.IsValidationError(m.inputErr) {
		t.Errorf("inputErr = %v, want ValidationError", m.inputErr)
	}
	if len(m.batch.Episodes) != 0 {
		t.Errorf("preview episodes = %d, want none", len(m.batch.Episodes))
	}
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Error("Enter with invalid count returned a command, want nil")
	}
	if !media.IsValidationError(m.err) {
		t.Errorf("err = %v, want ValidationError", m.err)
	}
}

func TestFocusCycles(t *testing.T) {
	m := newTestModel(&fakeAdder{})

	tests := []struct {
		key  tea.KeyType
		want Field
	}{
		{tea.KeyTab, FieldEpisodes},
		{tea.KeyTab, FieldTitle},
		{tea.KeyTab, FieldURL},
		{tea.KeyShiftTab, FieldTitle},
		{tea.KeyUp, FieldEpisodes},
	}
	for i, tc := range tests {
		press(m, tc.key)
		if got := m.Focused(); got != tc.want {
			t.Fatalf("step %d: Focused() = %v, want %v", i, got, tc.want)
		}
	}
}

func TestSubmitAddsSeries(t *testing.T) {
	adder := &fakeAdder{}
	m := newTestModel(adder, WithDefaultEpisodes(4))
	typeText(m, sampleURL)

	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("Enter returned nil command, want submission")
	}
	if !m.submitting {
		t.Error("submitting = false after Enter, want true")
	}
	if again := press(m, tea.KeyEnter); again != nil {
		t.Error("second Enter while submitting returned a command, want nil")
	}

	m.Update(cmd())

	wantCalls := []addCall{{Title: "", URL: sampleURL, Total: 4}}
	if diff := cmp.Diff(wantCalls, adder.calls); diff != "" {
		t.Errorf("AddSeries calls mismatch (-want +got):\n%s", diff)
	}
	if got := len(m.Added()); got != 1 {
		t.Fatalf("len(Added()) = %d, want 1", got)
	}
	if m.inputs[FieldURL].Value() != "" {
		t.Errorf("URL input = %q after add, want cleared", m.inputs[FieldURL].Value())
	}
	if view := m.View(); !strings.Contains(view, `Added "MyShow" with 4 episodes`) {
		t.Errorf("View() missing success status:\n%s", view)
	}
}

func TestSubmitUsesTitleOverride(t *testing.T) {
	adder := &fakeAdder{}
	m := newTestModel(adder, WithDefaultEpisodes(1))
	typeText(m, sampleURL)
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	typeText(m, "  Custom Name ")

	m.Update(press(m, tea.KeyEnter)())

	if len(adder.calls) != 1 || adder.calls[0].Title != "Custom Name" {
		t.Errorf("AddSeries calls = %+v, want title %q", adder.calls, "Custom Name")
	}
}

func TestSubmitFailureKeepsInputs(t *testing.T) {
	adder := &fakeAdder{err: errors.New("disk full")}
	m := newTestModel(adder)
	typeText(m, sampleURL)

	m.Update(press(m, tea.KeyEnter)())

	if m.err == nil || m.err.Error() != "disk full" {
		t.Errorf("err = %v, want disk full", m.err)
	}
	if m.inputs[FieldURL].Value() != sampleURL {
		t.Errorf("URL input = %q, want preserved", m.inputs[FieldURL].Value())
	}
	if len(m.Added()) != 0 {
		t.Errorf("len(Added()) = %d, want 0", len(m.Added()))
	}
}

func TestSubmitRequiresURL(t *testing.T) {
	m := newTestModel(&fakeAdder{})
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Error("Enter with empty URL returned a command, want nil")
	}
	var ve *media.ValidationError
	if !errors.As(m.err, &ve) || ve.Field != "url" {
		t.Errorf("err = %v, want url ValidationError", m.err)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(&fakeAdder{})
		cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("key %v returned nil command, want quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %v command produced %T, want tea.QuitMsg", k, cmd())
		}
	}
}
