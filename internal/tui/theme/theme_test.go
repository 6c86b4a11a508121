package theme

import (
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
)

func plainTerminal(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("emoji icons are never chosen on Windows")
	}
	for _, env := range []string{"SSH_CLIENT", "SSH_TTY", "SSH_CONNECTION"} {
		t.Setenv(env, "")
	}
}

func sshTerminal(t *testing.T) {
	t.Helper()
	t.Setenv("SSH_CONNECTION", "10.0.0.2 5000 10.0.0.1 22")
}

func TestIconSetsDefineSameNames(t *testing.T) {
	emoji := lo.Keys(emojiIcons)
	ascii := lo.Keys(asciiIcons)
	slices.Sort(emoji)
	slices.Sort(ascii)
	if diff := cmp.Diff(ascii, emoji); diff != "" {
		t.Errorf("icon names mismatch (-ascii +emoji):\n%s", diff)
	}
}

func TestDefaultIconsFollowTerminal(t *testing.T) {
	t.Run("ssh", func(t *testing.T) {
		sshTerminal(t)
		if got := Default().Icon("series"); got != "[TV]" {
			t.Errorf("Icon(series) = %q, want [TV]", got)
		}
	})
	t.Run("local", func(t *testing.T) {
		plainTerminal(t)
		if got := Default().Icon("series"); got != "📺" {
			t.Errorf("Icon(series) = %q, want 📺", got)
		}
	})
}

func TestIconFallsBackToASCII(t *testing.T) {
	th := New(WithIconSet(IconSet{"movie": "MOV"}))

	tests := []struct {
		name string
		want string
	}{
		{name: "movie", want: "MOV"},
		{name: "bookmark", want: "[B]"},
		{name: "subtitles", want: ""},
	}
	for _, tc := range tests {
		if got := th.Icon(tc.name); got != tc.want {
			t.Errorf("Icon(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIconSetIsCopied(t *testing.T) {
	custom := IconSet{"play": ">>"}
	th := New(WithIconSet(custom))
	custom["play"] = "changed"
	th.IconSet()["play"] = "changed"

	if got := th.Icon("play"); got != ">>" {
		t.Errorf("Icon(play) = %q, want >>", got)
	}
}

func TestWithIconSetNilKeepsDefault(t *testing.T) {
	sshTerminal(t)
	if got := New(WithIconSet(nil)).Icon("episode"); got != "[E]" {
		t.Errorf("Icon(episode) = %q, want [E]", got)
	}
}

func TestKindIcon(t *testing.T) {
	sshTerminal(t)
	th := Default()

	tests := map[string]string{
		"movie":   "[M]",
		"series":  "[TV]",
		"episode": "[E]",
		"podcast": "[?]",
		"":        "[?]",
	}
	for kind, want := range tests {
		if got := th.KindIcon(kind); got != want {
			t.Errorf("KindIcon(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestStars(t *testing.T) {
	sshTerminal(t)
	th := Default()

	tests := []struct {
		rating int
		want   string
	}{
		{rating: 0, want: "....."},
		{rating: 4, want: "****."},
		{rating: 5, want: "*****"},
		{rating: 7, want: "*****"},
		{rating: -1, want: "....."},
	}
	for _, tc := range tests {
		got := th.Stars(tc.rating)
		if plain := strings.ReplaceAll(stripANSI(got), " ", ""); plain != tc.want {
			t.Errorf("Stars(%d) = %q, want %q", tc.rating, plain, tc.want)
		}
	}
}

func TestNotice(t *testing.T) {
	sshTerminal(t)
	th := Default()

	tests := []struct {
		kind NoticeKind
		want string
	}{
		{kind: NoticeInfo, want: "[i] 3 entries"},
		{kind: NoticeSuccess, want: "[v] 3 entries"},
		{kind: NoticeWarning, want: "[~] 3 entries"},
		{kind: NoticeError, want: "[!] 3 entries"},
	}
	for _, tc := range tests {
		if got := stripANSI(th.Notice(tc.kind, "3 entries")); got != tc.want {
			t.Errorf("Notice(%d) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestNoticeBarColors(t *testing.T) {
	colors := Colors{
		Secondary:  lipgloss.Color("1"),
		Accent:     lipgloss.Color("2"),
		Background: lipgloss.Color("3"),
		Success:    lipgloss.Color("4"),
		Error:      lipgloss.Color("5"),
	}
	th := New(WithColors(colors))

	tests := []struct {
		kind NoticeKind
		want lipgloss.Color
	}{
		{kind: NoticeInfo, want: colors.Secondary},
		{kind: NoticeSuccess, want: colors.Success},
		{kind: NoticeWarning, want: colors.Accent},
		{kind: NoticeError, want: colors.Error},
	}
	for _, tc := range tests {
		style := th.NoticeBar(tc.kind)
		if bg := style.GetBackground(); bg != tc.want {
			t.Errorf("NoticeBar(%d) background = %v, want %v", tc.kind, bg, tc.want)
		}
		if fg := style.GetForeground(); fg != colors.Background {
			t.Errorf("NoticeBar(%d) foreground = %v, want %v", tc.kind, fg, colors.Background)
		}
	}
}

func TestScreenStylesUsePalette(t *testing.T) {
	th := Default()
	c := th.Colors()

	if bg := th.HeaderStyle().GetBackground(); bg != c.Primary {
		t.Errorf("HeaderStyle() background = %v, want %v", bg, c.Primary)
	}
	if bg := th.StatusBarStyle().GetBackground(); bg != c.Secondary {
		t.Errorf("StatusBarStyle() background = %v, want %v", bg, c.Secondary)
	}
	if fg := th.PanelStyle().GetBorderTopForeground(); fg != c.Accent {
		t.Errorf("PanelStyle() border = %v, want %v", fg, c.Accent)
	}
	if fg := th.LabelStyle().GetForeground(); fg != c.Muted {
		t.Errorf("LabelStyle() foreground = %v, want %v", fg, c.Muted)
	}
	if top, _, _, left := th.PanelStyle().GetPadding(); top != panelPadding || left != panelPadding {
		t.Errorf("PanelStyle() padding = %d,%d, want %d", top, left, panelPadding)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
