package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
		{"héllo wörld", 5, "héll…"},
	}
	for _, tt := range tests {
		if got := truncStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight(2) = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("truncateToHeight(0) = %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("truncateToHeight(10) = %q", got)
	}
}

func TestCenter(t *testing.T) {
	got := center("ab\n\ncd", 10)
	want := "    ab\n\n    cd"
	if got != want {
		t.Errorf("center = %q, want %q", got, want)
	}
	if got := center("too wide", 4); got != "too wide" {
		t.Errorf("center narrow = %q", got)
	}
}

func TestHelpLineSkipsDisabled(t *testing.T) {
	off := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled())
	line := helpLine(DefaultKeyMap.Submit, off, DefaultKeyMap.Quit)
	if strings.Contains(line, "hidden") {
		t.Errorf("disabled binding shown: %q", line)
	}
	for _, want := range []string{"enter", "submit", "ctrl+c", "quit"} {
		if !strings.Contains(line, want) {
			t.Errorf("help line missing %q: %q", want, line)
		}
	}
}

func TestBannerSpellsName(t *testing.T) {
	for frame := 0; frame < 3; frame++ {
		b := renderBanner(frame)
		if !strings.Contains(stripSpaces(b), "TEAMWORK") {
			t.Errorf("frame %d banner = %q", frame, b)
		}
	}
}

// stripSpaces removes the letter spacing so the plain text can be matched
// when no color profile is active.
func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
