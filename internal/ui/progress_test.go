package ui

import (
	"strings"
	"testing"

	"qstack/internal/runner"
)

func TestProgressModel_TracksEvents(t *testing.T) {
	events := make(chan runner.Event, 4)
	m := NewProgressModel("bell.toml", "steane", events).(*progressModel)

	m.Update(eventMsg(runner.Event{Status: runner.StatusProgress, Done: 3, Total: 10}))
	if view := m.View(); !strings.Contains(view, "3/10 shots") || !strings.Contains(view, "running") {
		t.Errorf("view:\n%s", view)
	}

	m.Update(eventMsg(runner.Event{Status: runner.StatusDone, Done: 10, Total: 10}))
	m.Update(doneMsg{})
	if view := m.View(); !strings.HasPrefix(stripANSI(view), "done: bell.toml") {
		t.Errorf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"programs/bell.toml", 10, "program..."},
		{"abcdefgh", 7, "abcd..."},
		{"abcdefgh", 4, "a..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	skip := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			skip = true
		case skip && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			skip = false
		case !skip:
			b.WriteRune(r)
		}
	}
	return b.String()
}
