package version

import (
	"testing"

	"github.com/fatih/color"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	ov, oc, od := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = ov, oc, od })
}

func TestGet(t *testing.T) {
	tests := []struct {
		name                string
		version, commit, at string
		want                string
	}{
		{"default", "0.1.0-dev", "", "", "qstack 0.1.0-dev"},
		{"commit", "1.2.3", " abc123 ", "", "qstack 1.2.3 (abc123)"},
		{"full", "1.2.3", "abc", "2026-01-15", "qstack 1.2.3 (abc) built 2026-01-15"},
		{"blank", "  ", "", "", "qstack dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override(t, tt.version, tt.commit, tt.at)
			if got := Get().String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	override(t, "0.4.2-rc1", "", "")
	if got := Colored(); got != "0.4.2-rc1" {
		t.Errorf("Colored() = %q", got)
	}
	override(t, "weird", "", "")
	if got := Colored(); got != "weird" {
		t.Errorf("Colored() = %q", got)
	}
}
