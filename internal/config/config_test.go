package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscover_WalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, `
[encode]
code = "repetition"

[run]
shots = 500
seed = 42

[run.noise]
gate2 = 0.001

[cache]
dir = "tables"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Encode.Code != "repetition" || cfg.Run.Shots != 500 || cfg.Run.Seed != 42 || cfg.Run.Noise.Gate2 != 0.001 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Cache.Dir != filepath.Join(root, "tables") {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
}

func TestDiscover_Defaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" && !strings.HasSuffix(cfg.Path, FileName) {
		t.Errorf("path = %q", cfg.Path)
	}
	if cfg.Path == "" && (cfg.Encode.Code != DefaultCode || cfg.Run.Shots != DefaultShots) {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"unknown key", "[run]\nshotz = 3\n", "unknown keys"},
		{"empty code", "[encode]\ncode = \"\"\n", "[encode].code"},
		{"shots", "[run]\nshots = 0\n", "[run].shots"},
		{"noise", "[run.noise]\nmeasure = 2.0\n", "outside [0, 1]"},
		{"weight", "[encode]\nmax_weight = -1\n", "max_weight"},
		{"syntax", "[encode\n", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), tt.text))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCacheDisabled(t *testing.T) {
	cfg, err := Load(write(t, t.TempDir(), "[cache]\ndir = \"off\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.CacheDisabled() {
		t.Error("cache must be disabled")
	}
}
