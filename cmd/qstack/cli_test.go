package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"qstack/internal/encode"
	"qstack/internal/program"
	"qstack/internal/syndrome"
	"qstack/internal/version"
)

func TestUseProgressUI(t *testing.T) {
	cases := []struct {
		input string
		quiet bool
		want  bool
		err   bool
	}{
		{"", false, false, false},
		{"AUTO", false, false, false},
		{" on ", false, true, false},
		{"on", true, false, false},
		{"off", false, false, false},
		{"sometimes", false, false, true},
	}
	for _, tc := range cases {
		// A nil stdout stands in for a pipe.
		got, err := useProgressUI(tc.input, tc.quiet, nil)
		if (err != nil) != tc.err || got != tc.want {
			t.Fatalf("useProgressUI(%q, %v) = %v, %v", tc.input, tc.quiet, got, err)
		}
	}
}

func TestParseGenerators(t *testing.T) {
	group, err := parseGenerators("ZZI, ZIZ")
	if err != nil {
		t.Fatalf("parseGenerators error: %v", err)
	}
	if len(group) != 2 || group[1].String() != "ZIZ" {
		t.Fatalf("parseGenerators = %v", group)
	}
	if _, err := parseGenerators("ZZI,ZZ"); err == nil {
		t.Fatal("expected a length mismatch error")
	}
	if _, err := parseGenerators("ZQI"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestWriteTable(t *testing.T) {
	group, err := parseGenerators("ZZI,ZIZ")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	writeTable(&buf, syndrome.Build(group, 1))
	out := buf.String()
	for _, want := range []string{"entries: 4 of 4 syndromes", "  00 -> III", "  11 -> XII", "  10 -> IXI", "  01 -> IIX"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	prog, err := program.Parse(`
name = "flip"
qubits = 1

[[op]]
gate = "prepare"
targets = [0]

[[op]]
gate = "x"
targets = [0]

[[op]]
gate = "measure"
targets = [0]
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	code, err := encode.Lookup("repetition")
	if err != nil {
		t.Fatal(err)
	}
	c, err := encode.Compile(context.Background(), prog, code, encode.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var buf bytes.Buffer
	if err := writeSummary(&buf, c); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"program:      flip", "code:         repetition (n=3)", "data qubits:  3", "outcomes:     1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderVersion(t *testing.T) {
	color.NoColor = true
	info := version.Info{Version: "1.2.3", GitCommit: "abc123"}

	var pretty bytes.Buffer
	if err := renderVersion(&pretty, info, versionOptions{format: "pretty", showHash: true, showDate: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "commit: abc123") || !strings.Contains(pretty.String(), "built:  unknown") {
		t.Fatalf("pretty output:\n%s", pretty.String())
	}

	var raw bytes.Buffer
	if err := renderVersion(&raw, info, versionOptions{format: "json"}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(raw.Bytes(), &payload); err != nil {
		t.Fatalf("json: %v", err)
	}
	if payload.Tool != "qstack" || payload.Version != "1.2.3" || payload.GitCommit != "" {
		t.Fatalf("payload = %+v", payload)
	}

	if err := renderVersion(&raw, info, versionOptions{format: "yaml"}); err == nil {
		t.Fatal("expected an unknown format error")
	}
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "H 0\n")
		return err
	}); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "H 0\n" {
		t.Fatalf("got %q", data)
	}

	boom := errors.New("boom")
	if err := writeFile(path, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected the write error, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")
	if err := writeFile(missing, func(io.Writer) error { return nil }); err == nil {
		t.Fatal("expected a create error")
	}
}

func TestCloseAfter(t *testing.T) {
	closeErr := errors.New("disk full")
	writeErr := errors.New("short write")
	cases := []struct {
		name  string
		close error
		write error
		want  error
	}{
		{"clean", nil, nil, nil},
		{"close fails", closeErr, nil, closeErr},
		{"write wins", closeErr, writeErr, writeErr},
		{"write fails", nil, writeErr, writeErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := closeAfter(failingCloser{tc.close}, tc.write)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
