package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"qstack/internal/diag"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	infoLabel    = color.New(color.FgCyan)
	noteLabel    = color.New(color.Faint)
)

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorLabel
	case diag.SevWarning:
		return warningLabel
	default:
		return infoLabel
	}
}

// printDiagnostics writes the bag deduplicated and sorted by op, one finding per line with
// its notes indented below. It returns the number of errors.
func printDiagnostics(w io.Writer, bag *diag.Bag, path string, quiet bool) int {
	bag.Dedup()
	bag.Sort()
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
		if quiet && d.Severity == diag.SevInfo {
			continue
		}
		label := severityColor(d.Severity).Sprintf("%s[%s]", d.Severity.Label(), d.Code.ID())
		fmt.Fprintf(w, "%s: %s: %s (%s)\n", path, label, d.Message, d.Primary)
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", noteLabel.Sprint("note:"), n.Msg)
		}
	}
	return errs
}
