package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// WriteHistogram prints one row per outcome: the outcome, its count, its
// share of shots and a bar.
func WriteHistogram(w io.Writer, r *Result) error {
	header := "outcome"
	if len(r.Qubits) > 0 {
		cols := make([]string, len(r.Qubits))
		for i, q := range r.Qubits {
			cols[i] = fmt.Sprintf("q%d", q)
		}
		header = strings.Join(cols, " ")
	}
	width := runewidth.StringWidth(header)
	for _, k := range r.Keys() {
		width = max(width, runewidth.StringWidth(spaced(k, len(r.Qubits) > 0)))
	}

	if _, err := fmt.Fprintf(w, "%s  %8s  %7s\n", runewidth.FillRight(header, width), "count", "share"); err != nil {
		return err
	}
	for _, k := range r.Keys() {
		n := r.Counts[k]
		share := float64(n) / float64(r.Shots)
		bar := strings.Repeat("█", int(share*30+0.5))
		if _, err := fmt.Fprintf(w, "%s  %8d  %6.2f%%  %s\n",
			runewidth.FillRight(spaced(k, len(r.Qubits) > 0), width), n, 100*share, bar); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "shots=%d undefined=%d warnings=%d\n", r.Shots, r.Undefined, r.Warnings)
	return err
}

// spaced aligns each outcome character under its qN column.
func spaced(k string, columns bool) string {
	if !columns {
		return k
	}
	parts := make([]string, len(k))
	for i := range k {
		parts[i] = fmt.Sprintf("%-2s", k[i:i+1])
	}
	return strings.Join(parts, " ")
}
