package main

import (
	"fmt"
	"os"
	"strings"
)

// useProgressUI decides whether run shows the live shot counter. "auto"
// shows it only when stdout is a terminal; --quiet always hides it.
func useProgressUI(value string, quiet bool, stdout *os.File) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return !quiet && stdout != nil && isTerminal(stdout), nil
	case "on":
		return !quiet, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}
