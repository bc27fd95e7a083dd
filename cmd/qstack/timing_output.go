package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"qstack/internal/observ"
)

// printTimings writes the timer summary when --timings is set.
func printTimings(cmd *cobra.Command, out io.Writer, timer *observ.Timer) {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !show || timer == nil {
		return
	}
	if err := timer.WriteSummary(out); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "timings: %v\n", err)
	}
}
