package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"qstack/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show qstack build metadata",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := versionOptions{
			format:   strings.ToLower(versionFormat),
			showHash: versionShowHash || versionShowFull,
			showDate: versionShowDate || versionShowFull,
		}
		return renderVersion(cmd.OutOrStdout(), version.Get(), opts)
	},
}

func renderVersion(w io.Writer, info version.Info, opts versionOptions) error {
	switch opts.format {
	case "json":
		payload := versionPayload{Tool: "qstack", Version: info.Version}
		if opts.showHash {
			payload.GitCommit = info.GitCommit
		}
		if opts.showDate {
			payload.BuildDate = info.BuildDate
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty", "":
		fmt.Fprintf(w, "qstack %s\n", version.Colored())
		if opts.showHash {
			fmt.Fprintf(w, "commit: %s\n", orUnknown(info.GitCommit))
		}
		if opts.showDate {
			fmt.Fprintf(w, "built:  %s\n", orUnknown(info.BuildDate))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json)", opts.format)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
