package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"qstack/internal/pauli"
	"qstack/internal/syndrome"
)

var tableCmd = &cobra.Command{
	Use:   "table [flags]",
	Short: "Build and print a syndrome lookup table",
	Long: `Build the syndrome table of a code's generators, or of an explicit
comma-separated generator list, and print syndrome -> correction rows.
Rows use the table's canonical generator order.`,
	Args: cobra.NoArgs,
	RunE: tableExecution,
}

func init() {
	addEncodeFlags(tableCmd)
	tableCmd.Flags().String("generators", "", "explicit generators, e.g. ZZI,ZIZ (overrides --code)")
	tableCmd.Flags().Bool("clear-cache", false, "remove every persisted table first")
}

// parseGenerators reads a comma-separated list of equal-length strings.
func parseGenerators(list string) ([]pauli.String, error) {
	var group []pauli.String
	for _, s := range strings.Split(list, ",") {
		g, err := pauli.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		if len(group) > 0 && len(g) != len(group[0]) {
			return nil, fmt.Errorf("%v has length %d, want %d", g, len(g), len(group[0]))
		}
		group = append(group, g)
	}
	return group, nil
}

func tableExecution(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := resolveEncode(cmd, cfg, "")
	if err != nil {
		return err
	}

	if clearCache, _ := cmd.Flags().GetBool("clear-cache"); clearCache {
		if err := settings.store.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	group := settings.code.Generators()
	weight := settings.maxWeight
	if weight == 0 {
		weight = settings.code.MaxWeight()
	}
	if list, _ := cmd.Flags().GetString("generators"); list != "" {
		if group, err = parseGenerators(list); err != nil {
			return fmt.Errorf("--generators: %w", err)
		}
	}

	view, err := settings.cache.View(group, weight)
	if err != nil {
		return err
	}
	writeTable(cmd.OutOrStdout(), view.Table)
	s := settings.cache.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "cache: builds=%d disk_hits=%d\n", s.Builds, s.DiskHits)
	return nil
}

func writeTable(w io.Writer, t *syndrome.Table) {
	fmt.Fprintf(w, "key: %s\n", t.Key)
	fmt.Fprintf(w, "generators (weight <= %d):\n", t.MaxWeight)
	for _, g := range t.Generators {
		fmt.Fprintf(w, "  %s\n", g)
	}
	fmt.Fprintf(w, "entries: %d of %d syndromes\n", t.Len(), 1<<len(t.Generators))
	for _, key := range t.Syndromes() {
		syn := make(syndrome.Syndrome, len(key))
		for i := range key {
			syn[i] = key[i] - '0'
		}
		corr, _ := t.Lookup(syn)
		fmt.Fprintf(w, "  %s -> %s\n", key, corr)
	}
}
