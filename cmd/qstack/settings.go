package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qstack/internal/config"
	"qstack/internal/encode"
	"qstack/internal/syndrome"
)

// loadConfig reads --config or the nearest qstack.toml.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// addEncodeFlags registers the flags shared by compile, run and table.
func addEncodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("code", "", "code family (repetition|phase|steane)")
	cmd.Flags().Int("max-weight", 0, "largest error weight the syndrome tables correct (0: code default)")
	cmd.Flags().String("cache-dir", "", "directory for persisted syndrome tables (\"off\" disables)")
}

type encodeSettings struct {
	code      encode.Code
	maxWeight int
	store     *syndrome.DiskStore
	cache     *syndrome.Cache
}

// resolveEncode merges flags over the config file. A code named in the
// program wins over the config file but not over --code.
func resolveEncode(cmd *cobra.Command, cfg config.Config, programCode string) (encodeSettings, error) {
	name := cfg.Encode.Code
	if programCode != "" {
		name = programCode
	}
	if cmd.Flags().Changed("code") {
		name, _ = cmd.Flags().GetString("code")
	}
	code, err := encode.Lookup(name)
	if err != nil {
		return encodeSettings{}, err
	}

	weight := cfg.Encode.MaxWeight
	if cmd.Flags().Changed("max-weight") {
		weight, _ = cmd.Flags().GetInt("max-weight")
	}
	if weight < 0 {
		return encodeSettings{}, fmt.Errorf("--max-weight must not be negative, got %d", weight)
	}

	dir := cfg.Cache.Dir
	if cmd.Flags().Changed("cache-dir") {
		dir, _ = cmd.Flags().GetString("cache-dir")
	}
	var store *syndrome.DiskStore
	if dir != "off" {
		store, err = syndrome.OpenDiskStore(dir)
		if err != nil {
			return encodeSettings{}, fmt.Errorf("table cache: %w", err)
		}
	}
	return encodeSettings{code: code, maxWeight: weight, store: store, cache: syndrome.NewCache(store)}, nil
}

// applyColorFlag maps --color onto fatih/color's global switch.
func applyColorFlag(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}
