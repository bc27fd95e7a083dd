package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"qstack/internal/sim"
)

// FileName is the configuration file searched for from the working
// directory upwards.
const FileName = "qstack.toml"

// Config is the decoded qstack.toml. Zero fields mean "use the default".
type Config struct {
	Encode EncodeConfig `toml:"encode"`
	Run    RunConfig    `toml:"run"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is where the file was found; empty for defaults.
	Path string `toml:"-"`
}

type EncodeConfig struct {
	Code      string `toml:"code"`
	MaxWeight int    `toml:"max_weight"`
}

type RunConfig struct {
	Shots   int       `toml:"shots"`
	Seed    uint64    `toml:"seed"`
	Workers int       `toml:"workers"`
	Noise   sim.Noise `toml:"noise"`
}

type CacheConfig struct {
	// Dir holds persisted syndrome tables. "off" disables the disk store.
	Dir string `toml:"dir"`
}

// Defaults used when neither the file nor a flag sets a value.
const (
	DefaultCode  = "steane"
	DefaultShots = 100
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Encode: EncodeConfig{Code: DefaultCode},
		Run:    RunConfig{Shots: DefaultShots},
	}
}

// Find walks up from startDir looking for qstack.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest qstack.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("encode", "code") && strings.TrimSpace(cfg.Encode.Code) == "" {
		return Config{}, fmt.Errorf("%s: [encode].code is empty", path)
	}
	if cfg.Encode.MaxWeight < 0 {
		return Config{}, fmt.Errorf("%s: [encode].max_weight must not be negative", path)
	}
	if meta.IsDefined("run", "shots") && cfg.Run.Shots <= 0 {
		return Config{}, fmt.Errorf("%s: [run].shots must be positive", path)
	}
	if cfg.Run.Workers < 0 {
		return Config{}, fmt.Errorf("%s: [run].workers must not be negative", path)
	}
	if err := cfg.Run.Noise.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: [run.noise]: %w", path, err)
	}
	if cfg.Cache.Dir != "" && cfg.Cache.Dir != "off" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	cfg.Path = path
	return cfg, nil
}

// CacheDisabled reports whether the disk store was turned off.
func (c Config) CacheDisabled() bool { return c.Cache.Dir == "off" }
