package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	asmerror "github.com/msto63/asmfmt/pkg/core/error"
)

// EnvVar names the environment variable holding an explicit config path
const EnvVar = "ASMFMT_CONFIG"

// FileName is the project-local config file name
const FileName = ".asmfmt.toml"

// Config holds the complete formatter configuration
type Config struct {
	Keywords KeywordsConfig `toml:"keywords"`
	Log      LogConfig      `toml:"log"`
	Watch    WatchConfig    `toml:"watch"`

	// Path is the file the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

// KeywordsConfig selects the keyword table
type KeywordsConfig struct {
	File string `toml:"file"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, asmerror.Newf("config file not found: %s", path).
			WithCode(asmerror.CodeNotFound).
			WithOperation("config.Load")
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to parse config").
			WithCode(asmerror.CodeConfigError).
			WithDetail("path", path).
			WithOperation("config.Load")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, asmerror.Newf("unknown config key %q", undecoded[0].String()).
			WithCode(asmerror.CodeConfigError).
			WithDetail("path", path).
			WithOperation("config.Load")
	}

	cfg.Path = path
	cfg.applyDefaults()
	cfg.expandEnvVars()

	return &cfg, nil
}

// Discover resolves the configuration. An explicit path must exist; the
// ASMFMT_CONFIG variable, ./.asmfmt.toml and the user config directory are
// tried next. Defaults are returned when none of them exists.
func Discover(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// SearchPaths lists the implicit config locations in lookup order
func SearchPaths() []string {
	paths := []string{filepath.Join(".", FileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "asmfmt", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 100 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values. A relative
// keyword table path is taken relative to the config file.
func (c *Config) expandEnvVars() {
	c.Keywords.File = os.ExpandEnv(c.Keywords.File)
	if c.Keywords.File != "" && c.Path != "" && !filepath.IsAbs(c.Keywords.File) {
		c.Keywords.File = filepath.Join(filepath.Dir(c.Path), c.Keywords.File)
	}
}

// String renders the effective configuration as TOML
func (c *Config) String() string {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
