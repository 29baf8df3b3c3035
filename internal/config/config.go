// Package config loads engine settings from TOML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SNIPSTORM_"

// Defaults.
const (
	DefaultTriggerPrefix  = ":"
	DefaultDebounceMS     = 80
	DefaultHistoryLimit   = 50
	DefaultTokenAdvisory  = 100
	DefaultDictionaryPath = "snippets.toml"
)

// Config holds the engine settings.
type Config struct {
	// TriggerPrefix is the trigger marker character.
	TriggerPrefix string `toml:"trigger_prefix"`

	// DebounceMS is the input-scan debounce delay in milliseconds. The
	// debounce is a scanning cue only; commit keys bypass it.
	DebounceMS int `toml:"debounce_ms"`

	// HistoryLimit caps the undo stack; oldest entries are evicted.
	HistoryLimit int `toml:"history_limit"`

	// TokenAdvisory is the resolved-token estimate above which an
	// advisory notification is emitted.
	TokenAdvisory int `toml:"token_advisory"`

	// DictionaryPath is the snippet/template dictionary file.
	DictionaryPath string `toml:"dictionary"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		TriggerPrefix:  DefaultTriggerPrefix,
		DebounceMS:     DefaultDebounceMS,
		HistoryLimit:   DefaultHistoryLimit,
		TokenAdvisory:  DefaultTokenAdvisory,
		DictionaryPath: DefaultDictionaryPath,
	}
}

// Load reads configuration from a TOML file, fills gaps with defaults,
// and applies environment overrides. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// applyEnv overlays SNIPSTORM_* environment variables.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "TRIGGER_PREFIX"); ok && v != "" {
		c.TriggerPrefix = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DEBOUNCE_MS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.DebounceMS = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "HISTORY_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.HistoryLimit = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TOKEN_ADVISORY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.TokenAdvisory = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DICTIONARY"); ok && v != "" {
		c.DictionaryPath = v
	}
}

// normalize clamps out-of-range values back to defaults.
func (c *Config) normalize() {
	if c.TriggerPrefix == "" {
		c.TriggerPrefix = DefaultTriggerPrefix
	}
	if c.DebounceMS <= 0 {
		c.DebounceMS = DefaultDebounceMS
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.TokenAdvisory <= 0 {
		c.TokenAdvisory = DefaultTokenAdvisory
	}
}

// Prefix returns the trigger prefix as a rune.
func (c Config) Prefix() rune {
	for _, r := range c.TriggerPrefix {
		return r
	}
	return ':'
}

// Debounce returns the scan debounce delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
