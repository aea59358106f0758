package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvEditor   = "NIN_EDITOR"
	EnvLogLevel = "NIN_LOG_LEVEL"
	EnvNoColor  = "NIN_NO_COLOR"
)

// CliFlags holds command-line values. A nil pointer means the flag was not
// given, so lower-priority sources keep their value.
type CliFlags struct {
	Editor           *string
	BuildDir         *string
	CacheDir         *string
	Skip             *int
	WarningsAsErrors *bool
	NoColor          *bool
	Debug            bool
}

// Resolve loads the config file and applies environment and CLI overrides in
// priority order: CLI > env > file > defaults.
func Resolve(flags CliFlags) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.ApplyFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEditor)); v != "" {
		c.Editor = v
		c.setSource("editor", "env")
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
		c.setSource("log_level", "env")
	}
	if noColor := getEnvBool(EnvNoColor, "NO_COLOR"); noColor != nil {
		c.NoColor = *noColor
		c.setSource("no_color", "env")
	}
}

// ApplyFlags overlays the flags that were given.
func (c *Config) ApplyFlags(f CliFlags) {
	if f.Editor != nil {
		c.Editor = *f.Editor
		c.setSource("editor", "cli")
	}
	if f.BuildDir != nil {
		c.BuildDir = *f.BuildDir
		c.setSource("build_dir", "cli")
	}
	if f.CacheDir != nil {
		c.CacheDir = *f.CacheDir
		c.setSource("cache_dir", "cli")
	}
	if f.Skip != nil {
		c.Skip = *f.Skip
		c.setSource("skip", "cli")
	}
	if f.WarningsAsErrors != nil {
		c.WarningsAsErrors = *f.WarningsAsErrors
		c.setSource("warnings_as_errors", "cli")
	}
	if f.NoColor != nil {
		c.NoColor = *f.NoColor
		c.setSource("no_color", "cli")
	}
	if f.Debug {
		c.Debug = true
		c.LogLevel = "debug"
		c.setSource("log_level", "cli")
	}
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.Skip < 0 {
		return fmt.Errorf("%w: skip must not be negative, got %d", ErrInvalidConfig, c.Skip)
	}
	if strings.TrimSpace(c.Editor) == "" {
		return fmt.Errorf("%w: editor must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Ninja) == "" || strings.TrimSpace(c.CBuild) == "" {
		return fmt.Errorf("%w: build tool executables must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.BuildDir) == "" {
		return fmt.Errorf("%w: build_dir must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set. A value that is not a boolean counts as true,
// following the NO_COLOR convention.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				b = true
			}
			return &b
		}
	}
	return nil
}
