package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/nin/internal/editor"
)

// EnvConfig names a config file explicitly.
const EnvConfig = "NIN_CONFIG"

// Config file names, in lookup order within a directory.
var fileNames = []string{".nin.yaml", ".nin.yml", ".nin.toml"}

// ErrInvalidConfig is returned when a config file cannot be parsed or holds
// values out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration shared by nin and cb.
type Config struct {
	Editor           string   `yaml:"editor" toml:"editor"`
	EditorArgs       []string `yaml:"editor_args" toml:"editor_args"`
	Ninja            string   `yaml:"ninja" toml:"ninja"`
	CBuild           string   `yaml:"cbuild" toml:"cbuild"`
	BuildDir         string   `yaml:"build_dir" toml:"build_dir"`
	CacheDir         string   `yaml:"cache_dir" toml:"cache_dir"`
	Skip             int      `yaml:"skip" toml:"skip"`
	WarningsAsErrors bool     `yaml:"warnings_as_errors" toml:"warnings_as_errors"`
	NoColor          bool     `yaml:"no_color" toml:"no_color"`
	LogLevel         string   `yaml:"log_level" toml:"log_level"`

	// Debug is only set from the command line.
	Debug bool `yaml:"-" toml:"-"`

	// Path is the config file that was loaded, empty when none was found.
	Path string `yaml:"-" toml:"-"`

	// Sources records where each overridden key came from: "file", "env" or "cli".
	Sources map[string]string `yaml:"-" toml:"-"`
}

// Defaults returns the hardcoded configuration.
func Defaults() *Config {
	return &Config{
		Editor:     editor.DefaultCommand(),
		EditorArgs: append([]string(nil), editor.DefaultGotoArgs...),
		Ninja:      "ninja",
		CBuild:     "cbuild",
		BuildDir:   "build",
		LogLevel:   "warn",
		Sources:    map[string]string{},
	}
}

// SourceOf returns where key was last set, "default" if nowhere.
func (c *Config) SourceOf(key string) string {
	if src, ok := c.Sources[key]; ok {
		return src
	}
	return "default"
}

func (c *Config) setSource(key, source string) {
	if c.Sources == nil {
		c.Sources = map[string]string{}
	}
	c.Sources[key] = source
}

// Load returns the defaults overlaid with the config file, if one is found.
// On a parse error the defaults are returned together with the error.
func Load() (*Config, error) {
	cfg := Defaults()
	path := getConfigPath()
	if path == "" {
		return cfg, nil
	}
	loaded, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	return loaded, nil
}

// LoadFile reads path over the defaults. The format follows the extension:
// .toml is TOML, anything else YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Defaults()
	var keys []string
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		keys, err = decodeTOML(data, cfg)
	} else {
		keys, err = decodeYAML(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	cfg.Path = path
	for _, k := range keys {
		cfg.setSource(k, "file")
	}
	return cfg, nil
}

// decodeYAML decodes over cfg, leaving absent keys at their defaults, and
// returns the top-level keys present.
func decodeYAML(data []byte, cfg *Config) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := doc.Decode(cfg); err != nil {
		return nil, err
	}

	var keys []string
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		mapping := doc.Content[0].Content
		for i := 0; i+1 < len(mapping); i += 2 {
			keys = append(keys, mapping[i].Value)
		}
	}
	return keys, nil
}

func decodeTOML(data []byte, cfg *Config) ([]string, error) {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", undecoded)
	}
	var keys []string
	for _, k := range md.Keys() {
		if len(k) == 1 {
			keys = append(keys, k[0])
		}
	}
	return keys, nil
}

// getConfigPath finds the config file. NIN_CONFIG wins, then the working
// directory, then the XDG user config dir.
func getConfigPath() string {
	if explicit := os.Getenv(EnvConfig); explicit != "" {
		return explicit
	}

	for _, name := range fileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	for _, name := range fileNames {
		xdgPath := filepath.Join(configHome, "nin", name)
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	return ""
}
