// Package config handles skylift configuration parsing and location resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adamancini/skylift/internal/types"
)

// Environment variables consulted while loading.
const (
	EnvConfig   = "SKYLIFT_CONFIG"
	EnvEndpoint = "SKYLIFT_ENDPOINT"
)

// Defaults applied to fields the file leaves unset.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultKeepBackups = 5
	DefaultLogLevel    = "info"
)

// ErrNotFound is returned by Find when no config file exists in the
// standard locations.
var ErrNotFound = errors.New("no skylift config found in standard locations")

// Config is the resolved skylift configuration.
type Config struct {
	// Endpoints are tried in order until one answers.
	Endpoints []string          `yaml:"endpoints" toml:"endpoints" json:"endpoints"`
	Headers   map[string]string `yaml:"headers,omitempty" toml:"headers,omitempty" json:"headers,omitempty"`
	Timeout   Duration          `yaml:"timeout" toml:"timeout" json:"timeout"`
	// Target overrides the detected platform key, e.g. "linux-x86_64".
	Target    string              `yaml:"target,omitempty" toml:"target,omitempty" json:"target,omitempty"`
	Presenter types.PresenterKind `yaml:"presenter" toml:"presenter" json:"presenter"`
	Install   InstallConfig       `yaml:"install" toml:"install" json:"install"`
	Launch    LaunchConfig        `yaml:"launch" toml:"launch" json:"launch"`
	Log       LogConfig           `yaml:"log" toml:"log" json:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-" toml:"-" json:"-"`
}

// InstallConfig controls how downloaded releases are applied.
type InstallConfig struct {
	// Verify runs the new binary with --version and rolls back on failure.
	Verify      bool `yaml:"verify" toml:"verify" json:"verify"`
	KeepBackups int  `yaml:"keep_backups" toml:"keep_backups" json:"keep_backups"`
}

// LaunchConfig describes the application started after the startup check.
type LaunchConfig struct {
	Command []string `yaml:"command,omitempty" toml:"command,omitempty" json:"command,omitempty"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string `yaml:"level" toml:"level" json:"level"`
	// File is a path for rotated log output; empty or "console" is stderr.
	File string `yaml:"file,omitempty" toml:"file,omitempty" json:"file,omitempty"`
}

// Duration is a time.Duration that reads and writes strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Headers:   map[string]string{},
		Timeout:   Duration(DefaultTimeout),
		Presenter: types.PresenterAuto,
		Install: InstallConfig{
			Verify:      true,
			KeepBackups: DefaultKeepBackups,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Find searches for a config file in the standard locations.
// Returns the path to the first file found, or ErrNotFound.
func Find(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("specified config not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, dir := range searchDirs() {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", ErrNotFound
}

var fileNames = []string{
	"skylift.yaml",
	"skylift.yml",
	"skylift.toml",
	"skylift.json",
	".skylift.yaml",
	".skylift.yml",
	".skylift.toml",
	".skylift.json",
}

func searchDirs() []string {
	var dirs []string

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	home, err := os.UserHomeDir()
	if xdgConfig == "" && err == nil {
		xdgConfig = filepath.Join(home, ".config")
	}
	if xdgConfig != "" {
		dirs = append(dirs, filepath.Join(xdgConfig, "skylift"))
	}
	if err == nil {
		dirs = append(dirs, filepath.Join(home, ".skylift"), home)
	}
	return dirs
}

// Load reads, parses and validates the config file at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	format := detectFormat(path, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", path)
	}

	cfg, err := parse(content, format)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.applyEnv()

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse reads a config of any supported format from content and validates
// it. Nothing is read from the environment besides ${VAR} expansion.
func Parse(content []byte) (*Config, error) {
	format := sniffFormat(content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect config format")
	}

	cfg, err := parse(content, format)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads the config named by explicitPath or found by Find, and
// falls back to Default when nothing is found and no path was given.
func Resolve(explicitPath string) (*Config, error) {
	path, err := Find(explicitPath)
	if errors.Is(err, ErrNotFound) {
		cfg := Default()
		cfg.applyEnv()
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if len(c.Endpoints) == 0 {
		if ep := strings.TrimSpace(os.Getenv(EnvEndpoint)); ep != "" {
			c.Endpoints = []string{ep}
		}
	}
}
