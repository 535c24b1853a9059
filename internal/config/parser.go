package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/adamancini/skylift/internal/types"
)

// Format represents the file format of a config file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	// Content sniffing for extensionless files
	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}

	// TOML uses key = value and [tables], YAML uses key: value. The first
	// significant line decides.
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") || strings.Contains(line, " = ") {
			return FormatTOML
		}
		if strings.Contains(line, ":") {
			return FormatYAML
		}
		break
	}

	return FormatUnknown
}

// rawConfig is an intermediate representation for parsing. It accepts a
// single endpoint next to the list and a launch command written as one
// string or as a list.
type rawConfig struct {
	Endpoint  string            `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
	Endpoints []string          `yaml:"endpoints" toml:"endpoints" json:"endpoints"`
	Headers   map[string]string `yaml:"headers" toml:"headers" json:"headers"`
	Timeout   *Duration         `yaml:"timeout" toml:"timeout" json:"timeout"`
	Target    string            `yaml:"target" toml:"target" json:"target"`
	Presenter string            `yaml:"presenter" toml:"presenter" json:"presenter"`
	Install   struct {
		Verify      *bool `yaml:"verify" toml:"verify" json:"verify"`
		KeepBackups *int  `yaml:"keep_backups" toml:"keep_backups" json:"keep_backups"`
	} `yaml:"install" toml:"install" json:"install"`
	Launch struct {
		Command interface{} `yaml:"command" toml:"command" json:"command"`
	} `yaml:"launch" toml:"launch" json:"launch"`
	Log struct {
		Level string `yaml:"level" toml:"level" json:"level"`
		File  string `yaml:"file" toml:"file" json:"file"`
	} `yaml:"log" toml:"log" json:"log"`
}

// parseCommand converts the flexible command format to an argv slice.
// Commands can be specified as:
//   - Simple string: "/opt/app/bin/app --flag" (split on whitespace)
//   - List: ["/opt/app/bin/app", "--flag"]
func parseCommand(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Fields(v), nil
	case []interface{}:
		argv := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("launch.command[%d]: expected string, got %T", i, item)
			}
			argv = append(argv, s)
		}
		return argv, nil
	default:
		return nil, fmt.Errorf("launch.command: invalid format (expected string or list)")
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns in content.
func expandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := os.Getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// parse parses the content according to the specified format and fills in
// defaults for anything left unset.
func parse(content []byte, format Format) (*Config, error) {
	content = expandEnvVars(content)

	var raw rawConfig

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown file format")
	}

	command, err := parseCommand(raw.Launch.Command)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if raw.Endpoint != "" {
		cfg.Endpoints = append(cfg.Endpoints, raw.Endpoint)
	}
	cfg.Endpoints = append(cfg.Endpoints, raw.Endpoints...)
	if raw.Headers != nil {
		cfg.Headers = raw.Headers
	}
	if raw.Timeout != nil {
		cfg.Timeout = *raw.Timeout
	}
	cfg.Target = raw.Target
	if raw.Presenter != "" {
		cfg.Presenter = types.PresenterKind(strings.ToLower(raw.Presenter))
	}
	if raw.Install.Verify != nil {
		cfg.Install.Verify = *raw.Install.Verify
	}
	if raw.Install.KeepBackups != nil {
		cfg.Install.KeepBackups = *raw.Install.KeepBackups
	}
	cfg.Launch.Command = command
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	cfg.Log.File = raw.Log.File

	return cfg, nil
}
