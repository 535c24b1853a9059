package config

import (
	"testing"
	"time"

	"github.com/adamancini/skylift/internal/types"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected Format
	}{
		{"yaml extension", "skylift.yaml", "", FormatYAML},
		{"yml extension", "skylift.yml", "", FormatYAML},
		{"toml extension", "skylift.toml", "", FormatTOML},
		{"json extension", "skylift.json", "", FormatJSON},
		{"json content", "skylift", `{"endpoints": []}`, FormatJSON},
		{"yaml content", "skylift", `presenter: log`, FormatYAML},
		{"toml content", "skylift", `presenter = "log"`, FormatTOML},
		{"toml table", "skylift", "# comment\n[install]\nverify = true", FormatTOML},
		{"unknown content", "skylift", `just words`, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFormat(tt.path, []byte(tt.content))
			if got != tt.expected {
				t.Errorf("detectFormat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")
	t.Setenv("EMPTY_VAR", "")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple var", "${TEST_VAR}", "test_value"},
		{"var with default", "${MISSING_VAR:-default_value}", "default_value"},
		{"existing var ignores default", "${TEST_VAR:-default_value}", "test_value"},
		{"empty var uses default", "${EMPTY_VAR:-default_value}", "default_value"},
		{"no var", "plain text", "plain text"},
		{"mixed content", "prefix ${TEST_VAR} suffix", "prefix test_value suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.input)))
			if got != tt.expected {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	content := `
endpoint: https://updates.example.com/{{target}}/{{current_version}}
endpoints:
  - https://mirror.example.com/latest.json
headers:
  Authorization: Bearer token
timeout: 10s
target: linux-aarch64
presenter: Terminal
install:
  verify: false
  keep_backups: 2
launch:
  command: /opt/app/bin/app --fullscreen
log:
  level: debug
  file: /var/log/skylift.log
`

	cfg, err := parse([]byte(content), FormatYAML)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("Endpoints count = %d, want 2", len(cfg.Endpoints))
	}
	if cfg.Endpoints[0] != "https://updates.example.com/{{target}}/{{current_version}}" {
		t.Errorf("Endpoints[0] = %s", cfg.Endpoints[0])
	}
	if cfg.Headers["Authorization"] != "Bearer token" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
	if cfg.Timeout.Std() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout.Std())
	}
	if cfg.Target != "linux-aarch64" {
		t.Errorf("Target = %s", cfg.Target)
	}
	if cfg.Presenter != types.PresenterTerminal {
		t.Errorf("Presenter = %s, want terminal", cfg.Presenter)
	}
	if cfg.Install.Verify {
		t.Error("Install.Verify = true, want false")
	}
	if cfg.Install.KeepBackups != 2 {
		t.Errorf("Install.KeepBackups = %d, want 2", cfg.Install.KeepBackups)
	}
	if len(cfg.Launch.Command) != 2 || cfg.Launch.Command[1] != "--fullscreen" {
		t.Errorf("Launch.Command = %v", cfg.Launch.Command)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/var/log/skylift.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse([]byte("endpoints: [https://updates.example.com/latest.json]"), FormatYAML)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if cfg.Timeout.Std() != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout.Std(), DefaultTimeout)
	}
	if cfg.Presenter != types.PresenterAuto {
		t.Errorf("Presenter = %s, want auto", cfg.Presenter)
	}
	if !cfg.Install.Verify {
		t.Error("Install.Verify should default to true")
	}
	if cfg.Install.KeepBackups != DefaultKeepBackups {
		t.Errorf("KeepBackups = %d, want %d", cfg.Install.KeepBackups, DefaultKeepBackups)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %s", cfg.Log.Level)
	}
	if cfg.Headers == nil {
		t.Error("Headers should be initialized")
	}
}

func TestParseTOML(t *testing.T) {
	content := `
endpoints = ["https://updates.example.com/latest.json"]
timeout = "1m"
presenter = "panel"

[headers]
X-Channel = "beta"

[install]
keep_backups = 0

[launch]
command = ["/opt/app/bin/app", "--profile", "work"]
`

	cfg, err := parse([]byte(content), FormatTOML)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if len(cfg.Endpoints) != 1 {
		t.Errorf("Endpoints count = %d, want 1", len(cfg.Endpoints))
	}
	if cfg.Timeout.Std() != time.Minute {
		t.Errorf("Timeout = %v, want 1m", cfg.Timeout.Std())
	}
	if cfg.Presenter != types.PresenterPanel {
		t.Errorf("Presenter = %s", cfg.Presenter)
	}
	if cfg.Headers["X-Channel"] != "beta" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
	if cfg.Install.KeepBackups != 0 {
		t.Errorf("KeepBackups = %d, want 0", cfg.Install.KeepBackups)
	}
	if len(cfg.Launch.Command) != 3 {
		t.Errorf("Launch.Command = %v", cfg.Launch.Command)
	}
}

func TestParseJSON(t *testing.T) {
	content := `{
  "endpoints": ["https://updates.example.com/latest.json"],
  "presenter": "none",
  "install": {"verify": true},
  "launch": {"command": ["app"]}
}`

	cfg, err := parse([]byte(content), FormatJSON)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if cfg.Presenter != types.PresenterNone {
		t.Errorf("Presenter = %s", cfg.Presenter)
	}
	if len(cfg.Launch.Command) != 1 || cfg.Launch.Command[0] != "app" {
		t.Errorf("Launch.Command = %v", cfg.Launch.Command)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"bad yaml", "endpoints: [", FormatYAML},
		{"bad toml", "endpoints = [", FormatTOML},
		{"bad json", "{", FormatJSON},
		{"bad duration", "timeout: soon", FormatYAML},
		{"bad command", "launch:\n  command: 42", FormatYAML},
		{"bad command entry", "launch:\n  command: [app, 1]", FormatYAML},
		{"unknown format", "x", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse([]byte(tt.content), tt.format); err == nil {
				t.Error("parse() expected error")
			}
		})
	}
}

func TestParseEnvVarExpansion(t *testing.T) {
	t.Setenv("UPDATE_TOKEN", "secret")

	content := `
endpoints:
  - ${UPDATE_HOST:-https://updates.example.com}/latest.json
headers:
  Authorization: Bearer ${UPDATE_TOKEN}
`

	cfg, err := parse([]byte(content), FormatYAML)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if cfg.Endpoints[0] != "https://updates.example.com/latest.json" {
		t.Errorf("Endpoints[0] = %s", cfg.Endpoints[0])
	}
	if cfg.Headers["Authorization"] != "Bearer secret" {
		t.Errorf("Authorization = %s", cfg.Headers["Authorization"])
	}
}
