package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// isolate points every config location at fresh temp directories
func isolate(t *testing.T) (home, xdg string) {
	t.Helper()
	home = t.TempDir()
	xdg = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvEndpoint, "")
	return home, xdg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFind_Precedence(t *testing.T) {
	home, xdg := isolate(t)

	homeRoot := filepath.Join(home, ".skylift.yaml")
	dotDir := filepath.Join(home, ".skylift", "skylift.toml")
	xdgFile := filepath.Join(xdg, "skylift", "skylift.json")

	writeFile(t, homeRoot, "presenter: log")
	got, err := Find("")
	if err != nil || got != homeRoot {
		t.Fatalf("Find() = %v, %v; want %v", got, err, homeRoot)
	}

	writeFile(t, dotDir, `presenter = "log"`)
	if got, _ := Find(""); got != dotDir {
		t.Errorf("Find() = %v, want %v", got, dotDir)
	}

	writeFile(t, xdgFile, `{"presenter": "log"}`)
	if got, _ := Find(""); got != xdgFile {
		t.Errorf("Find() = %v, want %v", got, xdgFile)
	}

	envFile := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, envFile, "presenter: log")
	t.Setenv(EnvConfig, envFile)
	if got, _ := Find(""); got != envFile {
		t.Errorf("Find() = %v, want %v", got, envFile)
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yml")
	writeFile(t, explicit, "presenter: log")
	if got, _ := Find(explicit); got != explicit {
		t.Errorf("Find(explicit) = %v, want %v", got, explicit)
	}
}

func TestFind_NotFound(t *testing.T) {
	isolate(t)

	if _, err := Find(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
	if _, err := Find("/does/not/exist.yaml"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Find(explicit) error = %v, want a not-found error for the path", err)
	}
}

func TestLoad(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "skylift.yaml")
	writeFile(t, path, "endpoints: [https://updates.example.com/latest.json]\npresenter: log\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %s, want %s", cfg.Path, path)
	}
	if len(cfg.Endpoints) != 1 {
		t.Errorf("Endpoints = %v", cfg.Endpoints)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "skylift.yaml")
	writeFile(t, path, "presenter: popup\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() expected validation error")
	}
}

func TestLoad_EndpointFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvEndpoint, "https://env.example.com/latest.json")
	path := filepath.Join(t.TempDir(), "skylift.yaml")
	writeFile(t, path, "presenter: log\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Endpoints) != 1 || cfg.Endpoints[0] != "https://env.example.com/latest.json" {
		t.Errorf("Endpoints = %v", cfg.Endpoints)
	}
}

func TestResolve_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %s, want empty", cfg.Path)
	}
	if len(cfg.Endpoints) != 0 {
		t.Errorf("Endpoints = %v, want none", cfg.Endpoints)
	}
}

func TestResolve_ExplicitMissing(t *testing.T) {
	isolate(t)

	if _, err := Resolve("/does/not/exist.yaml"); err == nil {
		t.Error("Resolve() expected error for missing explicit config")
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %s, want 1m30s", text)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"yaml", "endpoints:\n  - https://a.example.com/latest.json\n", false},
		{"toml", "endpoints = [\"https://a.example.com/latest.json\"]\n", false},
		{"json", `{"endpoints": ["https://a.example.com/latest.json"]}`, false},
		{"invalid presenter", "presenter: popup\n", true},
		{"unknown format", "just words", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content))
			if tt.wantErr {
				if err == nil {
					t.Error("Parse() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.Path != "" {
				t.Errorf("Path = %q, want empty", cfg.Path)
			}
		})
	}
}
