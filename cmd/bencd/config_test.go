package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
id = "bencd.local"
listen = "127.0.0.1:9090"
scripts_dir = "./app"
cors_origins = ["http://localhost:3000", " ", "https://ui.local"]
max_depth = 64
read_timeout = "5s"
`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ID != "bencd.local" {
		t.Fatalf("unexpected id: %q", cfg.ID)
	}
	if cfg.Listen != "127.0.0.1:9090" {
		t.Fatalf("unexpected listen: %q", cfg.Listen)
	}
	if cfg.ScriptsDir != "./app" {
		t.Fatalf("unexpected scripts dir: %q", cfg.ScriptsDir)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://ui.local" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CORSOrigins)
	}
	if cfg.MaxDepth != 64 {
		t.Fatalf("unexpected max depth: %d", cfg.MaxDepth)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected read timeout: %v", cfg.ReadTimeout)
	}
}

func TestLoadServiceConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
scripts_dir = "/srv/scripts"
`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ID != "bencd" {
		t.Fatalf("unexpected id: %q", cfg.ID)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Fatalf("unexpected listen: %q", cfg.Listen)
	}
	if cfg.ScriptsDir != "/srv/scripts" {
		t.Fatalf("unexpected scripts dir: %q", cfg.ScriptsDir)
	}
	if cfg.MaxDepth != 0 {
		t.Fatalf("unexpected max depth: %d", cfg.MaxDepth)
	}
}

func TestLoadServiceConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := loadServiceConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ID != "bencd" || cfg.Listen != "127.0.0.1:8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadServiceConfigBadDuration(t *testing.T) {
	path := writeConfig(t, `
read_timeout = "abc"
`)

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadServiceConfigRejectsNegativeDepth(t *testing.T) {
	path := writeConfig(t, `
max_depth = -1
`)

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadServiceConfigRejectsEmptyListen(t *testing.T) {
	path := writeConfig(t, `
listen = "  "
`)

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
