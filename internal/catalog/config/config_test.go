package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout())
	}
	if cfg.DataDir == "" {
		t.Fatalf("expected a data dir default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("base_url: https://shelf.example.com/api/\ntimeout_seconds: 30\ndata_dir: /tmp/shelf\nrate:\n  rps: 5\n  burst: 2\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "https://shelf.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout %d", cfg.TimeoutSeconds)
	}
	if cfg.Rate.RPS != 5 || cfg.Rate.Burst != 2 {
		t.Fatalf("unexpected rate %+v", cfg.Rate)
	}
	if got := cfg.TokenFile(); got != filepath.Join("/tmp/shelf", "session-token") {
		t.Fatalf("unexpected token file %q", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("base_url: https://file.example.com\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvBaseURL, "https://env.example.com")
	t.Setenv(EnvDataDir, "/tmp/env-shelf")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Fatalf("expected env override, got %q", cfg.BaseURL)
	}
	if cfg.DataDir != "/tmp/env-shelf" {
		t.Fatalf("expected env data dir, got %q", cfg.DataDir)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
