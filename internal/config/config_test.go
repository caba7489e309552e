package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DraftDelay != 500*time.Millisecond {
		t.Errorf("expected draft delay 500ms, got %v", cfg.DraftDelay)
	}
	if cfg.ToastTTL != 5*time.Second {
		t.Errorf("expected toast ttl 5s, got %v", cfg.ToastTTL)
	}
	if cfg.WidgetIdle != 30*time.Minute {
		t.Errorf("expected widget idle 30m, got %v", cfg.WidgetIdle)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopmate.yml")
	yml := "port: \"9090\"\ndb_dsn: test.db\ntoast_ttl: 2s\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOPMATE_DB_DSN", ":memory:")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port: got %q, want 9090", cfg.Port)
	}
	if cfg.DBDSN != ":memory:" {
		t.Errorf("env should override file: got %q", cfg.DBDSN)
	}
	if cfg.ToastTTL != 2*time.Second {
		t.Errorf("toast_ttl: got %v", cfg.ToastTTL)
	}
	if cfg.BackendURL != "http://127.0.0.1:9090" {
		t.Errorf("backend url should follow port, got %q", cfg.BackendURL)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TemplatesDir != "./web/templates" {
		t.Errorf("templates dir: got %q", cfg.TemplatesDir)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero request timeout")
	}

	cfg = Default()
	cfg.WidgetIdle = -time.Minute
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative widget idle")
	}
}
