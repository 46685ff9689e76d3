package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Vision.Model != "gpt-4o" {
		t.Errorf("Vision.Model = %q, want gpt-4o", cfg.Vision.Model)
	}
	if cfg.Vision.Timeout != 60*time.Second {
		t.Errorf("Vision.Timeout = %v, want 60s", cfg.Vision.Timeout)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 9000\ndb:\n  path: from-file.db\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SNAPTAB_CONFIG_PATH", path)
	t.Setenv("SNAPTAB_DB_PATH", "from-env.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.DB.Path != "from-env.db" {
		t.Errorf("DB.Path = %q, want env to win over file", cfg.DB.Path)
	}
	if cfg.Vision.APIKey != "sk-test" {
		t.Errorf("Vision.APIKey = %q, want sk-test", cfg.Vision.APIKey)
	}
}

func TestLoadBadPort(t *testing.T) {
	t.Setenv("SNAPTAB_SERVER_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for bad port")
	}
}
