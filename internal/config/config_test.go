package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `
env: prod
storage_path: /var/lib/friends/friends.db
admin_token: hunter2
http_server:
  port: 9090
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg := MustLoad()

	if cfg.Env != "prod" {
		t.Errorf("Env = %q, want prod", cfg.Env)
	}
	if cfg.StoragePath != "/var/lib/friends/friends.db" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if cfg.AdminToken != "hunter2" {
		t.Errorf("AdminToken = %q, want hunter2", cfg.AdminToken)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr() = %q, want :9090", cfg.Addr())
	}
}

func TestMustLoad_DefaultsApply(t *testing.T) {
	// A minimal file: everything not mentioned falls back to defaults.
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("env: dev\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg := MustLoad()

	if cfg.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Port)
	}
	if cfg.StoragePath != "friends.db" {
		t.Errorf("default StoragePath = %q, want friends.db", cfg.StoragePath)
	}
	if cfg.StaticDir != "./web/static" {
		t.Errorf("default StaticDir = %q, want ./web/static", cfg.StaticDir)
	}
	if cfg.AdminToken != "" {
		t.Errorf("default AdminToken = %q, want empty", cfg.AdminToken)
	}
}

func TestMustLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("http_server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "3000")

	cfg := MustLoad()

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want env override 3000", cfg.Port)
	}
}
