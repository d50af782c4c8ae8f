package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SKVS_ADDR", "")
	t.Setenv("SKVS_STORE", "")
	t.Setenv("SKVS_BACKEND", "")
	t.Setenv("SKVS_LOG_LEVEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "localhost:8000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.StorePath != "store.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "skvs.yaml")
	doc := `addr: "0.0.0.0:4000"
store_path: /var/lib/skvs/store.db
backend: sqlite
log_level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "0.0.0.0:4000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.StorePath != "/var/lib/skvs/store.db" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKVS_STORE", "/tmp/override.json")
	t.Setenv("SKVS_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "skvs.yaml")
	doc := `store_path: from-file.json
log_level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorePath != "/tmp/override.json" {
		t.Errorf("StorePath = %q, want env override", cfg.StorePath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override", cfg.LogLevel)
	}
	// Unset values still come from defaults.
	if cfg.Addr != "localhost:8000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKVS_BACKEND", "etcd")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
