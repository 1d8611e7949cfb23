package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "tasklist.db" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.UI.Locale != "en" || cfg.Log.Level != "info" || cfg.Log.Format != LogFormatText {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKLIST_STORAGE_DRIVER", "FILE")
	t.Setenv("TASKLIST_STORAGE_PATH", "state/tasks.json")
	t.Setenv("TASKLIST_LOCALE", "de")
	t.Setenv("TASKLIST_LOG_LEVEL", "DEBUG")
	t.Setenv("TASKLIST_LOG_FORMAT", "json")
	t.Setenv("TASKLIST_LOG_FILE", "logs/tasklist.log")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "state/tasks.json" {
		t.Fatalf("unexpected storage overrides: %+v", cfg.Storage)
	}
	if cfg.UI.Locale != "de" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" || cfg.Log.Path != "logs/tasklist.log" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKLIST_TEST_DIR", dir)
	path := filepath.Join(dir, "tasklist.yaml")
	body := "storage:\n  driver: file\n  path: ${TASKLIST_TEST_DIR}/tasks.json\nui:\n  locale: sv\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != filepath.Join(dir, "tasks.json") {
		t.Fatalf("unexpected storage: %+v", cfg.Storage)
	}
	if cfg.UI.Locale != "sv" || cfg.Log.Level != "info" {
		t.Fatalf("file values should merge over defaults: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklist.toml")
	body := "[storage]\ndriver = \"memory\"\n\n[log]\nlevel = \"warn\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "memory" || cfg.Log.Level != "warn" {
		t.Fatalf("unexpected toml config: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := Load(missing, false); err != nil {
		t.Fatalf("optional missing file should fall back to defaults: %v", err)
	}
	if _, err := Load(missing, true); err == nil {
		t.Fatal("required missing file should fail")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RuntimeConfig)
		want   string
	}{
		{"driver", func(c *RuntimeConfig) { c.Storage.Driver = "redis" }, "storage"},
		{"path", func(c *RuntimeConfig) { c.Storage.Path = "" }, "storage"},
		{"locale", func(c *RuntimeConfig) { c.UI.Locale = "!!" }, "ui"},
		{"level", func(c *RuntimeConfig) { c.Log.Level = "loud" }, "log"},
		{"format", func(c *RuntimeConfig) { c.Log.Format = "xml" }, "log"},
	}
	for _, tc := range cases {
		cfg := DefaultRuntimeConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.HasPrefix(err.Error(), tc.want) {
			t.Fatalf("%s: expected %s error, got %v", tc.name, tc.want, err)
		}
	}

	cfg := DefaultRuntimeConfig()
	cfg.Storage.Driver = "memory"
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory driver needs no path: %v", err)
	}
}
