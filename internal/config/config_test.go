package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithNoProjectFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.SearchPaths) == 0 {
		t.Error("expected at least one default search path")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadMissingProjectFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error for a missing project file: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected defaults to still apply, got log level %q", cfg.LogLevel)
	}
}

func TestLoadProjectFileSetsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsxform.yaml")
	yamlBody := "search_paths:\n  - lib\nlog_level: debug\ncache_path: /tmp/cache.db\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("failed writing project file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "lib" {
		t.Errorf("expected search paths from project file, got %v", cfg.SearchPaths)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug from project file, got %q", cfg.LogLevel)
	}
	if cfg.CachePath != "/tmp/cache.db" {
		t.Errorf("expected cache path override from project file, got %q", cfg.CachePath)
	}
}

func TestEnvOverridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsxform.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("failed writing project file: %v", err)
	}

	t.Setenv("JSXFORM_LOG_LEVEL", "error")
	t.Setenv("JSXFORM_CACHE_PATH", "/tmp/override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected env to win over project file, got %q", cfg.LogLevel)
	}
	if cfg.CachePath != "/tmp/override.db" {
		t.Errorf("expected env cache path override, got %q", cfg.CachePath)
	}
}

func TestApplyEnvRootPrependsAndSearchPathAppends(t *testing.T) {
	cfg := &Config{SearchPaths: []string{"."}}
	t.Setenv("JSXFORM_ROOT", "/project/root")
	t.Setenv("JSXFORM_SEARCH_PATH", "/a"+string(os.PathListSeparator)+"/b")

	applyEnv(cfg)

	if cfg.SearchPaths[0] != "/project/root" {
		t.Errorf("expected JSXFORM_ROOT to be prepended, got %v", cfg.SearchPaths)
	}
	if cfg.SearchPaths[len(cfg.SearchPaths)-1] != "/b" || cfg.SearchPaths[len(cfg.SearchPaths)-2] != "/a" {
		t.Errorf("expected JSXFORM_SEARCH_PATH entries appended in order, got %v", cfg.SearchPaths)
	}
}

func TestApplyProjectFileRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("search_paths: [not, closed\n"), 0o644); err != nil {
		t.Fatalf("failed writing project file: %v", err)
	}
	cfg := &Config{}
	if err := applyProjectFile(cfg, path); err == nil {
		t.Error("expected an error parsing malformed project yaml")
	}
}
