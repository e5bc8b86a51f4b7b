// Package config loads jsxform's runtime configuration: module search
// paths, cache location, and logging level, from environment variables,
// a `.env` file, and an optional `jsxform.yaml` project file, in that
// precedence order (env wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved configuration for one compiler invocation.
type Config struct {
	// SearchPaths is an ordered list of module source directories. It is
	// loaded and overridden like the other fields, but nothing outside
	// this package reads it: import resolution does not search it.
	SearchPaths []string `yaml:"search_paths"`

	// RuntimePath is a Kernel/SpecialForms runtime directory. It is
	// loaded and overridden like the other fields, but nothing outside
	// this package reads it: emitted imports do not refer to it.
	RuntimePath string `yaml:"runtime_path"`

	// OutDir is the root the compile command hands to the Module
	// Registry and the root Environment. Output is not written under
	// it; the compile command writes to --out or stdout.
	OutDir string `yaml:"out_dir"`

	// CachePath is the sqlite file backing internal/cache (spec §12).
	CachePath string `yaml:"cache_path"`

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

const (
	envRoot       = "JSXFORM_ROOT"
	envSearchPath = "JSXFORM_SEARCH_PATH"
	envRuntime    = "JSXFORM_RUNTIME_PATH"
	envCache      = "JSXFORM_CACHE_PATH"
	envLogLevel   = "JSXFORM_LOG_LEVEL"
)

// Load builds a Config by reading `.env` (if present, loaded into the
// process environment without overriding anything already set), then
// projectFile (if non-empty and present) for defaults, then applying
// JSXFORM_* environment variables over those defaults — mirroring the
// teacher module loader's AILANG_PATH/AILANG_STDLIB override style,
// generalized to a full project file instead of two bare env vars.
func Load(projectFile string) (*Config, error) {
	_ = godotenv.Load() // no .env is not an error

	cfg := &Config{
		SearchPaths: getDefaultSearchPaths(),
		RuntimePath: getDefaultRuntimePath(),
		OutDir:      ".",
		CachePath:   getDefaultCachePath(),
		LogLevel:    "info",
	}

	if projectFile != "" {
		if err := applyProjectFile(cfg, projectFile); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyProjectFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if root := os.Getenv(envRoot); root != "" {
		cfg.SearchPaths = append([]string{root}, cfg.SearchPaths...)
	}
	if sp := os.Getenv(envSearchPath); sp != "" {
		cfg.SearchPaths = append(cfg.SearchPaths, strings.Split(sp, string(os.PathListSeparator))...)
	}
	if rt := os.Getenv(envRuntime); rt != "" {
		cfg.RuntimePath = rt
	}
	if c := os.Getenv(envCache); c != "" {
		cfg.CachePath = c
	}
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
}

// getDefaultSearchPaths mirrors the teacher's getDefaultSearchPaths:
// current directory first, then a per-user modules directory
// (JSXFORM_ROOT, if set, is prepended later by applyEnv).
func getDefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".jsxform", "modules"))
	}
	return paths
}

// getDefaultRuntimePath mirrors the teacher's getStdlibPath: an
// executable-relative fallback when no override is set.
func getDefaultRuntimePath() string {
	if exe, err := os.Executable(); err == nil {
		runtime := filepath.Join(filepath.Dir(exe), "..", "runtime")
		if info, err := os.Stat(runtime); err == nil && info.IsDir() {
			return runtime
		}
	}
	return filepath.Join(".", "runtime")
}

func getDefaultCachePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".jsxform", "cache.db")
	}
	return filepath.Join(".", "jsxform-cache.db")
}
