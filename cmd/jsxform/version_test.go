package main

import "testing"

func TestResolvedVersionFallsBackWhenUnset(t *testing.T) {
	old := Version
	Version = ""
	defer func() { Version = old }()

	if v := resolvedVersion(); v == "" {
		t.Error("expected a non-empty fallback version")
	}
}

func TestResolvedVersionPrefersExplicitBuildVersion(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if v := resolvedVersion(); v != "v1.2.3" {
		t.Errorf("expected the explicit build version to win, got %q", v)
	}
}
