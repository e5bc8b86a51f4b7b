// Package testutil provides utilities for golden file testing. Golden
// data here is almost always a target.Program (or a slice of target
// nodes) produced by internal/translate — this package round-trips it
// through JSON for the on-disk golden format and uses go-cmp for
// human-readable diffs when a comparison fails, replacing the
// teacher's eval-trace-shaped golden tests with target-AST-shaped ones.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/jsxform/internal/target"
)

// UpdateGoldens controls whether to update golden files
// Set via environment variable: UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenMeta captures platform information for reproducibility
type GoldenMeta struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GoldenFile represents a golden test file with metadata
type GoldenFile struct {
	Meta GoldenMeta  `json:"meta"`
	Data interface{} `json:"data"`
}

// GetGoldenPath returns the path to a golden file
func GetGoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// marshalDeterministic marshals with sorted keys
func marshalDeterministic(v interface{}) ([]byte, error) {
	// First marshal to get a map
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	// Unmarshal to generic interface
	var m interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	// Re-marshal with indentation for readability
	return json.MarshalIndent(m, "", "  ")
}

// AssertProgramGolden compares a translated Program against a golden
// file, decoding the stored JSON and the actual Program alike into
// generic JSON values so a mismatch is reported as a go-cmp diff of
// that tree rather than a raw JSON text diff.
func AssertProgramGolden(t *testing.T, feature, name string, actual *target.Program) {
	t.Helper()

	goldenPath := GetGoldenPath(feature, name)
	actualJSON, err := marshalDeterministic(GoldenFile{
		Meta: GoldenMeta{GoVersion: runtime.Version(), OS: runtime.GOOS, Arch: runtime.GOARCH},
		Data: actual,
	})
	if err != nil {
		t.Fatalf("failed to marshal program: %v", err)
	}

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, actualJSON, 0644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expectedJSON, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nRun with UPDATE_GOLDENS=true to create", goldenPath)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	var golden GoldenFile
	if err := json.Unmarshal(expectedJSON, &golden); err != nil {
		t.Fatalf("failed to unmarshal golden file: %v", err)
	}

	// target.Node is a plain Go interface (no tagged-union decoder, per
	// DESIGN.md's justification for keeping the target AST as plain
	// structs) so the golden side can only be recovered generically, as
	// map[string]interface{}; decode both sides that way and let go-cmp
	// report which field first diverges.
	var expected, gotGeneric interface{}
	if err := json.Unmarshal(mustMarshal(t, golden.Data), &expected); err != nil {
		t.Fatalf("failed to decode golden program: %v", err)
	}
	if err := json.Unmarshal(mustMarshal(t, actual), &gotGeneric); err != nil {
		t.Fatalf("failed to decode actual program: %v", err)
	}

	if diff := cmp.Diff(expected, gotGeneric); diff != "" {
		t.Errorf("golden program mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return data
}
