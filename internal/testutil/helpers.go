package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteInput writes a CSV fixture into a fresh temp dir and returns its path.
func WriteInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write input fixture: %v", err)
	}
	return path
}

// GoldenFile reads a golden file from testdata/ and returns its contents.
func GoldenFile(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}
	return data
}

// UpdateGoldenFile writes data to a golden file.
// Only used when UPDATE_GOLDEN=1 is set.
func UpdateGoldenFile(t *testing.T, name string, data []byte) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDEN") != "1" {
		return
	}
	path := filepath.Join("testdata", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create testdata dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden file %s: %v", path, err)
	}
	t.Logf("updated golden file: %s", path)
}

// AssertGolden compares data against a golden file.
// If UPDATE_GOLDEN=1, updates the golden file instead.
func AssertGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") == "1" {
		UpdateGoldenFile(t, name, got)
		return
	}

	want := GoldenFile(t, name)
	if string(got) != string(want) {
		t.Errorf("golden file mismatch for %s:\n--- want ---\n%s\n--- got ---\n%s",
			name, string(want), string(got))
	}
}
