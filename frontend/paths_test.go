package frontend

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePathsPlainDirectory(t *testing.T) {
	dir := t.TempDir()

	resolved, err := ResolvePaths([]string{dir})
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("got %d paths, want 1", len(resolved))
	}
	if resolved[0] != dir {
		t.Errorf("got %s, want %s", resolved[0], dir)
	}
}

func TestResolvePathsGlob(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"core", "util"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// A file must not match
	if err := os.WriteFile(filepath.Join(dir, "stray.cpp"), []byte("int x;"), 0644); err != nil {
		t.Fatal(err)
	}

	resolved, err := ResolvePaths([]string{filepath.Join(dir, "*")})
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if len(resolved) != 2 {
		t.Errorf("got %d directories, want 2: %v", len(resolved), resolved)
	}
}

func TestResolvePathsRecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	resolved, err := ResolvePaths([]string{filepath.Join(dir, "**")})
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}

	found := false
	for _, p := range resolved {
		if p == nested {
			found = true
		}
	}
	if !found {
		t.Errorf("recursive glob missed %s: %v", nested, resolved)
	}
}

func TestResolvePathsDeduplicates(t *testing.T) {
	dir := t.TempDir()

	resolved, err := ResolvePaths([]string{dir, dir})
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Errorf("duplicate pattern produced %d entries", len(resolved))
	}
}

func TestResolvePathsNoMatch(t *testing.T) {
	if _, err := ResolvePaths([]string{filepath.Join(t.TempDir(), "missing", "*")}); err == nil {
		t.Error("expected an error for a pattern with no matches")
	}
}

func TestResolvePathsFileIsError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.cpp")
	if err := os.WriteFile(file, []byte("int x;"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ResolvePaths([]string{file}); err == nil {
		t.Error("expected an error when a plain pattern names a file")
	}
}
