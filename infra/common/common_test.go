package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSourceHashIgnoresSkippedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	before, err := SourceHash(root)
	if err != nil {
		t.Fatalf("SourceHash: %v", err)
	}
	if len(before) != 12 {
		t.Fatalf("hash length = %d, want 12", len(before))
	}

	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main")
	writeFile(t, filepath.Join(root, "infra", "main.go"), "package main")

	after, err := SourceHash(root)
	if err != nil {
		t.Fatalf("SourceHash: %v", err)
	}
	if before != after {
		t.Fatalf("hash changed after writing to skipped dirs: %s != %s", before, after)
	}
}

func TestSourceHashTracksContentAndNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a")
	first, err := SourceHash(root)
	if err != nil {
		t.Fatalf("SourceHash: %v", err)
	}

	writeFile(t, filepath.Join(root, "a.go"), "package a // edited")
	edited, _ := SourceHash(root)
	if edited == first {
		t.Fatalf("hash did not change after edit")
	}

	if err := os.Rename(filepath.Join(root, "a.go"), filepath.Join(root, "b.go")); err != nil {
		t.Fatalf("rename: %v", err)
	}
	renamed, _ := SourceHash(root)
	if renamed == edited {
		t.Fatalf("hash did not change after rename")
	}
}
