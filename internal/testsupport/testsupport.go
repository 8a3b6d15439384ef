// Package testsupport provides shared helpers for package tests: per-test
// configuration, journal stores, and filesystem fixtures.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ordenar/internal/config"
	"ordenar/internal/journal"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// MustOpenJournal opens the journal store for the test config and closes it
// on cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		t.Fatalf("open journal store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// WriteFile creates path (and its parents) with the given contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFileWithModTime creates path with the given contents and sets its
// modification time.
func WriteFileWithModTime(t testing.TB, path, contents string, modTime time.Time) {
	t.Helper()
	WriteFile(t, path, contents)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// Exists reports whether path exists.
func Exists(t testing.TB, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("stat %s: %v", path, err)
	return false
}
