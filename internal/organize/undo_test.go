package organize_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ordenar/internal/organize"
	"ordenar/internal/testsupport"
)

func TestUndoWithEmptyJournalIsDistinct(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	engine := newEngine(t, store, organize.Hooks{})
	_, err := engine.Undo(context.Background())
	if !errors.Is(err, organize.ErrNothingToUndo) {
		t.Fatalf("Undo error = %v, want ErrNothingToUndo", err)
	}
}

func TestOrganizeThenUndoRoundTrips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()

	mod := time.Date(2024, time.March, 3, 8, 0, 0, 0, time.Local)
	original := filepath.Join(root, "report.xlsx")
	testsupport.WriteFileWithModTime(t, original, "cells", mod)

	engine := newEngine(t, store, organize.Hooks{})
	if _, err := engine.Run(context.Background(), organize.Options{Root: root}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	movedTo := filepath.Join(root, "Excel", "2024", "March", "report.xlsx")
	if !testsupport.Exists(t, movedTo) {
		t.Fatalf("expected %s after organize", movedTo)
	}

	result, err := engine.Undo(context.Background())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if result.Restored != 1 || result.Errors != 0 {
		t.Errorf("result = %+v", result)
	}
	if !testsupport.Exists(t, original) {
		t.Error("report.xlsx not restored to the root")
	}
	if testsupport.Exists(t, movedTo) {
		t.Error("organized copy still present after undo")
	}

	// The journal is consumed.
	batch, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if batch != nil {
		t.Fatalf("journal not cleared: %+v", batch)
	}

	// A second undo has nothing to replay.
	if _, err := engine.Undo(context.Background()); !errors.Is(err, organize.ErrNothingToUndo) {
		t.Fatalf("second Undo error = %v, want ErrNothingToUndo", err)
	}
}

func TestUndoAvoidsCollisionAtOriginalLocation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()

	original := filepath.Join(root, "nota.txt")
	testsupport.WriteFile(t, original, "mine")

	engine := newEngine(t, store, organize.Hooks{})
	if _, err := engine.Run(context.Background(), organize.Options{Root: root}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// An unrelated file takes the original spot before the undo.
	testsupport.WriteFile(t, original, "intruder")

	result, err := engine.Undo(context.Background())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if result.Restored != 1 {
		t.Fatalf("result = %+v", result)
	}

	data, err := os.ReadFile(original)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	if string(data) != "intruder" {
		t.Errorf("unrelated file overwritten: %q", data)
	}
	restored := filepath.Join(root, "nota (1).txt")
	if !testsupport.Exists(t, restored) {
		t.Errorf("expected restored file at %s", restored)
	}
}

func TestUndoRecreatesRemovedParent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()

	original := filepath.Join(root, "proyectos", "plan.pdf")
	testsupport.WriteFile(t, original, "pages")

	engine := newEngine(t, store, organize.Hooks{})
	if _, err := engine.Run(context.Background(), organize.Options{Root: root, Recursive: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(root, "proyectos")); err != nil {
		t.Fatalf("remove parent: %v", err)
	}

	result, err := engine.Undo(context.Background())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if result.Restored != 1 || result.Errors != 0 {
		t.Fatalf("result = %+v", result)
	}
	if !testsupport.Exists(t, original) {
		t.Error("plan.pdf not restored into recreated parent")
	}
}

func TestUndoCountsFailuresAndStillClears(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()

	testsupport.WriteFile(t, filepath.Join(root, "a.txt"), "1")
	testsupport.WriteFile(t, filepath.Join(root, "b.txt"), "2")

	engine := newEngine(t, store, organize.Hooks{})
	if _, err := engine.Run(context.Background(), organize.Options{Root: root}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Sabotage one recorded move: the file at its new path disappears.
	if err := os.Remove(filepath.Join(root, "Texto", "a.txt")); err != nil {
		t.Fatalf("remove moved file: %v", err)
	}

	result, err := engine.Undo(context.Background())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if result.Errors != 1 || result.Restored != 1 {
		t.Fatalf("result = %+v", result)
	}
	if !testsupport.Exists(t, filepath.Join(root, "b.txt")) {
		t.Error("b.txt not restored despite earlier failure")
	}

	// Even a partial undo consumes the journal.
	batch, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if batch != nil {
		t.Fatalf("journal not cleared after partial undo: %+v", batch)
	}
}

// Regression-style coverage for the journal batch ordering contract: undo
// replays records in insertion order.
func TestUndoReplaysInRecordedOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()

	testsupport.WriteFile(t, filepath.Join(root, "a.txt"), "1")
	testsupport.WriteFile(t, filepath.Join(root, "b.txt"), "2")
	testsupport.WriteFile(t, filepath.Join(root, "c.txt"), "3")

	engine := newEngine(t, store, organize.Hooks{})
	if _, err := engine.Run(context.Background(), organize.Options{Root: root}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	batch, err := store.Load(context.Background())
	if err != nil || batch == nil {
		t.Fatalf("Load: %v (%+v)", err, batch)
	}

	var restored []string
	hooks := organize.Hooks{Log: func(line string) { restored = append(restored, line) }}
	undoEngine := newEngine(t, store, hooks)
	if _, err := undoEngine.Undo(context.Background()); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(restored) != len(batch.Moves) {
		t.Fatalf("log lines = %v", restored)
	}
	for i, move := range batch.Moves {
		base := filepath.Base(move.NewPath)
		if !strings.Contains(restored[i], base) {
			t.Errorf("line %d = %q, want mention of %s", i, restored[i], base)
		}
	}
}
