package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ordenar/internal/category"
	"ordenar/internal/scan"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func names(cands []scan.Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Name)
	}
	return out
}

func TestWalkRejectsInvalidRoot(t *testing.T) {
	scanner := scan.New(category.Default(), nil)

	err := scanner.Walk(filepath.Join(t.TempDir(), "missing"), false, func(scan.Candidate) error { return nil })
	if !errors.Is(err, scan.ErrInvalidRoot) {
		t.Fatalf("missing dir error = %v, want ErrInvalidRoot", err)
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, file)
	err = scanner.Walk(file, false, func(scan.Candidate) error { return nil })
	if !errors.Is(err, scan.ErrInvalidRoot) {
		t.Fatalf("file-as-root error = %v, want ErrInvalidRoot", err)
	}
}

func TestWalkSkipsOfficeLockFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "~$informe.docx"))
	writeFile(t, filepath.Join(root, "informe.docx"))

	scanner := scan.New(category.Default(), nil)
	cands, err := scanner.Collect(root, false)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(cands) != 1 || cands[0].Name != "informe.docx" {
		t.Fatalf("candidates = %v, want [informe.docx]", names(cands))
	}
}

func TestWalkExcludesDestinationFoldersAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "PDFs", "sub", "deep.pdf"))
	writeFile(t, filepath.Join(root, "Otros", "stray.bin"))
	writeFile(t, filepath.Join(root, "proyectos", "plan.pdf"))
	writeFile(t, filepath.Join(root, "nota.txt"))

	scanner := scan.New(category.Default(), nil)
	cands, err := scanner.Collect(root, true)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("candidates = %v, want plan.pdf and nota.txt", names(cands))
	}
	for _, c := range cands {
		if c.Name == "deep.pdf" || c.Name == "stray.bin" {
			t.Errorf("organized file %s should be excluded", c.Name)
		}
	}
}

func TestWalkNonRecursiveOnlyDirectChildren(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.txt"))
	writeFile(t, filepath.Join(root, "sub", "nested.txt"))

	scanner := scan.New(category.Default(), nil)
	cands, err := scanner.Collect(root, false)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(cands) != 1 || cands[0].Name != "top.txt" {
		t.Fatalf("candidates = %v, want [top.txt]", names(cands))
	}
}

func TestWalkAppliesUserExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"))
	writeFile(t, filepath.Join(root, "cache", "skip.tmp"))
	writeFile(t, filepath.Join(root, "skip.tmp"))

	scanner := scan.New(category.Default(), []string{"**/*.tmp", "*.tmp"})
	cands, err := scanner.Collect(root, true)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(cands) != 1 || cands[0].Name != "keep.txt" {
		t.Fatalf("candidates = %v, want [keep.txt]", names(cands))
	}
}

func TestWalkPopulatesCandidateFields(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "informe.XLSX")
	writeFile(t, path)

	scanner := scan.New(category.Default(), nil)
	cands, err := scanner.Collect(root, false)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("candidates = %v", names(cands))
	}
	c := cands[0]
	if c.Path != path || c.Ext != ".XLSX" || c.Size != 4 || c.ModTime.IsZero() {
		t.Errorf("candidate = %+v", c)
	}
}

func TestWalkStopsWhenVisitorErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	writeFile(t, filepath.Join(root, "b.txt"))

	scanner := scan.New(category.Default(), nil)
	sentinel := errors.New("stop")
	count := 0
	err := scanner.Walk(root, false, func(scan.Candidate) error {
		count++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Walk error = %v, want sentinel", err)
	}
	if count != 1 {
		t.Errorf("visitor ran %d times, want 1", count)
	}
}
