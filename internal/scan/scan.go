package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"ordenar/internal/category"
)

// ErrInvalidRoot indicates the organize root does not resolve to an
// existing directory. It aborts a run before any mutation.
var ErrInvalidRoot = errors.New("invalid root")

// lockFilePrefix marks office-suite lock files, which are transient and
// unsafe to move.
const lockFilePrefix = "~$"

// Candidate is a regular file discovered under the organize root. Size and
// mtime are read at scan time and not cached beyond one pass.
type Candidate struct {
	Path    string
	Name    string
	Ext     string
	Size    int64
	ModTime time.Time
}

// Scanner walks an organize root and yields candidate files. Files whose
// first path segment relative to the root is a destination folder name are
// excluded so repeated runs never re-classify organized files.
type Scanner struct {
	reserved map[string]struct{}
	globs    []string
}

// New builds a scanner that excludes the destination folders of the given
// table plus any user-supplied doublestar globs (matched against the path
// relative to the root).
func New(table *category.Table, excludeGlobs []string) *Scanner {
	reserved := make(map[string]struct{})
	for _, name := range table.Names() {
		reserved[name] = struct{}{}
	}
	globs := make([]string, 0, len(excludeGlobs))
	for _, g := range excludeGlobs {
		if g = strings.TrimSpace(g); g != "" {
			globs = append(globs, g)
		}
	}
	return &Scanner{reserved: reserved, globs: globs}
}

// ValidateRoot resolves root and confirms it is an existing directory.
func ValidateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRoot, abs)
	}
	return abs, nil
}

// Walk streams candidates beneath root in lexical walk order. With
// recursive false only direct children are considered. The visitor may stop
// the walk by returning an error, which Walk propagates.
func (s *Scanner) Walk(root string, recursive bool, fn func(Candidate) error) error {
	root, err := ValidateRoot(root)
	if err != nil {
		return err
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return fmt.Errorf("read root: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !entry.Type().IsRegular() {
				continue
			}
			if s.excluded(entry.Name()) {
				continue
			}
			cand, err := newCandidate(filepath.Join(root, entry.Name()), entry)
			if err != nil {
				continue
			}
			if err := fn(cand); err != nil {
				return err
			}
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		if entry.IsDir() {
			// Prune whole destination trees; a file three levels deep
			// inside one is still organized output.
			if _, ok := s.reserved[firstSegment(rel)]; ok {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if s.excluded(rel) {
			return nil
		}
		cand, err := newCandidate(path, entry)
		if err != nil {
			return nil
		}
		return fn(cand)
	})
}

// Collect materializes the walk into an ordered slice.
func (s *Scanner) Collect(root string, recursive bool) ([]Candidate, error) {
	var out []Candidate
	err := s.Walk(root, recursive, func(c Candidate) error {
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Scanner) excluded(rel string) bool {
	name := filepath.Base(rel)
	if strings.HasPrefix(name, lockFilePrefix) {
		return true
	}
	if _, ok := s.reserved[firstSegment(rel)]; ok {
		return true
	}
	slashed := filepath.ToSlash(rel)
	for _, glob := range s.globs {
		if ok, err := doublestar.Match(glob, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

func firstSegment(rel string) string {
	rel = filepath.ToSlash(rel)
	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		return rel[:idx]
	}
	return rel
}

func newCandidate(path string, entry fs.DirEntry) (Candidate, error) {
	info, err := entry.Info()
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{
		Path:    path,
		Name:    entry.Name(),
		Ext:     filepath.Ext(entry.Name()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
