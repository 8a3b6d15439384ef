package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ordenar/internal/category"
	"ordenar/internal/scan"
)

// maxUniqueAttempts bounds the collision counter so a pathological
// directory cannot spin the resolver forever.
const maxUniqueAttempts = 10000

// Resolver computes destination paths for classified candidates.
type Resolver struct {
	table  *category.Table
	months MonthNamer
}

// NewResolver builds a resolver over the category table. A nil namer uses
// the default (Spanish) month labels.
func NewResolver(table *category.Table, months MonthNamer) *Resolver {
	if months == nil {
		months = NamerFor("es")
	}
	return &Resolver{table: table, months: months}
}

// DestinationDir returns root/category, extended with <year>/<month label>
// segments for date-bucketed categories. The candidate's modification time
// is interpreted in local time.
func (r *Resolver) DestinationDir(root string, cand scan.Candidate, cat string) string {
	dir := filepath.Join(root, cat)
	if r.table.DateBucketed(cat) {
		mod := cand.ModTime.Local()
		dir = filepath.Join(dir, strconv.Itoa(mod.Year()), r.months(mod.Month()))
	}
	return dir
}

// UniquePath returns path unchanged when it is free, otherwise the first
// free "name (N).ext" variant. Existence is re-checked on every counter
// value; earlier moves in the same run may already hold a slot.
func UniquePath(path string) (string, error) {
	free, err := pathFree(path)
	if err != nil {
		return "", err
	}
	if free {
		return path, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; i <= maxUniqueAttempts; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted filename slots for %s", path)
}

func pathFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
