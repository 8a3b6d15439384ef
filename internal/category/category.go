package category

import (
	"fmt"
	"strings"
)

// Rule maps a set of file extensions to a destination category.
type Rule struct {
	Name        string
	Extensions  []string
	DateBuckets bool
}

// Table is an immutable extension-to-category lookup with a fallback
// category for anything unmatched.
type Table struct {
	rules    []Rule
	fallback string
	byExt    map[string]string
	buckets  map[string]bool
}

// NewTable validates the rules and builds the lookup table. Extensions are
// normalized to lowercase with a leading dot; an extension may belong to at
// most one category, and no rule may reuse the fallback name.
func NewTable(rules []Rule, fallback string) (*Table, error) {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return nil, fmt.Errorf("category table: fallback category name must not be empty")
	}

	t := &Table{
		fallback: fallback,
		byExt:    make(map[string]string),
		buckets:  make(map[string]bool),
	}

	seen := map[string]struct{}{}
	for _, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, fmt.Errorf("category table: rule with empty name")
		}
		if name == fallback {
			return nil, fmt.Errorf("category table: rule %q collides with the fallback category", name)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("category table: duplicate rule %q", name)
		}
		seen[name] = struct{}{}

		if len(rule.Extensions) == 0 {
			return nil, fmt.Errorf("category table: rule %q has no extensions", name)
		}

		normalized := Rule{Name: name, DateBuckets: rule.DateBuckets}
		for _, ext := range rule.Extensions {
			key, err := normalizeExtension(ext)
			if err != nil {
				return nil, fmt.Errorf("category table: rule %q: %w", name, err)
			}
			if owner, ok := t.byExt[key]; ok {
				return nil, fmt.Errorf("category table: extension %q claimed by both %q and %q", key, owner, name)
			}
			t.byExt[key] = name
			normalized.Extensions = append(normalized.Extensions, key)
		}

		t.rules = append(t.rules, normalized)
		t.buckets[name] = rule.DateBuckets
	}

	return t, nil
}

func normalizeExtension(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return "", fmt.Errorf("empty extension")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext, nil
}

// Classify returns the category for the given extension, or the fallback
// category when the extension is unknown. The lookup is case-insensitive.
func (t *Table) Classify(ext string) string {
	if name, ok := t.byExt[strings.ToLower(ext)]; ok {
		return name
	}
	return t.fallback
}

// Fallback returns the fallback category name.
func (t *Table) Fallback() string {
	return t.fallback
}

// Names returns every destination folder name: each rule in declaration
// order followed by the fallback category.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.rules)+1)
	for _, rule := range t.rules {
		names = append(names, rule.Name)
	}
	return append(names, t.fallback)
}

// Rules returns the normalized rules in declaration order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// DateBucketed reports whether the category places files in per-date
// subfolders. The fallback category never does.
func (t *Table) DateBucketed(name string) bool {
	return t.buckets[name]
}

// DefaultFallback is the fallback category used when none is configured.
const DefaultFallback = "Otros"

// DefaultRules returns the built-in category table.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "Imágenes", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tiff", ".svg", ".heic"}},
		{Name: "PDFs", Extensions: []string{".pdf"}},
		{Name: "Vídeos", Extensions: []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".wmv"}},
		{Name: "Documentos Word", Extensions: []string{".doc", ".docx", ".odt"}, DateBuckets: true},
		{Name: "Excel", Extensions: []string{".xls", ".xlsx", ".xlsm", ".xlsb", ".xltx", ".ods", ".csv"}, DateBuckets: true},
		{Name: "Texto", Extensions: []string{".txt", ".md", ".rtf"}},
	}
}

// Default builds the built-in table with the default fallback.
func Default() *Table {
	table, err := NewTable(DefaultRules(), DefaultFallback)
	if err != nil {
		panic(fmt.Sprintf("default category table invalid: %v", err))
	}
	return table
}
