package glossary

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dichokey/dichokey/pkg/domain"
	"golang.org/x/text/unicode/norm"
)

// Catalog is the normalized, queryable glossary term index. After Load no
// field inheritance remains: every term value maps to one or more fully
// resolved entries. Read-only once built.
type Catalog struct {
	entries []domain.DefinitionEntry
	// byValue maps a term value to the entries reachable through it
	// (homonyms keep their own entries).
	byValue map[string][]int
	// terms is kept sorted by (-len(value), value), the order matching
	// tries them in.
	terms []domain.DefinitionTerm

	warnings []domain.Warning
}

// LoadOption configures catalog loading.
type LoadOption func(*loadConfig)

type loadConfig struct {
	baseDir string
	logger  *slog.Logger
}

// WithImageDir sets the directory image paths are resolved against. When
// set, referenced files that do not exist are reported as MissingAsset
// warnings and the entry keeps going without its picture.
func WithImageDir(dir string) LoadOption {
	return func(c *loadConfig) { c.baseDir = dir }
}

// WithLogger makes loading log its warnings.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// Load normalizes source records into a catalog. Shared record fields are
// pushed down into every item so nothing downstream has to branch on the
// authored shape.
func Load(records []Record, opts ...LoadOption) (*Catalog, error) {
	cfg := loadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	cat := &Catalog{byValue: make(map[string][]int)}

	for i, rec := range records {
		recCase := rec.CaseSensitive != nil && *rec.CaseSensitive

		if len(rec.Items) == 0 {
			entry := domain.DefinitionEntry{
				Terms:         normalizeValues(rec.Defs),
				Label:         rec.Label,
				CaseSensitive: recCase,
				Description:   rec.Description,
			}
			if err := cat.add(entry, &cfg); err != nil {
				return nil, fmt.Errorf("glossary record %d: %w", i, err)
			}
			continue
		}

		for j, item := range rec.Items {
			entry := domain.DefinitionEntry{
				Terms:         normalizeValues(rec.Defs),
				Label:         rec.Label,
				CaseSensitive: recCase,
				Description:   rec.Description,
				Image:         item.Image,
				Text:          item.Text,
			}
			if len(item.Defs) > 0 {
				entry.Terms = normalizeValues(item.Defs)
			}
			if item.Label != "" {
				entry.Label = item.Label
			}
			if item.CaseSensitive != nil {
				entry.CaseSensitive = *item.CaseSensitive
			}
			if item.Description != "" {
				entry.Description = item.Description
			}
			if err := cat.add(entry, &cfg); err != nil {
				return nil, fmt.Errorf("glossary record %d item %d: %w", i, j, err)
			}
		}
	}

	cat.buildTerms()
	return cat, nil
}

func (c *Catalog) add(entry domain.DefinitionEntry, cfg *loadConfig) error {
	if len(entry.Terms) == 0 {
		return fmt.Errorf("entry has no term values")
	}

	if entry.Image != "" && cfg.baseDir != "" {
		full := filepath.Join(cfg.baseDir, entry.Image)
		if _, err := os.Stat(full); err != nil {
			w := domain.Warning{
				Kind:   domain.ErrMissingAsset,
				NodeID: entry.Terms[0],
				Detail: fmt.Sprintf("image %s not found", entry.Image),
			}
			c.warnings = append(c.warnings, w)
			if cfg.logger != nil {
				cfg.logger.Warn("glossary image missing", "term", entry.Terms[0], "image", entry.Image)
			}
			entry.Image = ""
		}
	}

	handle := len(c.entries)
	c.entries = append(c.entries, entry)
	for _, value := range entry.Terms {
		c.byValue[value] = append(c.byValue[value], handle)
	}
	return nil
}

// buildTerms assembles the ordered term list. A value shared by several
// entries yields a single term; it stays case-insensitive unless every
// entry claiming it is case-sensitive.
func (c *Catalog) buildTerms() {
	c.terms = c.terms[:0]
	for value, handles := range c.byValue {
		term := domain.DefinitionTerm{Value: value, CaseSensitive: true}
		for _, h := range handles {
			entry := c.entries[h]
			if !entry.CaseSensitive {
				term.CaseSensitive = false
			}
			if term.Label == "" {
				term.Label = entry.Label
			}
		}
		c.terms = append(c.terms, term)
	}
	sort.Slice(c.terms, func(i, j int) bool {
		a, b := c.terms[i].Value, c.terms[j].Value
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}

// AllTerms returns every known term, longest value first, ties broken by
// value. This is the exact order the annotator tries matches in.
func (c *Catalog) AllTerms() []domain.DefinitionTerm {
	out := make([]domain.DefinitionTerm, len(c.terms))
	copy(out, c.terms)
	return out
}

// EntriesFor returns the fully resolved entries reachable through a term
// value, in load order. Nil for an unknown value.
func (c *Catalog) EntriesFor(value string) []domain.DefinitionEntry {
	handles, ok := c.byValue[value]
	if !ok {
		return nil
	}
	out := make([]domain.DefinitionEntry, 0, len(handles))
	for _, h := range handles {
		out = append(out, c.entries[h])
	}
	return out
}

// Values returns every known term value, sorted lexically. Used by the
// dictionary page, which lists terms alphabetically.
func (c *Catalog) Values() []string {
	out := make([]string, 0, len(c.byValue))
	for value := range c.byValue {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of normalized entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Warnings returns the defects found while loading, missing images among
// them.
func (c *Catalog) Warnings() []domain.Warning { return c.warnings }

// normalizeValues trims, collapses inner whitespace and NFKC-normalizes
// authored term values so that visually identical spellings compare equal.
func normalizeValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.Join(strings.Fields(strings.TrimSpace(v)), " ")
		v = norm.NFKC.String(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
