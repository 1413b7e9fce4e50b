package glossary

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/dichokey/dichokey/pkg/domain"
	"golang.org/x/text/cases"
)

// markerPattern recognizes reference markers emitted by a previous
// annotation pass. Matches inside an existing marker are rejected, which
// makes Annotate idempotent; the recursive glossary closure depends on
// that.
var markerPattern = regexp.MustCompile(`(?s)<a [^>]*class="def-ref"[^>]*>.*?</a>`)

// MarkFunc wraps one accepted span with a reference marker. span is the
// original text of the match; anchor is the stable anchor name the marker
// should point at.
type MarkFunc func(span, anchor string, term domain.DefinitionTerm) string

func htmlMark(span, anchor string, _ domain.DefinitionTerm) string {
	return fmt.Sprintf(`<a href="#%s" class="def-ref">%s</a>`, anchor, span)
}

// Annotator scans free-form text for glossary terms and resolves
// overlapping matches into stable cross-references. Safe for concurrent
// use; results are cached per (page id, text) since description texts are
// immutable for the run.
type Annotator struct {
	catalog *Catalog
	mark    MarkFunc

	mu    sync.RWMutex
	cache map[cacheKey]domain.AnnotationResult
}

type cacheKey struct {
	pageID string
	text   string
}

// AnnotateOption configures an Annotator.
type AnnotateOption func(*Annotator)

// WithMarker replaces the default HTML reference marker.
func WithMarker(mark MarkFunc) AnnotateOption {
	return func(a *Annotator) { a.mark = mark }
}

// NewAnnotator creates an annotator over a catalog.
func NewAnnotator(catalog *Catalog, opts ...AnnotateOption) *Annotator {
	a := &Annotator{
		catalog: catalog,
		mark:    htmlMark,
		cache:   make(map[cacheKey]domain.AnnotationResult),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate scans text with anchors not scoped to any page. Equivalent to
// AnnotatePage("", text).
func (a *Annotator) Annotate(text string) domain.AnnotationResult {
	return a.AnnotatePage("", text)
}

// AnnotatePage scans text and wraps every accepted match with a reference
// marker whose anchor is derived from (pageID, termValue).
//
// Matching follows the longest-first rule set: for every term, every
// occurrence not flanked by a letter is a candidate; candidates are ordered
// by (position, -len(term)) and swept left to right, accepting only those
// starting past the end of the previously accepted one. Earliest match
// wins, longest term wins at equal positions, and a claimed span is never
// re-claimed.
func (a *Annotator) AnnotatePage(pageID, text string) domain.AnnotationResult {
	key := cacheKey{pageID: pageID, text: text}
	a.mu.RLock()
	cached, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return cached
	}

	result := a.annotate(pageID, text)

	a.mu.Lock()
	a.cache[key] = result
	a.mu.Unlock()
	return result
}

type candidate struct {
	start, end int // byte offsets into the scanned text
	term       domain.DefinitionTerm
}

func (a *Annotator) annotate(pageID, text string) domain.AnnotationResult {
	masked := markerPattern.FindAllStringIndex(text, -1)

	var candidates []candidate
	for _, term := range a.catalog.terms {
		for _, span := range findOccurrences(text, term) {
			if overlapsAny(span[0], span[1], masked) {
				continue
			}
			candidates = append(candidates, candidate{start: span[0], end: span[1], term: term})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return len(candidates[i].term.Value) > len(candidates[j].term.Value)
	})

	// A candidate is accepted only when it starts strictly past the end
	// position of the previously accepted one; starting exactly there
	// still counts as claimed.
	var accepted []candidate
	lastEnd := -1
	for _, c := range candidates {
		if c.start <= lastEnd {
			continue
		}
		accepted = append(accepted, c)
		lastEnd = c.end
	}

	var sb strings.Builder
	var terms []domain.DefinitionTerm
	seen := make(map[string]struct{})
	cursor := 0
	for _, c := range accepted {
		sb.WriteString(text[cursor:c.start])
		anchor := Anchor(pageID, c.term.Value)
		sb.WriteString(a.mark(text[c.start:c.end], anchor, c.term))
		cursor = c.end

		if _, ok := seen[c.term.Value]; !ok {
			seen[c.term.Value] = struct{}{}
			terms = append(terms, c.term)
		}
	}
	sb.WriteString(text[cursor:])

	return domain.AnnotationResult{Text: sb.String(), Terms: terms}
}

// findOccurrences locates every start of the term value in text, honoring
// its case-sensitivity and the word-boundary constraint: an occurrence
// flanked on either side by a letter does not count, so "ant" never
// matches inside "constant".
func findOccurrences(text string, term domain.DefinitionTerm) [][2]int {
	runes := []rune(text)
	offsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}
	offsets[len(runes)] = off

	want := []rune(term.Value)
	if len(want) == 0 || len(want) > len(runes) {
		return nil
	}

	var out [][2]int
	for i := 0; i+len(want) <= len(runes); i++ {
		if !runesMatch(runes[i:i+len(want)], want, term.CaseSensitive) {
			continue
		}
		if i > 0 && unicode.IsLetter(runes[i-1]) {
			continue
		}
		if after := i + len(want); after < len(runes) && unicode.IsLetter(runes[after]) {
			continue
		}
		out = append(out, [2]int{offsets[i], offsets[i+len(want)]})
	}
	return out
}

func runesMatch(got, want []rune, caseSensitive bool) bool {
	if caseSensitive {
		for i := range want {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}
	return strings.EqualFold(string(got), string(want))
}

func overlapsAny(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}

// foldCaser folds term values for case-insensitive identity, e.g. in the
// Expand visited set.
var foldCaser = cases.Fold()

// Expand computes the transitive glossary closure of a seed term set: a
// matched entry's own display and description text may mention further
// terms, and those rows must render too. The walk keeps a visited set so a
// term whose description mentions itself, or a cycle of mutually
// referencing terms, still terminates.
func (a *Annotator) Expand(seed []domain.DefinitionTerm) []domain.DefinitionTerm {
	visited := make(map[string]struct{})
	var out []domain.DefinitionTerm
	var queue []domain.DefinitionTerm

	push := func(terms []domain.DefinitionTerm) {
		for _, t := range terms {
			key := foldCaser.String(t.Value)
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			out = append(out, t)
			queue = append(queue, t)
		}
	}
	push(seed)

	for len(queue) > 0 {
		term := queue[0]
		queue = queue[1:]
		for _, entry := range a.catalog.EntriesFor(term.Value) {
			if entry.Text != "" {
				push(a.Annotate(entry.Text).Terms)
			}
			if entry.Description != "" {
				push(a.Annotate(entry.Description).Terms)
			}
		}
	}
	return out
}
