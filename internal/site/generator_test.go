package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dichokey/dichokey/internal/presentation/graph"
	"github.com/dichokey/dichokey/pkg/closure"
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
	"github.com/dichokey/dichokey/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = `{"start": "1", "data": {
	"1": [
		{"description": "petiole with one node", "next": "2"},
		{"description": "petiole with two nodes", "target": ["SpeciesA", null]}
	],
	"2": [
		{"description": "body smooth", "target": ["SpeciesB", "https://example.org/b"]},
		{"description": "body wrinkled", "target": ["SpeciesC", null]}
	]
}}`

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()

	var model domain.Model
	require.NoError(t, json.Unmarshal([]byte(testKey), &model))

	idx, err := index.Build(&model)
	require.NoError(t, err)
	cls := closure.Compute(&model, idx)

	catalog, err := glossary.Load([]glossary.Record{
		{Defs: []string{"petiole"}, Description: "the narrow waist"},
	})
	require.NoError(t, err)

	g, err := New(&model, idx, cls, catalog, glossary.NewAnnotator(catalog), opts...)
	require.NoError(t, err)
	return g
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestGenerate_MultiPage(t *testing.T) {
	g := newTestGenerator(t, WithTitle("Test key"))
	out := t.TempDir()

	report, err := g.Generate(context.Background(), out)
	require.NoError(t, err)

	// index, species list, dictionary, 2 characteristics, 3 species.
	assert.Equal(t, 8, report.Pages)
	assert.Empty(t, report.Warnings)

	for _, name := range []string{
		"index.html", "species.html", "dictionary.html", "styles.css",
		"page/1.html", "page/2.html",
		"page/speciesa.html", "page/speciesb.html", "page/speciesc.html",
	} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	indexHTML := readFile(t, filepath.Join(out, "index.html"))
	assert.Contains(t, indexHTML, "Test key")
	assert.Contains(t, indexHTML, `href="page/1.html"`)

	nodeHTML := readFile(t, filepath.Join(out, "page", "1.html"))
	assert.Contains(t, nodeHTML, `href="../page/2.html"`)
	// The description mentions a glossary term; it must be annotated and
	// its definition row present on the same page.
	assert.Contains(t, nodeHTML, `class="def-ref"`)
	assert.Contains(t, nodeHTML, "the narrow waist")
	// Choice 0 leads to node 2, so SpeciesB and SpeciesC are potential.
	assert.Contains(t, nodeHTML, `href="../page/speciesb.html"`)
	assert.Contains(t, nodeHTML, `href="../page/speciesc.html"`)

	speciesHTML := readFile(t, filepath.Join(out, "page", "speciesb.html"))
	assert.Contains(t, speciesHTML, "SpeciesB")
	assert.Contains(t, speciesHTML, "https://example.org/b")
	// Pathway lists the decisions leading here.
	assert.Contains(t, speciesHTML, "petiole with one node")
	assert.Contains(t, speciesHTML, "body smooth")

	listHTML := readFile(t, filepath.Join(out, "species.html"))
	assert.Contains(t, listHTML, `href="page/speciesa.html"`)
	assert.Contains(t, listHTML, `href="page/speciesb.html"`)
	assert.Contains(t, listHTML, `href="page/speciesc.html"`)

	dictHTML := readFile(t, filepath.Join(out, "dictionary.html"))
	assert.Contains(t, dictHTML, "petiole")
	assert.Contains(t, dictHTML, "the narrow waist")
}

func TestGenerate_SingleDocument(t *testing.T) {
	g := newTestGenerator(t, WithTitle("Test key"), WithSingleDocument(true))
	out := t.TempDir()

	_, err := g.Generate(context.Background(), out)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(out, "page"))
	require.NoError(t, err)
	assert.Empty(t, entries, "single-document mode must not emit per-page files")

	doc := readFile(t, filepath.Join(out, "index.html"))
	// Every page becomes a section; links become in-page anchors.
	assert.Contains(t, doc, `id="page-1"`)
	assert.Contains(t, doc, `id="page-2"`)
	assert.Contains(t, doc, `id="page-speciesb"`)
	assert.Contains(t, doc, `href="#page-2"`)
	assert.Contains(t, doc, `id="species"`)
	assert.Contains(t, doc, `id="dictionary"`)
	assert.Contains(t, doc, "<!DOCTYPE html>")
}

func TestGenerate_WithGraphs(t *testing.T) {
	renderer := &graph.Mermaid{
		SpeciesIDs: map[string]bool{"SpeciesA": true, "SpeciesB": true, "SpeciesC": true},
		HrefFor:    func(id string) string { return PageSlug(id) + ".html" },
	}
	g := newTestGenerator(t, WithRenderer(renderer))
	out := t.TempDir()

	_, err := g.Generate(context.Background(), out)
	require.NoError(t, err)

	nodeHTML := readFile(t, filepath.Join(out, "page", "2.html"))
	assert.Contains(t, nodeHTML, `<pre class="mermaid">`)
	assert.Contains(t, nodeHTML, "graph TD")
	assert.Contains(t, nodeHTML, "class n_2 current")
}

func TestGenerate_DanglingChoiceBecomesUnknown(t *testing.T) {
	var model domain.Model
	require.NoError(t, json.Unmarshal([]byte(`{"start": "1", "data": {
		"1": [
			{"description": "known", "target": ["S", null]},
			{"description": "mystery"}
		]
	}}`), &model))

	idx, err := index.Build(&model)
	require.NoError(t, err)
	cls := closure.Compute(&model, idx)
	catalog, err := glossary.Load(nil)
	require.NoError(t, err)

	g, err := New(&model, idx, cls, catalog, glossary.NewAnnotator(catalog))
	require.NoError(t, err)

	out := t.TempDir()
	report, err := g.Generate(context.Background(), out)
	require.NoError(t, err)

	nodeHTML := readFile(t, filepath.Join(out, "page", "1.html"))
	assert.Contains(t, nodeHTML, "unknown")

	found := false
	for _, w := range report.Warnings {
		if w.NodeID == "1" {
			found = true
		}
	}
	assert.True(t, found, "dangling choice must surface a warning")
}

func TestGenerate_ProgressTicks(t *testing.T) {
	var calls int
	var lastDone, lastTotal int
	g := newTestGenerator(t, WithWorkers(1), WithProgress(func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	}))

	_, err := g.Generate(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8, calls)
	assert.Equal(t, lastTotal, lastDone)
}

func TestPageSlug(t *testing.T) {
	assert.Equal(t, "lasius_niger", PageSlug("Lasius niger"))
	assert.Equal(t, "1", PageSlug("1"))
	assert.Equal(t, "a_b_c", PageSlug("A  B\tC"))
}

func TestLinker(t *testing.T) {
	root := linker{}
	assert.Equal(t, "index.html", root.index())
	assert.Equal(t, "page/1.html", root.node("1"))

	sub := linker{toRoot: "../"}
	assert.Equal(t, "../index.html", sub.index())
	assert.Equal(t, "../page/lasius_niger.html", sub.node("Lasius niger"))
	assert.Equal(t, "../styles.css", sub.styles())
	assert.Equal(t, "../img/x.png", sub.image("x.png"))

	single := linker{single: true}
	assert.Equal(t, "#top", single.index())
	assert.Equal(t, "#page-1", single.node("1"))
	assert.Equal(t, "#species", single.speciesList())
	assert.Equal(t, "#dictionary", single.dictionary())
}

func TestImageSlug(t *testing.T) {
	assert.Equal(t, "petiole_close.png", imageSlug("petiole/close.png"))
	assert.Equal(t, "petiole_close.png", imageSlug("defs/img/petiole/close.png"))
	assert.Equal(t, "close.png", imageSlug("close.png"))
}

func TestDocumentBuilder(t *testing.T) {
	b := NewDocumentBuilder()
	assert.Equal(t, 0, b.Len())
	b.Append([]byte("<head>"))
	b.Append([]byte("<body>"))
	assert.Equal(t, "<head><body>", string(b.Bytes()))
	assert.Equal(t, 12, b.Len())
}
