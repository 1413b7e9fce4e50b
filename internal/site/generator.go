package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dichokey/dichokey/internal/assets"
	"github.com/dichokey/dichokey/pkg/closure"
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
	"github.com/dichokey/dichokey/pkg/index"
	"github.com/dichokey/dichokey/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Generator is the page orchestrator. It consumes the derived indices
// strictly read-only, which is what allows distinct pages to be generated
// in parallel.
type Generator struct {
	model     *domain.Model
	idx       *index.Index
	cls       *closure.Closure
	catalog   *glossary.Catalog
	annotator *glossary.Annotator
	renderer  ports.GraphRenderer
	trans     ports.Translator
	logger    *slog.Logger

	title       string
	description string
	singleDoc   bool
	shrink      bool
	imageDir    string
	workers     int
	progress    func(done, total int)

	tmpl *template.Template

	mu       sync.Mutex
	warnings []domain.Warning
}

// Option configures a Generator.
type Option func(*Generator)

// WithTitle sets the site title shown on every page.
func WithTitle(title string) Option {
	return func(g *Generator) { g.title = title }
}

// WithDescription sets the markdown blurb of the index page.
func WithDescription(desc string) Option {
	return func(g *Generator) { g.description = desc }
}

// WithSingleDocument switches to single-document output: all content in
// one index.html, navigation via in-page anchors.
func WithSingleDocument(single bool) Option {
	return func(g *Generator) { g.singleDoc = single }
}

// WithImageShrink downscales oversized glossary images while copying.
func WithImageShrink(shrink bool) Option {
	return func(g *Generator) { g.shrink = shrink }
}

// WithImageDir sets the directory glossary image paths resolve against.
func WithImageDir(dir string) Option {
	return func(g *Generator) { g.imageDir = dir }
}

// WithRenderer sets the vector graph renderer. Nil disables per-page
// diagrams.
func WithRenderer(r ports.GraphRenderer) Option {
	return func(g *Generator) { g.renderer = r }
}

// WithTranslator sets the label translator.
func WithTranslator(t ports.Translator) Option {
	return func(g *Generator) { g.trans = t }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithWorkers bounds page generation parallelism. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithProgress installs a per-page progress callback.
func WithProgress(fn func(done, total int)) Option {
	return func(g *Generator) { g.progress = fn }
}

// New assembles a generator over already-built indices.
func New(model *domain.Model, idx *index.Index, cls *closure.Closure, catalog *glossary.Catalog, annotator *glossary.Annotator, opts ...Option) (*Generator, error) {
	g := &Generator{
		model:     model,
		idx:       idx,
		cls:       cls,
		catalog:   catalog,
		annotator: annotator,
		title:     "Identification key",
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tmpl, err := parseTemplates(g.translate)
	if err != nil {
		return nil, err
	}
	g.tmpl = tmpl
	return g, nil
}

// Report summarizes one generation run.
type Report struct {
	Pages    int
	Warnings []domain.Warning
	Duration time.Duration
}

// Generate emits the whole document set below outDir. Structural failures
// abort; per-page defects (dangling choices, missing images, a cyclic
// breadcrumb) are recovered locally, reported and the rest of the key
// still builds.
func (g *Generator) Generate(ctx context.Context, outDir string) (*Report, error) {
	started := time.Now()
	g.mu.Lock()
	g.warnings = nil
	g.mu.Unlock()

	for _, w := range g.idx.Warnings() {
		g.warn(w)
	}
	for _, w := range g.catalog.Warnings() {
		g.warn(w)
	}

	if err := os.MkdirAll(filepath.Join(outDir, "page"), 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(outDir, "img"), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(outDir, "styles.css"), stylesCSS, 0o644); err != nil {
		return nil, err
	}

	g.copyImages(outDir)

	var pages int
	var err error
	if g.singleDoc {
		pages, err = g.generateSingle(ctx, outDir)
	} else {
		pages, err = g.generateMulti(ctx, outDir)
	}
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	warnings := make([]domain.Warning, len(g.warnings))
	copy(warnings, g.warnings)
	g.mu.Unlock()

	report := &Report{Pages: pages, Warnings: warnings, Duration: time.Since(started)}
	g.logger.Info("site generated",
		"pages", report.Pages,
		"warnings", len(report.Warnings),
		"duration", report.Duration,
		"out", outDir)
	return report, nil
}

func (g *Generator) generateMulti(ctx context.Context, outDir string) (int, error) {
	nodes := g.model.Order
	species := g.idx.Species()
	total := len(nodes) + len(species) + 3

	done := 0
	var doneMu sync.Mutex
	tick := func() {
		if g.progress == nil {
			return
		}
		doneMu.Lock()
		done++
		g.progress(done, total)
		doneMu.Unlock()
	}

	if err := g.writePage(filepath.Join(outDir, "index.html"), "index_page", g.buildIndexView(linker{})); err != nil {
		return 0, err
	}
	tick()

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	pageDir := filepath.Join(outDir, "page")
	sub := linker{toRoot: "../"}

	for _, id := range nodes {
		id := id
		eg.Go(func() error {
			view, err := g.buildNodeView(id, sub)
			if err != nil {
				return g.pageFailure("characteristic", id, err)
			}
			path := filepath.Join(pageDir, PageSlug(id)+".html")
			if err := g.writePage(path, "node_page", view); err != nil {
				return err
			}
			tick()
			return nil
		})
	}
	for _, label := range species {
		label := label
		eg.Go(func() error {
			view, err := g.buildSpeciesView(label, sub)
			if err != nil {
				return g.pageFailure("species", label, err)
			}
			path := filepath.Join(pageDir, PageSlug(label)+".html")
			if err := g.writePage(path, "species_page", view); err != nil {
				return err
			}
			tick()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	if err := g.writePage(filepath.Join(outDir, "species.html"), "species_list_page", g.buildSpeciesListView(linker{})); err != nil {
		return 0, err
	}
	tick()
	if err := g.writePage(filepath.Join(outDir, "dictionary.html"), "dictionary_page", g.buildDictionaryView(linker{})); err != nil {
		return 0, err
	}
	tick()

	return total, nil
}

// generateSingle renders every section into an explicit builder and writes
// one concatenated document. Sections are built in parallel but appended
// in deterministic order; the builder belongs to this call, nothing is
// accumulated globally.
func (g *Generator) generateSingle(ctx context.Context, outDir string) (int, error) {
	l := linker{single: true}
	builder := NewDocumentBuilder()

	if err := g.renderSection(builder, "layout_top", g.buildIndexView(l)); err != nil {
		return 0, err
	}
	if err := g.renderSection(builder, "index_content", g.buildIndexView(l)); err != nil {
		return 0, err
	}

	nodes := g.model.Order
	species := g.idx.Species()

	type section struct {
		name string
		view any
	}
	sections := make([]section, len(nodes)+len(species))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, id := range nodes {
		i, id := i, id
		eg.Go(func() error {
			view, err := g.buildNodeView(id, l)
			if err != nil {
				return g.pageFailure("characteristic", id, err)
			}
			sections[i] = section{name: "node_content", view: view}
			return nil
		})
	}
	for i, label := range species {
		i, label := i, label
		eg.Go(func() error {
			view, err := g.buildSpeciesView(label, l)
			if err != nil {
				return g.pageFailure("species", label, err)
			}
			sections[len(nodes)+i] = section{name: "species_content", view: view}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	count := 1
	for _, s := range sections {
		if s.view == nil {
			continue // page failed, already reported
		}
		if err := g.renderSection(builder, s.name, s.view); err != nil {
			return 0, err
		}
		count++
	}

	if err := g.renderSection(builder, "species_list_content", g.buildSpeciesListView(l)); err != nil {
		return 0, err
	}
	count++
	if err := g.renderSection(builder, "dictionary_content", g.buildDictionaryView(l)); err != nil {
		return 0, err
	}
	count++
	if err := g.renderSection(builder, "layout_bottom", nil); err != nil {
		return 0, err
	}

	if err := os.WriteFile(filepath.Join(outDir, "index.html"), builder.Bytes(), 0o644); err != nil {
		return 0, err
	}
	if g.progress != nil {
		g.progress(count, count)
	}
	return count, nil
}

func (g *Generator) renderSection(b *DocumentBuilder, name string, view any) error {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, view); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	b.Append(buf.Bytes())
	return nil
}

func (g *Generator) writePage(path, name string, view any) error {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, view); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	g.logger.Debug("writing page", "path", path)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// pageFailure downgrades recoverable per-page errors to warnings. A cycle
// under one node must not take down the whole run, but it must be loud.
func (g *Generator) pageFailure(kind, id string, err error) error {
	if errors.Is(err, domain.ErrCycleDetected) || errors.Is(err, domain.ErrDanglingReference) {
		g.warn(domain.Warning{Kind: err, NodeID: id, Detail: fmt.Sprintf("%s page skipped", kind)})
		g.logger.Error("page skipped", "kind", kind, "id", id, "error", err)
		return nil
	}
	return err
}

func (g *Generator) copyImages(outDir string) {
	if g.imageDir == "" {
		return
	}
	copied := make(map[string]struct{})
	for _, value := range g.catalog.Values() {
		for _, entry := range g.catalog.EntriesFor(value) {
			if entry.Image == "" {
				continue
			}
			dst := filepath.Join(outDir, "img", imageSlug(entry.Image))
			if _, ok := copied[dst]; ok {
				continue
			}
			copied[dst] = struct{}{}
			src := filepath.Join(g.imageDir, entry.Image)
			if err := assets.Copy(src, dst, g.shrink); err != nil {
				g.warn(domain.Warning{Kind: domain.ErrMissingAsset, NodeID: value, Detail: err.Error()})
				g.logger.Warn("glossary image not copied", "image", entry.Image, "error", err)
			}
		}
	}
}

func (g *Generator) buildIndexView(l linker) *indexView {
	return &indexView{
		Title:       g.title,
		Description: g.markdown(g.description),
		StylesHref:  l.styles(),
		StartHref:   l.node(g.model.Start),
		SpeciesHref: l.speciesList(),
		DictHref:    l.dictionary(),
	}
}

func (g *Generator) buildSpeciesListView(l linker) *speciesListView {
	view := &speciesListView{
		Title:      fmt.Sprintf("%s - species", g.title),
		StylesHref: l.styles(),
		IndexLabel: g.translate("Main page"),
		IndexHref:  l.index(),
		Anchor:     "species",
	}
	labels := g.cls.Of(g.model.Start)
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.Strings(sorted)
	for _, label := range sorted {
		view.Items = append(view.Items, Link{Href: l.node(label), Label: g.translate(label)})
	}
	return view
}

func (g *Generator) buildDictionaryView(l linker) *dictionaryView {
	view := &dictionaryView{
		Title:      fmt.Sprintf("%s - dictionary", g.title),
		StylesHref: l.styles(),
		IndexLabel: g.translate("Main page"),
		IndexHref:  l.index(),
		Anchor:     "dictionary",
	}
	var terms []domain.DefinitionTerm
	for _, value := range g.catalog.Values() {
		terms = append(terms, domain.DefinitionTerm{Value: value})
	}
	view.Defs = g.buildDefs("dictionary", terms, l)
	return view
}

func (g *Generator) translate(key string) string {
	if g.trans == nil {
		return key
	}
	return g.trans.Translate(key)
}

func (g *Generator) warn(w domain.Warning) {
	g.mu.Lock()
	g.warnings = append(g.warnings, w)
	g.mu.Unlock()
}
