package dichokey

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dichokey/dichokey/internal/presentation/graph"
	"github.com/dichokey/dichokey/internal/site"
	"github.com/dichokey/dichokey/pkg/adapters/file"
	"github.com/dichokey/dichokey/pkg/closure"
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
	"github.com/dichokey/dichokey/pkg/index"
	"github.com/dichokey/dichokey/pkg/ports"
)

// Engine is the high-level entry point for the library. It loads a key
// model, derives the navigation index and the species closures, builds the
// glossary catalog and exposes the boundary operations consumers need.
type Engine struct {
	model     *domain.Model
	idx       *index.Index
	cls       *closure.Closure
	catalog   *glossary.Catalog
	annotator *glossary.Annotator

	loader ports.ModelLoader
	source ports.GlossarySource
	trans  ports.Translator
	logger *slog.Logger

	// Name is derived from the model file name unless a custom loader is
	// injected.
	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom model loader, bypassing the default
// file-backed one.
func WithLoader(l ports.ModelLoader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithGlossary injects a glossary source. Without one the engine runs
// with an empty catalog and annotation becomes a no-op.
func WithGlossary(s ports.GlossarySource) Option {
	return func(e *Engine) { e.source = s }
}

// WithTranslator sets the label translator used during generation.
func WithTranslator(t ports.Translator) Option {
	return func(e *Engine) { e.trans = t }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New initializes an Engine from a model file. The whole derivation
// pipeline runs here: load, validate, index, closure, catalog. The
// returned engine is immutable and safe for concurrent use.
func New(modelPath string, opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if e.loader == nil {
		if modelPath == "" {
			return nil, fmt.Errorf("%w: model path is required when no custom loader is provided", domain.ErrMalformedModel)
		}
		absPath, err := filepath.Abs(modelPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		e.Name = filepath.Base(absPath)
		e.loader = file.NewModelLoader(absPath)
	}

	model, err := e.loader.LoadModel()
	if err != nil {
		return nil, err
	}
	e.model = model

	idx, err := index.Build(model, index.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.idx = idx
	e.cls = closure.Compute(model, idx)

	var records []glossary.Record
	imageDir := ""
	if e.source != nil {
		records, err = e.source.LoadRecords()
		if err != nil {
			return nil, err
		}
		imageDir = e.source.ImageDir()
	}
	catalog, err := glossary.Load(records,
		glossary.WithImageDir(imageDir),
		glossary.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.catalog = catalog
	e.annotator = glossary.NewAnnotator(catalog)

	return e, nil
}

// Model returns the loaded key model.
func (e *Engine) Model() *domain.Model { return e.model }

// Index returns the derived navigation index.
func (e *Engine) Index() *index.Index { return e.idx }

// Catalog returns the glossary catalog.
func (e *Engine) Catalog() *glossary.Catalog { return e.catalog }

// Children returns the direct successors of a node.
func (e *Engine) Children(id string) []string { return e.idx.Children(id) }

// Parents returns every predecessor of a node.
func (e *Engine) Parents(id string) []index.Step { return e.idx.Parents(id) }

// AncestorChain returns the root-to-node path used for breadcrumbs.
func (e *Engine) AncestorChain(id string) ([]index.Step, error) {
	return e.idx.AncestorChain(id)
}

// ClosureOf returns the species reachable from a node, sorted.
func (e *Engine) ClosureOf(id string) []string { return e.cls.Of(id) }

// AllTerms returns every glossary term, longest value first.
func (e *Engine) AllTerms() []domain.DefinitionTerm { return e.catalog.AllTerms() }

// EntriesFor returns the glossary entries registered under a term value.
func (e *Engine) EntriesFor(value string) []domain.DefinitionEntry {
	return e.catalog.EntriesFor(value)
}

// Annotate wraps glossary term occurrences in text with definition links.
func (e *Engine) Annotate(text string) domain.AnnotationResult {
	return e.annotator.Annotate(text)
}

// Warnings returns the defects found while deriving the indices.
func (e *Engine) Warnings() []domain.Warning {
	var out []domain.Warning
	out = append(out, e.idx.Warnings()...)
	out = append(out, e.catalog.Warnings()...)
	return out
}

// Report summarizes one generation run.
type Report struct {
	Pages    int
	Warnings []domain.Warning
	Duration time.Duration
}

// GenerateOptions tunes site generation.
type GenerateOptions struct {
	Title          string
	Description    string
	SingleDocument bool
	ShrinkImages   bool
	NoGraphs       bool
	Workers        int
	Progress       func(done, total int)
}

// Generate renders the whole document set below outDir.
func (e *Engine) Generate(ctx context.Context, outDir string, o GenerateOptions) (*Report, error) {
	opts := []site.Option{
		site.WithLogger(e.logger),
		site.WithSingleDocument(o.SingleDocument),
		site.WithImageShrink(o.ShrinkImages),
		site.WithWorkers(o.Workers),
	}
	if o.Title != "" {
		opts = append(opts, site.WithTitle(o.Title))
	}
	if o.Description != "" {
		opts = append(opts, site.WithDescription(o.Description))
	}
	if e.source != nil {
		opts = append(opts, site.WithImageDir(e.source.ImageDir()))
	}
	if e.trans != nil {
		opts = append(opts, site.WithTranslator(e.trans))
	}
	if o.Progress != nil {
		opts = append(opts, site.WithProgress(o.Progress))
	}
	if !o.NoGraphs {
		opts = append(opts, site.WithRenderer(e.graphRenderer(o.SingleDocument)))
	}

	gen, err := site.New(e.model, e.idx, e.cls, e.catalog, e.annotator, opts...)
	if err != nil {
		return nil, err
	}
	report, err := gen.Generate(ctx, outDir)
	if err != nil {
		return nil, err
	}
	return &Report{Pages: report.Pages, Warnings: report.Warnings, Duration: report.Duration}, nil
}

// graphRenderer builds the per-page diagram renderer. Species nodes get
// the terminal shape; links resolve the same way page links do.
func (e *Engine) graphRenderer(single bool) ports.GraphRenderer {
	speciesIDs := make(map[string]bool)
	for _, label := range e.idx.Species() {
		speciesIDs[label] = true
	}
	return &graph.Mermaid{
		SpeciesIDs: speciesIDs,
		HrefFor: func(id string) string {
			if single {
				return "#page-" + site.PageSlug(id)
			}
			return site.PageSlug(id) + ".html"
		},
	}
}
