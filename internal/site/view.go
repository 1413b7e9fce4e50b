package site

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
)

// Link is a rendered hyperlink.
type Link struct {
	Href  string
	Label string
}

// ChoiceView is one column of a characteristic table.
type ChoiceView struct {
	Description template.HTML
	Next        *Link
	Unknown     bool
	// Species lists the potential species reachable through this choice.
	Species []Link
}

// EntryView is one glossary entry tile.
type EntryView struct {
	Text        template.HTML
	ImageHref   string
	Description template.HTML
}

// DefView is one row of a keywords table: a term with all its entries.
type DefView struct {
	Label   string
	Anchor  string
	Entries []EntryView
}

// PathStep is one decision along the route to a species.
type PathStep struct {
	Node        Link
	Description template.HTML
}

// nodeView carries everything the characteristic template needs.
type nodeView struct {
	Title       string
	ID          string
	StylesHref  string
	IndexLabel  string
	IndexHref   string
	Breadcrumbs []Link
	Graph       template.HTML
	Choices     []ChoiceView
	HasSpecies  bool
	Defs        []DefView
	Anchor      string
}

// speciesView carries everything the species template needs.
type speciesView struct {
	Title      string
	Name       string
	InfoURL    string
	StylesHref string
	IndexLabel string
	IndexHref  string
	Graph      template.HTML
	Pathway    []PathStep
	Defs       []DefView
	Anchor     string
}

// indexView carries the landing page model.
type indexView struct {
	Title       string
	Description template.HTML
	StylesHref  string
	StartHref   string
	SpeciesHref string
	DictHref    string
}

// speciesListView carries the model of the page listing every species in
// the key.
type speciesListView struct {
	Title      string
	StylesHref string
	IndexLabel string
	IndexHref  string
	Items      []Link
	Anchor     string
}

// dictionaryView carries the model of the full glossary page.
type dictionaryView struct {
	Title      string
	StylesHref string
	IndexLabel string
	IndexHref  string
	Defs       []DefView
	Anchor     string
}

// buildNodeView assembles the page model for one characteristic.
func (g *Generator) buildNodeView(id string, l linker) (*nodeView, error) {
	chain, err := g.idx.AncestorChain(id)
	if err != nil {
		return nil, err
	}

	view := &nodeView{
		Title:      fmt.Sprintf("%s - %s", g.title, g.translate(id)),
		ID:         g.translate(id),
		StylesHref: l.styles(),
		IndexLabel: g.translate("Main page"),
		IndexHref:  l.index(),
		Anchor:     "page-" + PageSlug(id),
	}

	// Breadcrumbs: every ancestor up to, not including, the node itself.
	for _, step := range chain[:len(chain)-1] {
		view.Breadcrumbs = append(view.Breadcrumbs, Link{Href: l.node(step.ID), Label: g.translate(step.ID)})
	}

	graph, err := g.renderGraph(id, l)
	if err != nil {
		return nil, err
	}
	view.Graph = graph

	var matched []domain.DefinitionTerm
	for i, choice := range g.model.Choices(id) {
		annotated := g.annotator.AnnotatePage("page-"+PageSlug(id), choice.Description)
		matched = append(matched, annotated.Terms...)

		cv := ChoiceView{Description: template.HTML(annotated.Text)}
		switch {
		case choice.Next != "":
			cv.Next = &Link{Href: l.node(choice.Next), Label: g.translate(choice.Next)}
			for _, label := range g.cls.Of(choice.Next) {
				cv.Species = append(cv.Species, Link{Href: l.node(label), Label: g.translate(label)})
			}
		case choice.Target != nil:
			cv.Next = &Link{Href: l.node(choice.Target.Label), Label: g.translate(choice.Target.Label)}
		default:
			cv.Unknown = true
			g.warn(domain.Warning{
				Kind:   domain.ErrDanglingReference,
				NodeID: id,
				Detail: fmt.Sprintf("choice %d leads nowhere, rendered as unknown", i),
			})
		}
		if len(cv.Species) > 0 {
			view.HasSpecies = true
		}
		view.Choices = append(view.Choices, cv)
	}

	view.Defs = g.buildDefs("page-"+PageSlug(id), matched, l)
	return view, nil
}

// buildSpeciesView assembles the page model for one species pseudo-node.
func (g *Generator) buildSpeciesView(label string, l linker) (*speciesView, error) {
	chain, err := g.idx.AncestorChain(label)
	if err != nil {
		return nil, err
	}
	if len(chain) < 2 {
		return nil, fmt.Errorf("%w: species %q has no originating choice", domain.ErrDanglingReference, label)
	}

	// The final choice carries the species target with its info URL.
	last := chain[len(chain)-1]
	parent := chain[len(chain)-2]
	var target *domain.Target
	if choices := g.model.Choices(parent.ID); last.ChoiceIndex >= 0 && last.ChoiceIndex < len(choices) {
		target = choices[last.ChoiceIndex].Target
	}
	if target == nil {
		return nil, fmt.Errorf("%w: species %q not backed by a target choice", domain.ErrDanglingReference, label)
	}

	view := &speciesView{
		Title:      fmt.Sprintf("%s - %s", g.title, target.Label),
		Name:       target.Label,
		InfoURL:    target.InfoURL,
		StylesHref: l.styles(),
		IndexLabel: g.translate("Main page"),
		IndexHref:  l.index(),
		Anchor:     "page-" + PageSlug(label),
	}

	graph, err := g.renderGraph(label, l)
	if err != nil {
		return nil, err
	}
	view.Graph = graph

	pageID := "page-" + PageSlug(label)
	var matched []domain.DefinitionTerm
	for i := 1; i < len(chain); i++ {
		step := chain[i]
		prev := chain[i-1]
		choices := g.model.Choices(prev.ID)
		if step.ChoiceIndex < 0 || step.ChoiceIndex >= len(choices) {
			continue
		}
		annotated := g.annotator.AnnotatePage(pageID, choices[step.ChoiceIndex].Description)
		matched = append(matched, annotated.Terms...)
		view.Pathway = append(view.Pathway, PathStep{
			Node:        Link{Href: l.node(prev.ID), Label: g.translate(prev.ID)},
			Description: template.HTML(annotated.Text),
		})
	}

	view.Defs = g.buildDefs(pageID, matched, l)
	return view, nil
}

// buildDefs turns matched terms into rendered keyword rows. The matched
// set is expanded transitively first: a term's own description may mention
// further terms, and those rows must be present for their anchors to
// resolve.
func (g *Generator) buildDefs(pageID string, matched []domain.DefinitionTerm, l linker) []DefView {
	if len(matched) == 0 {
		return nil
	}
	expanded := g.annotator.Expand(matched)
	sort.Slice(expanded, func(i, j int) bool { return expanded[i].Value < expanded[j].Value })

	var out []DefView
	for _, term := range expanded {
		dv := DefView{
			Label:  term.DisplayLabel(),
			Anchor: glossary.Anchor(pageID, term.Value),
		}
		for _, entry := range g.catalog.EntriesFor(term.Value) {
			ev := EntryView{}
			if entry.Text != "" {
				ev.Text = template.HTML(g.annotator.AnnotatePage(pageID, entry.Text).Text)
			}
			if entry.Description != "" {
				annotated := g.annotator.AnnotatePage(pageID, entry.Description).Text
				ev.Description = g.markdown(annotated)
			}
			if entry.Image != "" {
				ev.ImageHref = l.image(imageSlug(entry.Image))
			}
			dv.Entries = append(dv.Entries, ev)
		}
		out = append(out, dv)
	}
	return out
}

// renderGraph produces the embedded vector diagram for a page.
func (g *Generator) renderGraph(highlight string, l linker) (template.HTML, error) {
	if g.renderer == nil {
		return "", nil
	}
	raw, err := g.renderer.Render(g.idx.Nodes(), g.idx.Edges(), highlight)
	if err != nil {
		return "", fmt.Errorf("rendering graph for %s: %w", highlight, err)
	}
	return template.HTML(raw), nil
}

// imageSlug flattens a glossary-relative image path into a single img/
// file name, keeping the last directory component for uniqueness.
func imageSlug(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.ReplaceAll(lastComponents(rel, 2), "/", " ")
	return PageSlug(rel)
}

func lastComponents(path string, n int) string {
	cut := 0
	seen := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			seen++
			if seen == n {
				cut = i + 1
				break
			}
		}
	}
	return path[cut:]
}
