package index

import (
	"fmt"
	"log/slog"

	"github.com/dichokey/dichokey/pkg/domain"
)

// Kind distinguishes the two node flavors held by the arena.
type Kind int

const (
	// KindCharacteristic is a decision point of the key.
	KindCharacteristic Kind = iota
	// KindSpecies is a pseudo-node created for a target label.
	KindSpecies
)

// Edge is one directed connection of the graph, expressed over arena
// handles. ChoiceIndex is the position of the originating choice within the
// source characteristic.
type Edge struct {
	From        int
	To          int
	ChoiceIndex int
}

// Step is one element of an ancestor chain or a parent set, expressed over
// node ids. ChoiceIndex is the index of the choice in the parent that leads
// here; it is -1 for the root, which has no parent.
type Step struct {
	ID          string
	ChoiceIndex int
}

// Index is the bidirectional navigation structure derived from a Model.
// Nodes live in a stable-indexed arena keyed by their string id; edges are
// index pairs. The index is read-only after Build and safe for concurrent
// readers.
type Index struct {
	ids  []string
	kind []Kind
	byID map[string]int

	forward [][]Edge
	reverse [][]Edge

	warnings []domain.Warning
}

// Option configures index construction.
type Option func(*builder)

type builder struct {
	logger *slog.Logger
}

// WithLogger makes the build pass log ambiguity warnings as it finds them.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) { b.logger = logger }
}

// Build derives the navigation index from a model in a single linear pass
// over all nodes and their choices. Choices with a "next" contribute a
// characteristic edge, choices with a target contribute a species
// pseudo-node edge, dangling choices contribute nothing.
//
// The reverse direction is stored as a set: a node discovered with more
// than one incoming edge violates the tree assumption and is surfaced as an
// AmbiguousParent warning instead of silently keeping the last writer.
func Build(model *domain.Model, opts ...Option) (*Index, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	b := builder{}
	for _, opt := range opts {
		opt(&b)
	}

	idx := &Index{byID: make(map[string]int)}

	// Characteristics first so their handles follow model order.
	for _, id := range model.Order {
		idx.intern(id, KindCharacteristic)
	}

	for _, id := range model.Order {
		from := idx.byID[id]
		for i, c := range model.Nodes[id] {
			switch {
			case c.Next != "":
				to := idx.byID[c.Next]
				idx.link(Edge{From: from, To: to, ChoiceIndex: i})
			case c.Target != nil:
				to := idx.intern(c.Target.Label, KindSpecies)
				idx.link(Edge{From: from, To: to, ChoiceIndex: i})
			}
		}
	}

	for handle, incoming := range idx.reverse {
		if len(incoming) <= 1 {
			continue
		}
		w := domain.Warning{
			Kind:   domain.ErrAmbiguousParent,
			NodeID: idx.ids[handle],
			Detail: fmt.Sprintf("%d incoming edges; breadcrumbs use the first one", len(incoming)),
		}
		idx.warnings = append(idx.warnings, w)
		if b.logger != nil {
			b.logger.Warn("node has multiple parents", "node", w.NodeID, "parents", len(incoming))
		}
	}

	return idx, nil
}

func (x *Index) intern(id string, kind Kind) int {
	if handle, ok := x.byID[id]; ok {
		return handle
	}
	handle := len(x.ids)
	x.ids = append(x.ids, id)
	x.kind = append(x.kind, kind)
	x.byID[id] = handle
	x.forward = append(x.forward, nil)
	x.reverse = append(x.reverse, nil)
	return handle
}

func (x *Index) link(e Edge) {
	x.forward[e.From] = append(x.forward[e.From], e)
	x.reverse[e.To] = append(x.reverse[e.To], e)
}

// Contains reports whether the id is known to the graph, as either a
// characteristic or a species pseudo-node.
func (x *Index) Contains(id string) bool {
	_, ok := x.byID[id]
	return ok
}

// IsSpecies reports whether the id names a species pseudo-node.
func (x *Index) IsSpecies(id string) bool {
	handle, ok := x.byID[id]
	return ok && x.kind[handle] == KindSpecies
}

// Nodes returns every node id in arena order: characteristics in model
// order, then species in discovery order.
func (x *Index) Nodes() []string {
	out := make([]string, len(x.ids))
	copy(out, x.ids)
	return out
}

// Species returns the species pseudo-node ids in discovery order.
func (x *Index) Species() []string {
	var out []string
	for handle, id := range x.ids {
		if x.kind[handle] == KindSpecies {
			out = append(out, id)
		}
	}
	return out
}

// Edges returns every forward edge over ids, in arena order. Used by graph
// renderers.
func (x *Index) Edges() [][2]string {
	var out [][2]string
	for _, edges := range x.forward {
		for _, e := range edges {
			out = append(out, [2]string{x.ids[e.From], x.ids[e.To]})
		}
	}
	return out
}

// Children returns the ordered child ids reachable from a node through its
// choices. Nil for an unknown id or a species pseudo-node.
func (x *Index) Children(id string) []string {
	handle, ok := x.byID[id]
	if !ok {
		return nil
	}
	edges := x.forward[handle]
	if len(edges) == 0 {
		return nil
	}
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, x.ids[e.To])
	}
	return out
}

// ChildSteps returns children together with the index of the choice that
// leads to each of them.
func (x *Index) ChildSteps(id string) []Step {
	handle, ok := x.byID[id]
	if !ok {
		return nil
	}
	edges := x.forward[handle]
	out := make([]Step, 0, len(edges))
	for _, e := range edges {
		out = append(out, Step{ID: x.ids[e.To], ChoiceIndex: e.ChoiceIndex})
	}
	return out
}

// Parents returns every parent of a node, one Step per incoming edge. The
// general multi-parent view; tree-shaped keys always yield at most one.
func (x *Index) Parents(id string) []Step {
	handle, ok := x.byID[id]
	if !ok {
		return nil
	}
	incoming := x.reverse[handle]
	out := make([]Step, 0, len(incoming))
	for _, e := range incoming {
		out = append(out, Step{ID: x.ids[e.From], ChoiceIndex: e.ChoiceIndex})
	}
	return out
}

// Parent returns the tree-mode parent: the first incoming edge recorded in
// model order. False when the node is the root or unknown.
func (x *Index) Parent(id string) (Step, bool) {
	handle, ok := x.byID[id]
	if !ok || len(x.reverse[handle]) == 0 {
		return Step{}, false
	}
	e := x.reverse[handle][0]
	return Step{ID: x.ids[e.From], ChoiceIndex: e.ChoiceIndex}, true
}

// AncestorChain walks the reverse edges from id back to a node with no
// parent and returns the chain in root-to-leaf order. The last element is
// the queried id; the first has ChoiceIndex -1.
//
// The walk is iterative with an explicit visited set: a revisited id means
// the model is cyclic and the walk fails with a CycleError instead of
// looping forever.
func (x *Index) AncestorChain(id string) ([]Step, error) {
	handle, ok := x.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNode, id)
	}

	visited := map[int]struct{}{handle: {}}
	chain := []Step{{ID: id, ChoiceIndex: -1}}

	for len(x.reverse[handle]) > 0 {
		e := x.reverse[handle][0]
		chain[len(chain)-1].ChoiceIndex = e.ChoiceIndex
		if _, seen := visited[e.From]; seen {
			walked := make([]string, 0, len(chain)+1)
			walked = append(walked, x.ids[e.From])
			for i := len(chain) - 1; i >= 0; i-- {
				walked = append(walked, chain[i].ID)
			}
			return nil, &domain.CycleError{Chain: walked}
		}
		visited[e.From] = struct{}{}
		chain = append(chain, Step{ID: x.ids[e.From], ChoiceIndex: -1})
		handle = e.From
	}

	// Reverse into root-to-leaf order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Warnings returns the defects found during construction, ambiguous
// parents among them.
func (x *Index) Warnings() []domain.Warning {
	return x.warnings
}
