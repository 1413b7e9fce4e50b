package closure

import (
	"sort"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/index"
)

// Closure maps every characteristic id to the set of species labels
// reachable anywhere in its subtree. Read-only after Compute.
type Closure struct {
	species map[string]map[string]struct{}
}

// Compute derives the species closure of every characteristic.
//
// The worklist is seeded with the leaves of the key: nodes where no choice
// has a "next". A node's closure is the union of the target labels attached
// directly to its own choices and the closures of its "next" children.
// Processing a node re-queues its parents, so the computation climbs from
// the leaves to the root.
//
// Tree-shaped keys converge in one visit per node. For keys with shared
// descendants a node may be visited again after a child's closure grew; the
// loop keeps a dirty set and runs to a fixed point, so DAGs settle too.
func Compute(model *domain.Model, idx *index.Index) *Closure {
	c := &Closure{species: make(map[string]map[string]struct{}, model.Len())}

	var queue []string
	queued := make(map[string]struct{})
	enqueue := func(id string) {
		if _, ok := queued[id]; ok {
			return
		}
		queued[id] = struct{}{}
		queue = append(queue, id)
	}

	for _, id := range model.Order {
		leaf := true
		for _, choice := range model.Nodes[id] {
			if choice.Next != "" {
				leaf = false
				break
			}
		}
		if leaf {
			enqueue(id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		delete(queued, id)

		set := make(map[string]struct{})
		for _, choice := range model.Nodes[id] {
			if choice.Target != nil {
				set[choice.Target.Label] = struct{}{}
			}
			if choice.Next == "" {
				continue
			}
			// A child not yet computed contributes nothing now; once it
			// is, this node gets re-queued through the parent walk below.
			for label := range c.species[choice.Next] {
				set[label] = struct{}{}
			}
		}

		// The first visit always counts as a change, even when the set is
		// empty: parents still need their own direct targets folded in.
		prev, computed := c.species[id]
		if computed && !grew(prev, set) {
			continue
		}
		c.species[id] = set

		for _, parent := range idx.Parents(id) {
			if model.Has(parent.ID) {
				enqueue(parent.ID)
			}
		}
	}

	return c
}

// grew reports whether next holds anything prev does not. Closures only
// ever grow, so subset comparison is enough to detect the fixed point.
func grew(prev, next map[string]struct{}) bool {
	if len(next) > len(prev) {
		return true
	}
	for label := range next {
		if _, ok := prev[label]; !ok {
			return true
		}
	}
	return false
}

// Of returns the sorted species labels reachable beneath a node. Nil for an
// unknown id or a node with an empty subtree.
func (c *Closure) Of(id string) []string {
	set, ok := c.species[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for label := range set {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether the species label occurs beneath the node.
func (c *Closure) Contains(id, label string) bool {
	_, ok := c.species[id][label]
	return ok
}

// Len returns the closure size of a node.
func (c *Closure) Len(id string) int {
	return len(c.species[id])
}
