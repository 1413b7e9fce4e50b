package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedModel indicates the model file does not parse or required keys
// are absent. Fatal: every derived index depends on a consistent model.
var ErrMalformedModel = errors.New("malformed model")

// ErrDanglingReference indicates a "next" id not present in the model, or a
// page request for a species that was never produced.
var ErrDanglingReference = errors.New("dangling reference")

// ErrCycleDetected indicates the ancestor-chain walk revisited a node.
var ErrCycleDetected = errors.New("cycle detected")

// ErrMissingAsset indicates a glossary image file is absent. Warning only;
// generation proceeds without the image.
var ErrMissingAsset = errors.New("missing asset")

// ErrAmbiguousParent indicates a node with more than one incoming edge,
// violating the tree assumption of the key.
var ErrAmbiguousParent = errors.New("ambiguous parent")

// ErrUnknownNode indicates a query for an id the graph has never seen.
var ErrUnknownNode = errors.New("unknown node")

// CycleError reports the offending chain of a detected cycle so the broken
// path can be fixed in the source model.
type CycleError struct {
	// Chain holds the walked ids in visit order; the last entry is the id
	// that was seen twice.
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Chain, " -> "))
}

// Unwrap makes errors.Is(err, ErrCycleDetected) hold.
func (e *CycleError) Unwrap() error { return ErrCycleDetected }
