package domain

import "fmt"

// Warning is a recoverable defect found while building derived data. The
// run continues; warnings are reported so partial keys stay inspectable
// during authoring.
type Warning struct {
	// Kind is one of the sentinel errors (ErrDanglingReference,
	// ErrAmbiguousParent, ErrMissingAsset).
	Kind error
	// NodeID names the characteristic or species the warning concerns.
	NodeID string
	// Detail is a human readable explanation.
	Detail string
}

func (w Warning) String() string {
	if w.NodeID == "" {
		return fmt.Sprintf("%v: %s", w.Kind, w.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", w.Kind, w.NodeID, w.Detail)
}
