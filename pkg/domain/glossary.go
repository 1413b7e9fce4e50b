package domain

// DefinitionTerm is a keyword recognized inside free-form descriptions.
// Identity is the Value; Label only affects display.
type DefinitionTerm struct {
	Value         string
	Label         string
	CaseSensitive bool
}

// DisplayLabel returns the label to show for the term, falling back to the
// raw value.
func (t DefinitionTerm) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Value
}

// DefinitionEntry is one fully resolved glossary entry. A single term value
// may map to several entries (homonyms) and one entry may serve several
// term values.
type DefinitionEntry struct {
	// Terms lists every term value this entry is reachable through.
	Terms []string
	// Label is the shared display label, if any.
	Label string
	// CaseSensitive controls matching for all of the entry's term values.
	CaseSensitive bool
	// Image is an optional path to an illustration, relative to the
	// glossary file that declared it.
	Image string
	// Text is an optional short display text shown before the image.
	Text string
	// Description is an optional longer explanation; it may itself contain
	// further glossary terms.
	Description string
}

// AnnotationResult is the outcome of scanning a text for glossary terms.
type AnnotationResult struct {
	// Text is the input with every accepted match wrapped in a reference
	// marker.
	Text string
	// Terms lists the accepted terms, duplicates removed, in order of
	// first occurrence.
	Terms []DefinitionTerm
}
