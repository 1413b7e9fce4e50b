package ports

import (
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
)

// ModelLoader retrieves the key model definition. Implementations decide
// where it lives (file, memory, anything else).
type ModelLoader interface {
	// LoadModel returns the parsed model. Called once per run; the result
	// is treated as immutable afterwards.
	LoadModel() (*domain.Model, error)
}

// GlossarySource retrieves the glossary records the definition catalog is
// built from.
type GlossarySource interface {
	// LoadRecords returns every glossary record, already decoded from the
	// heterogeneous file shapes.
	LoadRecords() ([]glossary.Record, error)

	// ImageDir returns the directory glossary image paths are resolved
	// against, or "" when images are not file-backed.
	ImageDir() string
}

// GraphRenderer produces a vector diagram of the key with one node
// highlighted. The core never inspects rendering internals; it embeds the
// returned bytes verbatim.
type GraphRenderer interface {
	Render(nodes []string, edges [][2]string, highlight string) ([]byte, error)
}

// Translator maps display labels to a target language. URL values pass
// through untouched; unknown keys fall back to themselves.
type Translator interface {
	Translate(key string) string
}
