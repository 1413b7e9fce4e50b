// Package memory implements in-memory model and glossary sources, used by
// tests and by hosts that embed the engine with data they already hold.
package memory

import (
	"encoding/json"
	"fmt"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
)

// ModelLoader serves a model that already lives in memory.
type ModelLoader struct {
	model *domain.Model
}

// NewModelLoader wraps an existing model value.
func NewModelLoader(model *domain.Model) *ModelLoader {
	return &ModelLoader{model: model}
}

// NewModelLoaderJSON parses a model from raw JSON. Handy for test
// fixtures written as literals.
func NewModelLoaderJSON(raw string) (*ModelLoader, error) {
	var model domain.Model
	if err := json.Unmarshal([]byte(raw), &model); err != nil {
		return nil, err
	}
	return &ModelLoader{model: &model}, nil
}

// LoadModel validates and returns the wrapped model.
func (l *ModelLoader) LoadModel() (*domain.Model, error) {
	if l.model == nil {
		return nil, fmt.Errorf("%w: no model provided", domain.ErrMalformedModel)
	}
	if err := l.model.Validate(); err != nil {
		return nil, err
	}
	return l.model, nil
}

// GlossarySource serves glossary records that already live in memory.
type GlossarySource struct {
	records []glossary.Record
}

// NewGlossarySource wraps existing records.
func NewGlossarySource(records ...glossary.Record) *GlossarySource {
	return &GlossarySource{records: records}
}

// LoadRecords returns the wrapped records.
func (s *GlossarySource) LoadRecords() ([]glossary.Record, error) {
	return s.records, nil
}

// ImageDir returns ""; in-memory glossaries carry no file-backed images.
func (s *GlossarySource) ImageDir() string { return "" }
