// Package file implements file-backed sources for the key model, the
// glossary records and the translation dictionary.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
	"gopkg.in/yaml.v3"
)

// ModelLoader reads the model from a single JSON document of the form
// {"start": ..., "data": {...}}.
type ModelLoader struct {
	Path string
}

// NewModelLoader creates a loader for the given model file.
func NewModelLoader(path string) *ModelLoader {
	return &ModelLoader{Path: path}
}

// LoadModel parses and validates the model file.
func (l *ModelLoader) LoadModel() (*domain.Model, error) {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedModel, err)
	}
	var model domain.Model
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

// GlossarySource reads glossary records from a directory of JSON files.
// Each file holds either a single record object or an array of records;
// both shapes normalize into the same entry type downstream.
type GlossarySource struct {
	Dir string
}

// NewGlossarySource creates a source over a glossary directory. An empty
// dir yields an empty catalog.
func NewGlossarySource(dir string) *GlossarySource {
	return &GlossarySource{Dir: dir}
}

// LoadRecords decodes every *.json file in the glossary directory, sorted
// by name so catalog entry order is reproducible.
func (s *GlossarySource) LoadRecords() ([]glossary.Record, error) {
	if s.Dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading glossary dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var records []glossary.Record
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading glossary file %s: %w", name, err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing glossary file %s: %w", name, err)
		}
		decoded, err := glossary.DecodeRecords(doc)
		if err != nil {
			return nil, fmt.Errorf("glossary file %s: %w", name, err)
		}
		records = append(records, decoded...)
	}
	return records, nil
}

// ImageDir resolves glossary image paths against the glossary directory.
func (s *GlossarySource) ImageDir() string { return s.Dir }

// Translations is a flat label dictionary loaded from a YAML or JSON file.
type Translations struct {
	labels map[string]string
}

// LoadTranslations reads a translation dictionary. YAML is a superset of
// JSON here, so one decoder covers both formats the authoring side uses.
func LoadTranslations(path string) (*Translations, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading translation file: %w", err)
	}
	labels := make(map[string]string)
	if err := yaml.Unmarshal(raw, &labels); err != nil {
		return nil, fmt.Errorf("parsing translation file: %w", err)
	}
	return &Translations{labels: labels}, nil
}

// Translate returns the translated label, or the key itself when no
// translation exists.
func (t *Translations) Translate(key string) string {
	if t == nil {
		return key
	}
	if v, ok := t.labels[key]; ok {
		return v
	}
	return key
}
