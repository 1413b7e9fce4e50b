package memory_test

import (
	"testing"

	"github.com/dichokey/dichokey/pkg/adapters/memory"
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/glossary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelLoaderJSON(t *testing.T) {
	loader, err := memory.NewModelLoaderJSON(`{"start": "1", "data": {
		"1": [{"description": "", "target": ["S", null]}]
	}}`)
	require.NoError(t, err)

	model, err := loader.LoadModel()
	require.NoError(t, err)
	assert.Equal(t, "1", model.Start)
}

func TestModelLoader_ValidatesOnLoad(t *testing.T) {
	loader := memory.NewModelLoader(&domain.Model{Start: "ghost"})
	_, err := loader.LoadModel()
	assert.ErrorIs(t, err, domain.ErrMalformedModel)
}

func TestModelLoader_NilModel(t *testing.T) {
	loader := memory.NewModelLoader(nil)
	_, err := loader.LoadModel()
	assert.ErrorIs(t, err, domain.ErrMalformedModel)
}

func TestGlossarySource(t *testing.T) {
	src := memory.NewGlossarySource(glossary.Record{Defs: []string{"petiole"}})
	records, err := src.LoadRecords()
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "", src.ImageDir())
}
