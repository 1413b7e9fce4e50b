package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dichokey/dichokey/pkg/adapters/file"
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestModelLoader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "key.json", `{"start": "1", "data": {
		"1": [{"description": "", "target": ["SpeciesA", null]}]
	}}`)

	model, err := file.NewModelLoader(path).LoadModel()
	require.NoError(t, err)
	assert.Equal(t, "1", model.Start)
	assert.Equal(t, []string{"SpeciesA"}, model.Species())
}

func TestModelLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := file.NewModelLoader(filepath.Join(dir, "absent.json")).LoadModel()
		assert.ErrorIs(t, err, domain.ErrMalformedModel)
	})

	t.Run("invalid model", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"start": "ghost", "data": {"1": []}}`)
		_, err := file.NewModelLoader(path).LoadModel()
		assert.ErrorIs(t, err, domain.ErrMalformedModel)
	})
}

func TestGlossarySource(t *testing.T) {
	dir := t.TempDir()
	// Named so lexical order differs from creation order.
	writeFile(t, dir, "b_terms.json", `[{"defs": ["gaster"], "description": "rear part"}]`)
	writeFile(t, dir, "a_terms.json", `{"defs": ["petiole"], "description": "waist"}`)
	writeFile(t, dir, "notes.txt", "ignored")

	src := file.NewGlossarySource(dir)
	records, err := src.LoadRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"petiole"}, records[0].Defs)
	assert.Equal(t, []string{"gaster"}, records[1].Defs)
	assert.Equal(t, dir, src.ImageDir())
}

func TestGlossarySource_EmptyDir(t *testing.T) {
	records, err := file.NewGlossarySource("").LoadRecords()
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestLoadTranslations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "labels.yaml", "petiole: Stielchen\n\"1\": Merkmal 1\n")

	trans, err := file.LoadTranslations(path)
	require.NoError(t, err)
	assert.Equal(t, "Stielchen", trans.Translate("petiole"))
	assert.Equal(t, "Merkmal 1", trans.Translate("1"))
	assert.Equal(t, "gaster", trans.Translate("gaster"))
}

func TestLoadTranslations_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "labels.json", `{"petiole": "Stielchen"}`)

	trans, err := file.LoadTranslations(path)
	require.NoError(t, err)
	assert.Equal(t, "Stielchen", trans.Translate("petiole"))
}
