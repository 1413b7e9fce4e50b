package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestLoad_FlatRecord(t *testing.T) {
	cat, err := Load([]Record{
		{Defs: []string{"petiole"}, Description: "stalk between thorax and gaster"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, cat.Len())
	entries := cat.EntriesFor("petiole")
	require.Len(t, entries, 1)
	assert.Equal(t, "stalk between thorax and gaster", entries[0].Description)
	assert.Nil(t, cat.EntriesFor("ghost"))
}

func TestLoad_ItemsInheritSharedFields(t *testing.T) {
	cat, err := Load([]Record{
		{
			Defs:          []string{"antenna"},
			Label:         "Antenna",
			CaseSensitive: boolPtr(false),
			Description:   "shared description",
			Items: []Item{
				{Text: "worker"},
				{Defs: []string{"antennae"}, Description: "own description"},
			},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	first := cat.EntriesFor("antenna")
	require.Len(t, first, 1)
	assert.Equal(t, "Antenna", first[0].Label)
	assert.Equal(t, "shared description", first[0].Description)
	assert.Equal(t, "worker", first[0].Text)

	second := cat.EntriesFor("antennae")
	require.Len(t, second, 1)
	assert.Equal(t, "Antenna", second[0].Label)
	assert.Equal(t, "own description", second[0].Description)
}

func TestLoad_RejectsEntryWithoutTerms(t *testing.T) {
	_, err := Load([]Record{{Description: "orphan"}})
	assert.Error(t, err)
}

func TestLoad_MissingImageBecomesWarning(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.png"), []byte("png"), 0o644))

	cat, err := Load([]Record{
		{Defs: []string{"a"}, Items: []Item{{Image: "real.png"}}},
		{Defs: []string{"b"}, Items: []Item{{Image: "gone.png"}}},
	}, WithImageDir(dir))
	require.NoError(t, err)

	assert.Equal(t, "real.png", cat.EntriesFor("a")[0].Image)
	assert.Equal(t, "", cat.EntriesFor("b")[0].Image)

	warnings := cat.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Kind, domain.ErrMissingAsset)
}

func TestCatalog_AllTermsLongestFirst(t *testing.T) {
	cat, err := Load([]Record{
		{Defs: []string{"ant", "antenna", "antennal club"}},
	})
	require.NoError(t, err)

	terms := cat.AllTerms()
	require.Len(t, terms, 3)
	assert.Equal(t, "antennal club", terms[0].Value)
	assert.Equal(t, "antenna", terms[1].Value)
	assert.Equal(t, "ant", terms[2].Value)
}

func TestCatalog_HomonymsKeepAllEntries(t *testing.T) {
	cat, err := Load([]Record{
		{Defs: []string{"scale"}, Description: "flattened petiole node"},
		{Defs: []string{"scale"}, Description: "sclerotized plate"},
	})
	require.NoError(t, err)

	entries := cat.EntriesFor("scale")
	require.Len(t, entries, 2)
	assert.Equal(t, "flattened petiole node", entries[0].Description)
	assert.Equal(t, "sclerotized plate", entries[1].Description)

	// One term despite two entries.
	assert.Len(t, cat.AllTerms(), 1)
}

func TestCatalog_CaseSensitivityResolution(t *testing.T) {
	// A value is matched case-sensitively only when every entry claiming
	// it asks for that.
	cat, err := Load([]Record{
		{Defs: []string{"M."}, CaseSensitive: boolPtr(true)},
		{Defs: []string{"M."}, CaseSensitive: boolPtr(false)},
		{Defs: []string{"F."}, CaseSensitive: boolPtr(true)},
	})
	require.NoError(t, err)

	byValue := make(map[string]domain.DefinitionTerm)
	for _, term := range cat.AllTerms() {
		byValue[term.Value] = term
	}
	assert.False(t, byValue["M."].CaseSensitive)
	assert.True(t, byValue["F."].CaseSensitive)
}

func TestNormalizeValues(t *testing.T) {
	out := normalizeValues([]string{"  petiole  node ", "petiole node", "", "ﬁn"})
	// Whitespace collapses, duplicates drop, NFKC unfolds the ligature.
	assert.Equal(t, []string{"petiole node", "fin"}, out)
}

func TestCatalog_Values(t *testing.T) {
	cat, err := Load([]Record{
		{Defs: []string{"gaster"}},
		{Defs: []string{"antenna"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"antenna", "gaster"}, cat.Values())
}

func TestDecodeRecords(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		records, err := DecodeRecords(map[string]any{
			"defs":        []any{"petiole"},
			"description": "stalk",
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, []string{"petiole"}, records[0].Defs)
	})

	t.Run("array with items", func(t *testing.T) {
		records, err := DecodeRecords([]any{
			map[string]any{
				"defs":          []any{"antenna"},
				"casesensitive": false,
				"items": []any{
					map[string]any{"image": "a.png", "text": "worker"},
				},
			},
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Len(t, records[0].Items, 1)
		assert.Equal(t, "a.png", records[0].Items[0].Image)
		require.NotNil(t, records[0].CaseSensitive)
		assert.False(t, *records[0].CaseSensitive)
	})

	t.Run("rejects scalar", func(t *testing.T) {
		_, err := DecodeRecords("nope")
		assert.Error(t, err)
	})
}
