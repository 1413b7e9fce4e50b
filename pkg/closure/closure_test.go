package closure_test

import (
	"encoding/json"
	"testing"

	"github.com/dichokey/dichokey/pkg/closure"
	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/dichokey/dichokey/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compute(t *testing.T, raw string) (*domain.Model, *closure.Closure) {
	t.Helper()
	var m domain.Model
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	idx, err := index.Build(&m)
	require.NoError(t, err)
	return &m, closure.Compute(&m, idx)
}

func TestCompute_SmallKey(t *testing.T) {
	_, cls := compute(t, `{"start": "1", "data": {
		"1": [
			{"description": "", "next": "2"},
			{"description": "", "target": ["SpeciesA", null]}
		],
		"2": [
			{"description": "", "target": ["SpeciesB", null]},
			{"description": "", "target": ["SpeciesC", null]}
		]
	}}`)

	assert.Equal(t, []string{"SpeciesB", "SpeciesC"}, cls.Of("2"))
	assert.Equal(t, []string{"SpeciesA", "SpeciesB", "SpeciesC"}, cls.Of("1"))

	assert.True(t, cls.Contains("1", "SpeciesA"))
	assert.False(t, cls.Contains("2", "SpeciesA"))
	assert.Equal(t, 3, cls.Len("1"))
	assert.Nil(t, cls.Of("ghost"))
}

func TestCompute_DeepChain(t *testing.T) {
	// Species attach at different depths; every ancestor accumulates its
	// whole subtree.
	model, cls := compute(t, `{"start": "a", "data": {
		"a": [
			{"description": "", "next": "b"},
			{"description": "", "target": ["S1", null]}
		],
		"b": [
			{"description": "", "next": "c"},
			{"description": "", "target": ["S2", null]}
		],
		"c": [{"description": "", "target": ["S3", null]}]
	}}`)

	assert.Equal(t, []string{"S3"}, cls.Of("c"))
	assert.Equal(t, []string{"S2", "S3"}, cls.Of("b"))
	assert.Equal(t, []string{"S1", "S2", "S3"}, cls.Of("a"))

	// Every node's closure contains each child's closure.
	for _, id := range model.Order {
		for _, choice := range model.Choices(id) {
			if choice.Next == "" {
				continue
			}
			for _, label := range cls.Of(choice.Next) {
				assert.True(t, cls.Contains(id, label),
					"closure of %s must contain %s from child %s", id, label, choice.Next)
			}
		}
	}
}

func TestCompute_SharedDescendant(t *testing.T) {
	// Both b and c funnel into d: a diamond, not a tree. The fixed point
	// must still settle and both arms see d's species.
	_, cls := compute(t, `{"start": "a", "data": {
		"a": [
			{"description": "", "next": "b"},
			{"description": "", "next": "c"}
		],
		"b": [{"description": "", "next": "d"}],
		"c": [{"description": "", "next": "d"}],
		"d": [{"description": "", "target": ["S", null]}]
	}}`)

	assert.Equal(t, []string{"S"}, cls.Of("b"))
	assert.Equal(t, []string{"S"}, cls.Of("c"))
	assert.Equal(t, []string{"S"}, cls.Of("a"))
}

func TestCompute_NodeWithOnlyNextChildren(t *testing.T) {
	// An inner node with no direct targets still aggregates through its
	// children.
	_, cls := compute(t, `{"start": "root", "data": {
		"root": [{"description": "", "next": "mid"}],
		"mid": [{"description": "", "next": "leaf"}],
		"leaf": [
			{"description": "", "target": ["X", null]},
			{"description": "", "target": ["Y", null]}
		]
	}}`)

	assert.Equal(t, []string{"X", "Y"}, cls.Of("mid"))
	assert.Equal(t, []string{"X", "Y"}, cls.Of("root"))
}

func TestCompute_DanglingChoicesContributeNothing(t *testing.T) {
	_, cls := compute(t, `{"start": "1", "data": {
		"1": [
			{"description": "unknown outcome"},
			{"description": "", "target": ["S", null]}
		]
	}}`)
	assert.Equal(t, []string{"S"}, cls.Of("1"))
}
