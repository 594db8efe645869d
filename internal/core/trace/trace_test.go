package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

func node(id string, layer model.Layer, derivedFrom ...string) model.GraphNode {
	return model.GraphNode{
		ID:       id,
		Layer:    layer,
		Metadata: model.Metadata{DerivedFrom: derivedFrom},
	}
}

func TestTracesToRawText(t *testing.T) {
	nodes := []model.GraphNode{
		node("ctx", model.LayerRawText),
		node("concept", model.LayerStructuredKnowledge, "ctx"),
		node("rel", model.LayerStructuredKnowledge, "concept"),
		node("rule", model.LayerComputableLogic, "rel", "concept"),
		node("step", model.LayerExecutableWorkflows, "rule"),
	}
	ix := NewIndex(nodes)

	for i := range nodes {
		assert.True(t, ix.TracesToRawText(&nodes[i]), nodes[i].ID)
	}
}

func TestTracesToRawText_BrokenReference(t *testing.T) {
	nodes := []model.GraphNode{
		node("orphan", model.LayerStructuredKnowledge, "missing"),
	}
	ix := NewIndex(nodes)

	assert.False(t, ix.TracesToRawText(&nodes[0]))
}

func TestTracesToRawText_Cycle(t *testing.T) {
	nodes := []model.GraphNode{
		node("a", model.LayerStructuredKnowledge, "b"),
		node("b", model.LayerStructuredKnowledge, "a"),
	}
	ix := NewIndex(nodes)

	assert.False(t, ix.TracesToRawText(&nodes[0]))
	assert.False(t, ix.TracesToRawText(&nodes[1]))
}

func TestTracesToRawText_ContextIsItsOwnOrigin(t *testing.T) {
	nodes := []model.GraphNode{node("ctx", model.LayerRawText)}
	ix := NewIndex(nodes)

	assert.True(t, ix.TracesToRawText(&nodes[0]))
}

func TestResolve(t *testing.T) {
	nodes := []model.GraphNode{node("ctx", model.LayerRawText)}
	ix := NewIndex(nodes)

	got, ok := ix.Resolve("ctx")
	require.True(t, ok)
	assert.Equal(t, "ctx", got.ID)

	_, ok = ix.Resolve("nope")
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	nodes := []model.GraphNode{
		node("ctx", model.LayerRawText),
		node("concept", model.LayerStructuredKnowledge, "ctx"),
		node("rule", model.LayerComputableLogic, "concept"),
	}
	ix := NewIndex(nodes)

	chain := ix.Chain(&nodes[2])
	assert.Equal(t, []string{"concept", "ctx"}, chain)

	assert.Empty(t, ix.Chain(&nodes[0]))
}
