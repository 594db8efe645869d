package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(model.ConceptMeasurement, model.ConceptMedication))
	assert.True(t, Compatible(model.ConceptCondition, model.ConceptAction))

	assert.False(t, Compatible(model.ConceptCondition, model.ConceptCondition))
	assert.False(t, Compatible(model.ConceptMedication, model.ConceptMedication))
	assert.False(t, Compatible(model.ConceptMeasurement, model.ConceptMeasurement))
	assert.False(t, Compatible(model.ConceptAction, model.ConceptMedication))
}

func TestRecommends(t *testing.T) {
	assert.True(t, Recommends(model.ConceptMedication))
	assert.True(t, Recommends(model.ConceptAction))
	assert.False(t, Recommends(model.ConceptCondition))
	assert.False(t, Recommends(model.ConceptMeasurement))
}

func rel(id string, rt model.RelationType, src, tgt string) model.GraphNode {
	return model.GraphNode{
		ID:    id,
		Layer: model.LayerStructuredKnowledge,
		Type:  model.NodeRelationship,
		Relation: &model.RelationshipContent{
			SourceConcept: src,
			TargetConcept: tgt,
			Type:          rt,
		},
	}
}

func TestFindContradictions(t *testing.T) {
	nodes := []model.GraphNode{
		rel("r-1", model.RelTreats, "warfarin", "atrial fibrillation"),
		rel("r-2", model.RelContraindicates, "warfarin", "atrial fibrillation"),
	}

	errs := FindContradictions(nodes)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "r-1")
	assert.Contains(t, errs[0], "r-2")
}

func TestFindContradictions_UnorderedEndpoints(t *testing.T) {
	nodes := []model.GraphNode{
		rel("r-1", model.RelTreats, "warfarin", "atrial fibrillation"),
		rel("r-2", model.RelContraindicates, "atrial fibrillation", "warfarin"),
	}

	assert.Len(t, FindContradictions(nodes), 1)
}

func TestFindContradictions_Clean(t *testing.T) {
	nodes := []model.GraphNode{
		rel("r-1", model.RelTreats, "warfarin", "atrial fibrillation"),
		rel("r-2", model.RelContraindicates, "aspirin", "peptic ulcer"),
		rel("r-3", model.RelMonitors, "inr", "warfarin"),
	}

	assert.Empty(t, FindContradictions(nodes))
}
