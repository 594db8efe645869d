package core

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/pipeline"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/trace"
)

const diabetesText = "If HbA1c is > 7.0 % in a patient with type 2 diabetes, metformin should be initiated."

func diabetesScenario() *model.Scenario {
	return &model.Scenario{
		ID:         "diabetes-hba1c",
		Domain:     "endocrinology",
		SourceText: diabetesText,
		ExpectedAssertions: map[string][]model.Assertion{
			string(model.LayerRawText): {
				{ID: "l0-ctx", Query: "select(CONTEXT).count()", Expect: "==1"},
			},
			string(model.LayerStructuredKnowledge): {
				{ID: "l1-med", Query: "select(CONCEPT).has(type, medication).has(name, metformin)", Expect: "exists"},
				{ID: "l1-val", Query: "select(CONCEPT).has(name, hba1c).values(value)", Expect: "==7.0"},
				{ID: "l1-rel", Query: "select(RELATIONSHIP).has(type, treats)", Expect: "exists"},
			},
			string(model.LayerComputableLogic): {
				{ID: "l2-rule", Query: "select(RULE).has(action, metformin)", Expect: "exists"},
				{ID: "l2-count", Query: "select(RULE).count()", Expect: ">=1"},
			},
			string(model.LayerExecutableWorkflows): {
				{ID: "l3-steps", Query: "select(WORKFLOW_STEP).count()", Expect: "==2"},
			},
		},
	}
}

func newValidator() *GraphValidator {
	return NewGraphValidator(pipeline.Config{}, nil)
}

func TestValidateGraphFidelity_FullMarks(t *testing.T) {
	res := newValidator().ValidateGraphFidelity(diabetesScenario())

	assert.Equal(t, "diabetes-hba1c", res.ScenarioID)
	require.Len(t, res.LayerResults, 4)
	for layer, lr := range res.LayerResults {
		assert.Equal(t, 1.0, lr.Accuracy, layer)
		assert.Positive(t, lr.NodeCount, layer)
	}
	assert.Equal(t, 1.0, res.Layer1To2Accuracy)
	assert.Equal(t, 1.0, res.Layer2To3Accuracy)
	assert.Equal(t, 1.0, res.Layer3To4Accuracy)

	assert.Equal(t, 1.0, res.CrossLayerConsistency)
	assert.Equal(t, 1.0, res.SemanticConsistency)
	assert.Equal(t, 1.0, res.ClinicalAccuracy)
	assert.Equal(t, 1.0, res.OverallFidelity)

	assert.True(t, res.GraphStructureValid)
	assert.True(t, res.EvidenceTraceable)
	assert.Empty(t, res.StructuralErrors)
	assert.Empty(t, res.ClinicalErrors)
	assert.Empty(t, res.MissingEvidenceLinks)
}

func TestValidateGraphFidelity_FailedAssertionsLowerFidelity(t *testing.T) {
	sc := diabetesScenario()
	sc.ExpectedAssertions = map[string][]model.Assertion{
		string(model.LayerStructuredKnowledge): {
			{ID: "hit", Query: "select(CONCEPT).has(name, metformin)", Expect: "exists"},
			{ID: "miss", Query: "select(CONCEPT).has(name, insulin)", Expect: "exists"},
		},
	}

	res := newValidator().ValidateGraphFidelity(sc)

	assert.Equal(t, 0.5, res.Layer1To2Accuracy)
	// One scored layer plus the two consistency scores, equal weight.
	assert.InDelta(t, (0.5+1.0+1.0)/3, res.OverallFidelity, 1e-9)
}

func TestValidateGraphFidelity_UnvalidatedLayersReadZero(t *testing.T) {
	sc := diabetesScenario()
	sc.ExpectedAssertions = nil

	res := newValidator().ValidateGraphFidelity(sc)

	assert.Empty(t, res.LayerResults)
	assert.Equal(t, 0.0, res.Layer1To2Accuracy)
	assert.Equal(t, 0.0, res.Layer2To3Accuracy)
	assert.Equal(t, 0.0, res.Layer3To4Accuracy)
	// Only the consistency scores contribute.
	assert.Equal(t, 1.0, res.OverallFidelity)
}

func TestValidateGraphFidelity_EmptyText(t *testing.T) {
	sc := &model.Scenario{
		ID:         "empty",
		SourceText: "",
		ExpectedAssertions: map[string][]model.Assertion{
			string(model.LayerStructuredKnowledge): {
				{ID: "vacuous", Query: "select(CONCEPT).count()", Expect: "==0"},
			},
		},
	}
	res := newValidator().ValidateGraphFidelity(sc)
	assert.Equal(t, 1.0, res.Layer1To2Accuracy)
	assert.True(t, res.GraphStructureValid)

	sc.ExpectedAssertions[string(model.LayerStructuredKnowledge)] = []model.Assertion{
		{ID: "wanting", Query: "select(CONCEPT)", Expect: "exists"},
	}
	res = newValidator().ValidateGraphFidelity(sc)
	assert.Equal(t, 0.0, res.Layer1To2Accuracy)
}

func TestValidateGraphFidelity_Idempotent(t *testing.T) {
	v := newValidator()
	sc := diabetesScenario()

	first := v.ValidateGraphFidelity(sc)
	second := v.ValidateGraphFidelity(sc)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated validation diverged (-first +second):\n%s", diff)
	}
}

func TestValidateGremlinAssertion(t *testing.T) {
	v := newValidator()

	assert.True(t, v.ValidateGremlinAssertion(model.Assertion{
		Query: "select(CONCEPT).has(type, medication).count()", Expect: ">=1",
	}))
	assert.False(t, v.ValidateGremlinAssertion(model.Assertion{
		Query: "select(CONCEPT)", Expect: ">=1",
	}))
	assert.False(t, v.ValidateGremlinAssertion(model.Assertion{
		Query: "select(CONCEPT).count(", Expect: ">=1",
	}))
}

// --- structural / clinical / evidence checks on hand-built graphs ---

func rawNode(id string, layer model.Layer, nt model.NodeType, derivedFrom ...string) model.GraphNode {
	return model.GraphNode{
		ID:       id,
		Layer:    layer,
		Type:     nt,
		Metadata: model.Metadata{DerivedFrom: derivedFrom},
	}
}

func TestCheckStructure(t *testing.T) {
	nodes := []model.GraphNode{
		rawNode("ctx", model.LayerRawText, model.NodeContext),
		rawNode("c1", model.LayerStructuredKnowledge, model.NodeConcept, "ctx"),
		rawNode("c1", model.LayerStructuredKnowledge, model.NodeConcept, "ctx"), // duplicate id
		rawNode("orphan", model.LayerStructuredKnowledge, model.NodeConcept),
		rawNode("dangler", model.LayerStructuredKnowledge, model.NodeConcept, "ghost"),
		rawNode("r1", model.LayerComputableLogic, model.NodeRule, "ctx"),
		rawNode("early", model.LayerStructuredKnowledge, model.NodeConcept, "r1"), // forward layer
	}

	v := newValidator()
	res := &model.ValidationResult{StructuralErrors: []string{}}
	v.checkStructure(nodes, trace.NewIndex(nodes), res)

	require.Len(t, res.StructuralErrors, 4)
	joined := strings.Join(res.StructuralErrors, "\n")
	assert.Contains(t, joined, "duplicate node id c1")
	assert.Contains(t, joined, "orphan node orphan")
	assert.Contains(t, joined, "cites unknown node ghost")
	assert.Contains(t, joined, "forward layer")
}

func TestCheckClinical(t *testing.T) {
	med := model.GraphNode{
		ID: "med", Layer: model.LayerStructuredKnowledge, Type: model.NodeConcept,
		Concept: &model.ConceptContent{Name: "metformin", Type: model.ConceptMedication},
	}
	cond := model.GraphNode{
		ID: "cond", Layer: model.LayerStructuredKnowledge, Type: model.NodeConcept,
		Concept: &model.ConceptContent{Name: "stroke", Type: model.ConceptCondition},
	}
	good := model.GraphNode{
		ID: "good", Layer: model.LayerComputableLogic, Type: model.NodeRule,
		Rule: &model.RuleContent{TriggerConcept: "cond", ActionConcept: "med", ActionName: "metformin"},
	}
	restating := model.GraphNode{
		ID: "restating", Layer: model.LayerComputableLogic, Type: model.NodeRule,
		Rule: &model.RuleContent{TriggerConcept: "med", ActionConcept: "cond", ActionName: "stroke"},
	}
	nodes := []model.GraphNode{med, cond, good, restating}

	v := newValidator()
	res := &model.ValidationResult{ClinicalErrors: []string{}}
	v.checkClinical(nodes, trace.NewIndex(nodes), res)

	assert.Equal(t, 0.5, res.ClinicalAccuracy)
	require.Len(t, res.ClinicalErrors, 1)
	assert.Contains(t, res.ClinicalErrors[0], "restating")
}

func TestCheckClinical_AppendsContradictions(t *testing.T) {
	nodes := []model.GraphNode{
		{
			ID: "t", Layer: model.LayerStructuredKnowledge, Type: model.NodeRelationship,
			Relation: &model.RelationshipContent{SourceConcept: "a", TargetConcept: "b", Type: model.RelTreats},
		},
		{
			ID: "c", Layer: model.LayerStructuredKnowledge, Type: model.NodeRelationship,
			Relation: &model.RelationshipContent{SourceConcept: "b", TargetConcept: "a", Type: model.RelContraindicates},
		},
	}

	v := newValidator()
	res := &model.ValidationResult{ClinicalErrors: []string{}}
	v.checkClinical(nodes, trace.NewIndex(nodes), res)

	assert.Equal(t, 1.0, res.ClinicalAccuracy) // no rules at all
	require.Len(t, res.ClinicalErrors, 1)
	assert.Contains(t, res.ClinicalErrors[0], "contradictory")
}

func TestCheckEvidence(t *testing.T) {
	nodes := []model.GraphNode{
		{
			ID: "rel-ok", Type: model.NodeRelationship,
			Relation: &model.RelationshipContent{Type: model.RelTreats, EvidenceText: "warfarin treats af"},
		},
		{
			ID: "rel-bare", Type: model.NodeRelationship,
			Relation: &model.RelationshipContent{Type: model.RelTreats},
		},
		{
			ID: "rule-bare", Type: model.NodeRule,
			Rule: &model.RuleContent{TriggerName: "af", ActionName: "warfarin"},
		},
	}

	v := newValidator()
	res := &model.ValidationResult{MissingEvidenceLinks: []string{}}
	v.checkEvidence(nodes, res)

	assert.Equal(t, []string{"rel-bare", "rule-bare"}, res.MissingEvidenceLinks)
}

func TestCrossLayerConsistency_PartialBreak(t *testing.T) {
	nodes := []model.GraphNode{
		rawNode("ctx", model.LayerRawText, model.NodeContext),
		rawNode("linked", model.LayerStructuredKnowledge, model.NodeConcept, "ctx"),
		rawNode("broken", model.LayerStructuredKnowledge, model.NodeConcept, "ghost"),
	}

	v := newValidator()
	got := v.crossLayerConsistency(nodes, trace.NewIndex(nodes))
	assert.Equal(t, 0.5, got)
}

func TestSemanticConsistency_IncompatibleRule(t *testing.T) {
	c1 := model.GraphNode{
		ID: "c1", Layer: model.LayerStructuredKnowledge, Type: model.NodeConcept,
		Concept: &model.ConceptContent{Name: "hypertension", Type: model.ConceptCondition},
	}
	c2 := model.GraphNode{
		ID: "c2", Layer: model.LayerStructuredKnowledge, Type: model.NodeConcept,
		Concept: &model.ConceptContent{Name: "stroke", Type: model.ConceptCondition},
	}
	rule := model.GraphNode{
		ID: "r", Layer: model.LayerComputableLogic, Type: model.NodeRule,
		Rule: &model.RuleContent{TriggerConcept: "c1", ActionConcept: "c2"},
	}
	nodes := []model.GraphNode{c1, c2, rule}

	v := newValidator()
	got := v.semanticConsistency(nodes, trace.NewIndex(nodes))
	assert.Equal(t, 0.0, got)
}

// Randomized guideline fragments: whatever the pipeline builds, the graph
// must stay structurally sound and fully traceable.
func TestValidateGraphFidelity_RandomizedStructure(t *testing.T) {
	fragments := []string{
		"Hypertension is a risk factor for stroke.",
		"Atrial fibrillation is treated with warfarin.",
		"Warfarin requires monitoring of INR.",
		"If HbA1c is > 7.0 % then metformin should be initiated.",
		"Amlodipine should be started when systolic blood pressure exceeds 140 mmHg.",
		"Aspirin is contraindicated in peptic ulcer disease.",
		"The weather was unremarkable that day.",
		"",
	}

	rng := rand.New(rand.NewSource(42))
	v := newValidator()

	for i := 0; i < 25; i++ {
		var sb strings.Builder
		for n := rng.Intn(5); n >= 0; n-- {
			sb.WriteString(fragments[rng.Intn(len(fragments))])
			sb.WriteString(" ")
		}
		sc := &model.Scenario{ID: "fuzz", SourceText: strings.TrimSpace(sb.String())}

		res := v.ValidateGraphFidelity(sc)
		assert.True(t, res.GraphStructureValid, "text: %q, errors: %v", sc.SourceText, res.StructuralErrors)
		assert.Equal(t, 1.0, res.CrossLayerConsistency, "text: %q", sc.SourceText)
		assert.True(t, res.EvidenceTraceable, "text: %q", sc.SourceText)
	}
}
