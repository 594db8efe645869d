package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/pipeline"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/scenario"
)

func cardiologyScenarios() []model.Scenario {
	return []model.Scenario{
		{
			ID:         "af-warfarin",
			Domain:     "cardiology",
			SourceText: "Atrial fibrillation is treated with warfarin. Warfarin requires monitoring of INR.",
			ExpectedAssertions: map[string][]model.Assertion{
				string(model.LayerStructuredKnowledge): {
					{ID: "rel", Query: "select(RELATIONSHIP).has(type, treats)", Expect: "exists"},
				},
				string(model.LayerComputableLogic): {
					{ID: "rule", Query: "select(RULE).has(action, warfarin)", Expect: "exists"},
				},
				string(model.LayerExecutableWorkflows): {
					{ID: "monitor", Query: "select(WORKFLOW_STEP).has(monitor, inr)", Expect: "exists"},
				},
			},
		},
		{
			ID:         "htn-stroke",
			Domain:     "cardiology",
			SourceText: "Hypertension is a risk factor for stroke. If systolic blood pressure exceeds 140 mmHg, amlodipine should be started.",
			ExpectedAssertions: map[string][]model.Assertion{
				string(model.LayerStructuredKnowledge): {
					{ID: "risk", Query: "select(RELATIONSHIP).has(type, risk_factor)", Expect: "exists"},
				},
				string(model.LayerComputableLogic): {
					{ID: "rules", Query: "select(RULE).count()", Expect: "==1"},
				},
			},
		},
	}
}

func TestValidateDomain(t *testing.T) {
	loader := scenario.NewMemRepository(cardiologyScenarios()...)
	v := NewGraphValidator(pipeline.Config{}, nil)

	outcomes, err := v.ValidateDomain(context.Background(), loader, "cardiology", 4)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	// Stable order by scenario id, regardless of worker scheduling.
	assert.Equal(t, "af-warfarin", outcomes[0].ScenarioID)
	assert.Equal(t, "htn-stroke", outcomes[1].ScenarioID)

	for _, o := range outcomes {
		require.NoError(t, o.Err)
		require.NotNil(t, o.Result, o.ScenarioID)
		assert.GreaterOrEqual(t, o.Result.OverallFidelity, 0.9, o.ScenarioID)
		assert.True(t, o.Result.GraphStructureValid, o.ScenarioID)
	}
}

func TestValidateDomain_ScenariosDoNotInterfere(t *testing.T) {
	loader := scenario.NewMemRepository(cardiologyScenarios()...)
	v := NewGraphValidator(pipeline.Config{}, nil)

	batched, err := v.ValidateDomain(context.Background(), loader, "cardiology", 2)
	require.NoError(t, err)

	for _, o := range batched {
		sc, err := loader.LoadScenario(context.Background(), o.ScenarioID)
		require.NoError(t, err)
		solo := v.ValidateGraphFidelity(sc)
		assert.Equal(t, solo.OverallFidelity, o.Result.OverallFidelity, o.ScenarioID)
		assert.Equal(t, solo.LayerResults, o.Result.LayerResults, o.ScenarioID)
	}
}

func TestValidateDomain_UnknownDomain(t *testing.T) {
	loader := scenario.NewMemRepository(cardiologyScenarios()...)
	v := NewGraphValidator(pipeline.Config{}, nil)

	outcomes, err := v.ValidateDomain(context.Background(), loader, "nephrology", 2)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestValidateDomain_CancelledContext(t *testing.T) {
	loader := scenario.NewMemRepository(cardiologyScenarios()...)
	v := NewGraphValidator(pipeline.Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := v.ValidateDomain(ctx, loader, "cardiology", 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Error(t, o.Err, o.ScenarioID)
		assert.Nil(t, o.Result, o.ScenarioID)
	}
}
