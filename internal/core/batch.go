package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/scenario"
)

// ScenarioOutcome pairs one scenario of a batch with its result or its
// failure. Failures are isolated: a bad scenario never aborts the batch.
type ScenarioOutcome struct {
	ScenarioID string                  `json:"scenario_id"`
	Result     *model.ValidationResult `json:"result,omitempty"`
	Err        error                   `json:"-"`
}

// ValidateDomain validates every scenario of a domain, one scenario per
// worker. Runs share no state, so no locks are needed; ctx cancellation
// stops scheduling of further scenarios.
func (v *GraphValidator) ValidateDomain(ctx context.Context, loader scenario.Loader, domain string, workers int) ([]ScenarioOutcome, error) {
	scenarios, err := loader.LoadScenariosByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]ScenarioOutcome, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range scenarios {
		i := i
		sc := scenarios[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = ScenarioOutcome{ScenarioID: sc.ID, Err: err}
				return nil
			}
			outcomes[i] = ScenarioOutcome{
				ScenarioID: sc.ID,
				Result:     v.ValidateGraphFidelity(&sc),
			}
			return nil
		})
	}
	// Workers never return errors; per-scenario failures live in outcomes.
	_ = g.Wait()
	return outcomes, nil
}
