// Package scenario resolves scenario ids and domains to source text plus
// expected assertions. Loaders are the engine's only I/O.
package scenario

import (
	"context"
	"errors"
	"sort"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// ErrScenarioNotFound is returned for unknown scenario ids. It is fatal to
// that scenario's run only, never to a batch.
var ErrScenarioNotFound = errors.New("scenario not found")

// Loader fetches read-only scenarios.
type Loader interface {
	LoadScenario(ctx context.Context, id string) (*model.Scenario, error)
	// LoadScenariosByDomain returns the domain's scenarios in stable order
	// by id. No matches is an empty slice, not an error.
	LoadScenariosByDomain(ctx context.Context, domain string) ([]model.Scenario, error)
}

// MemRepository is an in-memory Loader for tests and embedded fixtures.
type MemRepository struct {
	scenarios map[string]model.Scenario
}

func NewMemRepository(scenarios ...model.Scenario) *MemRepository {
	r := &MemRepository{scenarios: make(map[string]model.Scenario, len(scenarios))}
	for _, sc := range scenarios {
		r.scenarios[sc.ID] = sc
	}
	return r
}

func (r *MemRepository) LoadScenario(_ context.Context, id string) (*model.Scenario, error) {
	sc, ok := r.scenarios[id]
	if !ok {
		return nil, ErrScenarioNotFound
	}
	return &sc, nil
}

func (r *MemRepository) LoadScenariosByDomain(_ context.Context, domain string) ([]model.Scenario, error) {
	var out []model.Scenario
	for _, sc := range r.scenarios {
		if sc.Domain == domain {
			out = append(out, sc)
		}
	}
	sortByID(out)
	return out, nil
}

func sortByID(scenarios []model.Scenario) {
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ID < scenarios[j].ID
	})
}
