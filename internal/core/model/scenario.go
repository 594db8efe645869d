package model

// Assertion is a declarative graph-query plus expected predicate, e.g.
// query `select(CONCEPT).has(type, medication).count()` with expect `>=1`.
type Assertion struct {
	ID     string `json:"id" yaml:"id"`
	Query  string `json:"query" yaml:"query"`
	Expect string `json:"expect" yaml:"expect"`
}

// Scenario is the persisted validation input: guideline source text plus
// the assertions each layer is expected to satisfy. Scenarios are read-only
// once loaded.
type Scenario struct {
	ID                 string                 `json:"id" yaml:"id"`
	Domain             string                 `json:"domain" yaml:"domain"`
	SourceText         string                 `json:"source_text" yaml:"source_text"`
	ExpectedAssertions map[string][]Assertion `json:"expected_assertions" yaml:"expected_assertions"`
}

// AssertionsForLayer returns the expected assertions keyed under the given
// layer name, nil when the layer is not validated by this scenario.
func (s *Scenario) AssertionsForLayer(layer Layer) []Assertion {
	if s.ExpectedAssertions == nil {
		return nil
	}
	return s.ExpectedAssertions[string(layer)]
}
