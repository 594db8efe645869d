// Package consistency holds the semantic checks applied to derived nodes:
// trigger/action type compatibility and contradictory relationship pairs.
package consistency

import (
	"fmt"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// Compatible reports whether a trigger/action concept-type pairing makes
// clinical sense: a measurement or condition trigger must pair with a
// medication or action, never with another measurement or condition.
func Compatible(trigger, action model.ConceptType) bool {
	triggerOK := trigger == model.ConceptMeasurement || trigger == model.ConceptCondition
	actionOK := action == model.ConceptMedication || action == model.ConceptAction
	return triggerOK && actionOK
}

// Recommends reports whether a rule's resulting concept type actually
// recommends something. A rule whose action is a condition or measurement
// restates instead of recommending.
func Recommends(action model.ConceptType) bool {
	return action == model.ConceptMedication || action == model.ConceptAction
}

// FindContradictions scans relationship nodes for treats/contraindicates
// pairs over the same concept endpoints. Endpoints are compared unordered:
// "X treats Y" conflicts with "Y is contraindicated in X" either way round.
func FindContradictions(nodes []model.GraphNode) []string {
	type link struct {
		node *model.GraphNode
		rt   model.RelationType
	}
	byPair := make(map[string][]link)

	key := func(a, b string) string {
		if a > b {
			a, b = b, a
		}
		return a + "|" + b
	}

	for i := range nodes {
		n := &nodes[i]
		if n.Relation == nil {
			continue
		}
		rt := n.Relation.Type
		if rt != model.RelTreats && rt != model.RelContraindicates {
			continue
		}
		k := key(n.Relation.SourceConcept, n.Relation.TargetConcept)
		byPair[k] = append(byPair[k], link{node: n, rt: rt})
	}

	var errs []string
	for _, links := range byPair {
		var treats, contra *model.GraphNode
		for _, l := range links {
			if l.rt == model.RelTreats {
				treats = l.node
			} else {
				contra = l.node
			}
		}
		if treats != nil && contra != nil {
			errs = append(errs, fmt.Sprintf(
				"contradictory relationships %s (treats) and %s (contraindicates) over the same concepts",
				treats.ID, contra.ID))
		}
	}
	return errs
}
