package dedupe

import (
	"strings"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// Deduplicator merges duplicate concept mentions within one text unit.
// Identity is (name, type); the surviving node keeps the highest mention
// confidence and the union of provenance references.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// MergeConcepts collapses concept nodes that share (name, type). Output
// order follows first occurrence. Non-concept nodes are passed through
// untouched.
func (d *Deduplicator) MergeConcepts(nodes []model.GraphNode) []model.GraphNode {
	merged := make([]model.GraphNode, 0, len(nodes))
	index := make(map[string]int)

	for _, n := range nodes {
		if n.Concept == nil {
			merged = append(merged, n)
			continue
		}
		key := strings.ToLower(n.Concept.Name) + "|" + string(n.Concept.Type)
		at, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, n)
			continue
		}

		keep := &merged[at]
		if n.Confidence > keep.Confidence {
			keep.Confidence = n.Confidence
		}
		// A mention that parsed a value wins over a valueless one.
		if keep.Concept.Value == nil && n.Concept.Value != nil {
			keep.Concept.Value = n.Concept.Value
			keep.Concept.Operator = n.Concept.Operator
			keep.Concept.Unit = n.Concept.Unit
		}
		keep.Metadata.DerivedFrom = unionIDs(keep.Metadata.DerivedFrom, n.Metadata.DerivedFrom)
	}
	return merged
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			a = append(a, id)
		}
	}
	return a
}
