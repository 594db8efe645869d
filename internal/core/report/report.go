// Package report renders ValidationResults for consumers: a flat record
// for CI pipelines and a short text summary for humans.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// Flatten converts a ValidationResult into a single-level record keyed the
// way CI reporting expects.
func Flatten(r *model.ValidationResult) map[string]interface{} {
	out := map[string]interface{}{
		"scenario_id":             r.ScenarioID,
		"cross_layer_consistency": r.CrossLayerConsistency,
		"semantic_consistency":    r.SemanticConsistency,
		"overall_fidelity":        r.OverallFidelity,
		"graph_structure_valid":   r.GraphStructureValid,
		"structural_errors":       r.StructuralErrors,
		"clinical_accuracy":       r.ClinicalAccuracy,
		"clinical_errors":         r.ClinicalErrors,
		"evidence_traceable":      r.EvidenceTraceable,
		"missing_evidence_links":  r.MissingEvidenceLinks,
		"layer_1_to_2_accuracy":   r.Layer1To2Accuracy,
		"layer_2_to_3_accuracy":   r.Layer2To3Accuracy,
		"layer_3_to_4_accuracy":   r.Layer3To4Accuracy,
	}
	for layer, lr := range r.LayerResults {
		key := strings.ToLower(string(layer))
		out["layer_results."+key+".accuracy"] = lr.Accuracy
		out["layer_results."+key+".node_count"] = lr.NodeCount
	}
	return out
}

// Summary renders a compact human-readable report.
func Summary(r *model.ValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s: fidelity %.3f\n", r.ScenarioID, r.OverallFidelity)

	layers := make([]model.Layer, 0, len(r.LayerResults))
	for layer := range r.LayerResults {
		layers = append(layers, layer)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Ordinal() < layers[j].Ordinal() })
	for _, layer := range layers {
		lr := r.LayerResults[layer]
		fmt.Fprintf(&b, "  %-22s accuracy %.3f (%d nodes)\n", layer, lr.Accuracy, lr.NodeCount)
	}

	fmt.Fprintf(&b, "  cross-layer consistency %.3f, semantic consistency %.3f\n",
		r.CrossLayerConsistency, r.SemanticConsistency)
	fmt.Fprintf(&b, "  clinical accuracy %.3f\n", r.ClinicalAccuracy)

	if !r.GraphStructureValid {
		fmt.Fprintf(&b, "  structure INVALID: %s\n", strings.Join(r.StructuralErrors, "; "))
	}
	if !r.EvidenceTraceable {
		fmt.Fprintf(&b, "  missing evidence on: %s\n", strings.Join(r.MissingEvidenceLinks, ", "))
	}
	if len(r.ClinicalErrors) > 0 {
		fmt.Fprintf(&b, "  clinical errors: %s\n", strings.Join(r.ClinicalErrors, "; "))
	}
	return b.String()
}
