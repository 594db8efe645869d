package model

// LayerResult scores one validated layer: assertion pass rate and how many
// nodes the pipeline produced at that layer.
type LayerResult struct {
	Accuracy  float64 `json:"accuracy"`
	NodeCount int     `json:"node_count"`
}

// ValidationResult is the full fidelity report for one scenario run.
// LayerResults only contains layers the scenario declared assertions for,
// so "not validated" stays distinguishable from "validated and scored 0".
type ValidationResult struct {
	ScenarioID   string                `json:"scenario_id"`
	LayerResults map[Layer]LayerResult `json:"layer_results"`

	CrossLayerConsistency float64 `json:"cross_layer_consistency"`
	SemanticConsistency   float64 `json:"semantic_consistency"`
	OverallFidelity       float64 `json:"overall_fidelity"`

	GraphStructureValid bool     `json:"graph_structure_valid"`
	StructuralErrors    []string `json:"structural_errors"`

	ClinicalAccuracy float64  `json:"clinical_accuracy"`
	ClinicalErrors   []string `json:"clinical_errors"`

	EvidenceTraceable    bool     `json:"evidence_traceable"`
	MissingEvidenceLinks []string `json:"missing_evidence_links"`

	Layer1To2Accuracy float64 `json:"layer_1_to_2_accuracy"`
	Layer2To3Accuracy float64 `json:"layer_2_to_3_accuracy"`
	Layer3To4Accuracy float64 `json:"layer_3_to_4_accuracy"`
}
