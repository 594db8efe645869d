package core

import (
	"fmt"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/assertion"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/consistency"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/pipeline"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/trace"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/logging"
)

// GraphValidator builds a scenario's four-layer graph and scores how
// faithfully it matches the scenario's expected semantics. A validator is
// stateless across runs: every run builds an isolated node set, so one
// validator is safe for concurrent independent scenarios.
type GraphValidator struct {
	Pipeline *pipeline.Pipeline
	Log      *logging.Logger
}

func NewGraphValidator(cfg pipeline.Config, log *logging.Logger) *GraphValidator {
	if log == nil {
		log = logging.Nop()
	}
	return &GraphValidator{
		Pipeline: pipeline.New(cfg),
		Log:      log,
	}
}

// ValidateGraphFidelity runs the pipeline once and aggregates accuracy,
// consistency, traceability and overall fidelity. It always completes:
// structural problems are recorded and scored, never returned as errors.
func (v *GraphValidator) ValidateGraphFidelity(sc *model.Scenario) *model.ValidationResult {
	run := v.Pipeline.Run(sc)
	ix := trace.NewIndex(run.Nodes)

	res := &model.ValidationResult{
		ScenarioID:           sc.ID,
		LayerResults:         make(map[model.Layer]model.LayerResult),
		StructuralErrors:     []string{},
		ClinicalErrors:       []string{},
		MissingEvidenceLinks: []string{},
	}

	for layer, tr := range run.Layers {
		res.LayerResults[layer] = model.LayerResult{
			Accuracy:  tr.Accuracy,
			NodeCount: tr.NodeCount,
		}
	}
	res.Layer1To2Accuracy = run.Layers[model.LayerStructuredKnowledge].Accuracy
	res.Layer2To3Accuracy = run.Layers[model.LayerComputableLogic].Accuracy
	res.Layer3To4Accuracy = run.Layers[model.LayerExecutableWorkflows].Accuracy

	res.CrossLayerConsistency = v.crossLayerConsistency(run.Nodes, ix)
	res.SemanticConsistency = v.semanticConsistency(run.Nodes, ix)
	v.checkStructure(run.Nodes, ix, res)
	v.checkClinical(run.Nodes, ix, res)
	v.checkEvidence(run.Nodes, res)

	// Equal weight across every accuracy actually computed, plus the two
	// consistency scores.
	sum := res.CrossLayerConsistency + res.SemanticConsistency
	count := 2
	for _, tr := range run.Layers {
		sum += tr.Accuracy
		count++
	}
	res.OverallFidelity = sum / float64(count)

	res.GraphStructureValid = len(res.StructuralErrors) == 0
	res.EvidenceTraceable = len(res.MissingEvidenceLinks) == 0

	v.Log.Info("validated scenario",
		"scenario", sc.ID,
		"nodes", len(run.Nodes),
		"fidelity", res.OverallFidelity,
		"structure_valid", res.GraphStructureValid,
	)
	return res
}

// ValidateGremlinAssertion is the standalone assertion check: it reports
// whether one assertion is well-formed and internally consistent, without
// needing a built graph.
func (v *GraphValidator) ValidateGremlinAssertion(a model.Assertion) bool {
	return assertion.Validate(a)
}

// crossLayerConsistency is the fraction of non-CONTEXT nodes whose
// provenance chain resolves back to a RAW_TEXT span.
func (v *GraphValidator) crossLayerConsistency(nodes []model.GraphNode, ix *trace.Index) float64 {
	derived, traceable := 0, 0
	for i := range nodes {
		if nodes[i].Type == model.NodeContext {
			continue
		}
		derived++
		if ix.TracesToRawText(&nodes[i]) {
			traceable++
		}
	}
	if derived == 0 {
		return 1.0
	}
	return float64(traceable) / float64(derived)
}

// semanticConsistency is the fraction of RULE and WORKFLOW_STEP nodes whose
// paired concept types are compatible.
func (v *GraphValidator) semanticConsistency(nodes []model.GraphNode, ix *trace.Index) float64 {
	checked, ok := 0, 0
	for i := range nodes {
		n := &nodes[i]
		switch n.Type {
		case model.NodeRule:
			checked++
			if v.rulePairingOK(n.Rule, ix) {
				ok++
			}
		case model.NodeWorkflowStep:
			checked++
			if rule := v.sourceRule(n, ix); rule != nil && v.rulePairingOK(rule.Rule, ix) {
				ok++
			}
		}
	}
	if checked == 0 {
		return 1.0
	}
	return float64(ok) / float64(checked)
}

func (v *GraphValidator) rulePairingOK(rc *model.RuleContent, ix *trace.Index) bool {
	trigger, tok := ix.Resolve(rc.TriggerConcept)
	action, aok := ix.Resolve(rc.ActionConcept)
	if !tok || !aok || trigger.Concept == nil || action.Concept == nil {
		return false
	}
	return consistency.Compatible(trigger.Concept.Type, action.Concept.Type)
}

func (v *GraphValidator) sourceRule(step *model.GraphNode, ix *trace.Index) *model.GraphNode {
	for _, id := range step.Metadata.DerivedFrom {
		if n, ok := ix.Resolve(id); ok && n.Type == model.NodeRule {
			return n
		}
	}
	return nil
}

// checkStructure records duplicate ids, derived nodes with missing or
// unresolvable provenance, and forward references. A provenance break
// marks the graph invalid but never aborts the run.
func (v *GraphValidator) checkStructure(nodes []model.GraphNode, ix *trace.Index, res *model.ValidationResult) {
	seen := make(map[string]bool, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if seen[n.ID] {
			res.StructuralErrors = append(res.StructuralErrors,
				fmt.Sprintf("duplicate node id %s", n.ID))
		}
		seen[n.ID] = true

		if n.Type == model.NodeContext {
			continue
		}
		if len(n.Metadata.DerivedFrom) == 0 {
			res.StructuralErrors = append(res.StructuralErrors,
				fmt.Sprintf("orphan node %s (%s): no provenance", n.ID, n.Type))
			continue
		}
		for _, id := range n.Metadata.DerivedFrom {
			parent, ok := ix.Resolve(id)
			if !ok {
				res.StructuralErrors = append(res.StructuralErrors,
					fmt.Sprintf("node %s cites unknown node %s", n.ID, id))
				continue
			}
			if parent.Layer.Ordinal() > n.Layer.Ordinal() {
				res.StructuralErrors = append(res.StructuralErrors,
					fmt.Sprintf("node %s (%s) cites forward layer node %s (%s)",
						n.ID, n.Layer, parent.ID, parent.Layer))
			}
		}
	}
}

// checkClinical scores rules whose action actually recommends something (a
// medication or action, never a restated condition or measurement) and
// appends contradictory treats/contraindicates pairs.
func (v *GraphValidator) checkClinical(nodes []model.GraphNode, ix *trace.Index, res *model.ValidationResult) {
	rules, ok := 0, 0
	for i := range nodes {
		n := &nodes[i]
		if n.Type != model.NodeRule {
			continue
		}
		rules++
		action, found := ix.Resolve(n.Rule.ActionConcept)
		if found && action.Concept != nil && consistency.Recommends(action.Concept.Type) {
			ok++
			continue
		}
		res.ClinicalErrors = append(res.ClinicalErrors,
			fmt.Sprintf("rule %s action %q does not recommend a medication or action", n.ID, n.Rule.ActionName))
	}
	if rules == 0 {
		res.ClinicalAccuracy = 1.0
	} else {
		res.ClinicalAccuracy = float64(ok) / float64(rules)
	}
	res.ClinicalErrors = append(res.ClinicalErrors, consistency.FindContradictions(nodes)...)
}

// checkEvidence requires every RELATIONSHIP and RULE to carry non-empty
// evidence text.
func (v *GraphValidator) checkEvidence(nodes []model.GraphNode, res *model.ValidationResult) {
	for i := range nodes {
		n := &nodes[i]
		switch {
		case n.Relation != nil && n.Relation.EvidenceText == "":
			res.MissingEvidenceLinks = append(res.MissingEvidenceLinks, n.ID)
		case n.Rule != nil && n.Rule.EvidenceText == "":
			res.MissingEvidenceLinks = append(res.MissingEvidenceLinks, n.ID)
		}
	}
}
