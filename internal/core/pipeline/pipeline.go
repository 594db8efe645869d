// Package pipeline promotes guideline text through the four graph layers:
// RAW_TEXT → STRUCTURED_KNOWLEDGE → COMPUTABLE_LOGIC → EXECUTABLE_WORKFLOWS.
// Transitions run strictly forward, once each, per run; all state is local
// to the run so independent runs can execute concurrently.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/assertion"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/dedupe"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/extraction"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// DefaultRuleConfidenceThreshold gates rule formation: the mean of the two
// endpoint confidences and the relationship confidence must reach it.
const DefaultRuleConfidenceThreshold = 0.6

type Config struct {
	RuleConfidenceThreshold float64
	Window                  extraction.WindowScope
	TokenWindow             int
	ExtraVocabulary         map[model.ConceptType][]string
}

// TransitionResult scores one layer against its expected assertions.
type TransitionResult struct {
	Accuracy  float64
	Passed    int
	Total     int
	NodeCount int
}

// Result is the built graph plus per-layer assertion scores. Layers holds
// an entry only for layers the scenario declared assertions for, so "not
// validated" is distinguishable from "validated and scored zero".
type Result struct {
	Nodes  []model.GraphNode
	Layers map[model.Layer]TransitionResult
}

// NodesAtLayer filters the built graph to one layer.
func (r *Result) NodesAtLayer(layer model.Layer) []model.GraphNode {
	var out []model.GraphNode
	for _, n := range r.Nodes {
		if n.Layer == layer {
			out = append(out, n)
		}
	}
	return out
}

type Pipeline struct {
	Extractor    *extraction.Extractor
	Deduplicator *dedupe.Deduplicator
	Threshold    float64
}

func New(cfg Config) *Pipeline {
	ex := extraction.NewExtractor(extraction.NewVocabulary(cfg.ExtraVocabulary))
	if cfg.Window != "" {
		ex.Window = cfg.Window
	}
	if cfg.TokenWindow > 0 {
		ex.TokenWindow = cfg.TokenWindow
	}
	threshold := cfg.RuleConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultRuleConfidenceThreshold
	}
	return &Pipeline{
		Extractor:    ex,
		Deduplicator: dedupe.NewDeduplicator(),
		Threshold:    threshold,
	}
}

// Run builds the full four-layer graph for one scenario and scores each
// validated layer. The input scenario is never mutated.
func (p *Pipeline) Run(sc *model.Scenario) *Result {
	res := &Result{Layers: make(map[model.Layer]TransitionResult)}

	ctxNode := model.GraphNode{
		ID:         uuid.New().String(),
		Layer:      model.LayerRawText,
		Type:       model.NodeContext,
		Confidence: 1.0,
		Text:       sc.SourceText,
		Metadata: model.Metadata{
			SourceDoc: sc.ID,
			SpanStart: 0,
			SpanEnd:   len(sc.SourceText),
			CreatedAt: time.Now().UTC(),
		},
	}
	res.Nodes = append(res.Nodes, ctxNode)
	p.score(sc, res, model.LayerRawText)

	// L0 → L1: extract concepts and relationships from every context node.
	concepts := p.Deduplicator.MergeConcepts(p.Extractor.ExtractConcepts(&ctxNode))
	relationships := p.Extractor.ExtractRelationships(&ctxNode, concepts)
	res.Nodes = append(res.Nodes, concepts...)
	res.Nodes = append(res.Nodes, relationships...)
	p.score(sc, res, model.LayerStructuredKnowledge)

	// L1 → L2: lift qualifying trigger→action links into rules.
	rules := p.buildRules(concepts, relationships)
	res.Nodes = append(res.Nodes, rules...)
	p.score(sc, res, model.LayerComputableLogic)

	// L2 → L3: realize each rule as an ordered workflow step.
	steps := p.buildSteps(rules, relationships, concepts)
	res.Nodes = append(res.Nodes, steps...)
	p.score(sc, res, model.LayerExecutableWorkflows)

	return res
}

// score evaluates the destination layer's expected assertions against the
// nodes produced at that layer. Layers without assertions are skipped, not
// scored as zero.
func (p *Pipeline) score(sc *model.Scenario, res *Result, layer model.Layer) {
	assertions := sc.AssertionsForLayer(layer)
	if len(assertions) == 0 {
		return
	}
	layerNodes := res.NodesAtLayer(layer)

	passed := 0
	for _, a := range assertions {
		// Parse failures count as failed assertions; the run continues.
		if ok, err := assertion.Evaluate(layerNodes, a); err == nil && ok {
			passed++
		}
	}
	res.Layers[layer] = TransitionResult{
		Accuracy:  float64(passed) / float64(len(assertions)),
		Passed:    passed,
		Total:     len(assertions),
		NodeCount: len(layerNodes),
	}
}

// buildRules forms a RULE whenever a condition or measurement connects via
// treats or risk_factor to a medication or action with combined confidence
// at or above the threshold. Rules dedupe by (trigger, action) pair,
// keeping the strongest.
func (p *Pipeline) buildRules(concepts, relationships []model.GraphNode) []model.GraphNode {
	byID := make(map[string]*model.GraphNode, len(concepts))
	for i := range concepts {
		byID[concepts[i].ID] = &concepts[i]
	}

	var rules []model.GraphNode
	index := make(map[string]int)

	for i := range relationships {
		rel := &relationships[i]
		rt := rel.Relation.Type
		if rt != model.RelTreats && rt != model.RelRiskFactor {
			continue
		}
		src, srcOK := byID[rel.Relation.SourceConcept]
		tgt, tgtOK := byID[rel.Relation.TargetConcept]
		if !srcOK || !tgtOK {
			continue
		}

		trigger, action := classifyEndpoints(src, tgt)
		if trigger == nil || action == nil {
			continue
		}
		combined := (src.Confidence + tgt.Confidence + rel.Confidence) / 3
		if combined < p.Threshold {
			continue
		}

		key := trigger.ID + "|" + action.ID
		if at, ok := index[key]; ok {
			if combined > rules[at].Confidence {
				rules[at].Confidence = combined
			}
			continue
		}

		content := &model.RuleContent{
			TriggerConcept: trigger.ID,
			TriggerName:    trigger.Concept.Name,
			ActionConcept:  action.ID,
			ActionName:     action.Concept.Name,
			EvidenceText:   rel.Relation.EvidenceText,
		}
		if trigger.Concept.Type == model.ConceptMeasurement {
			content.Operator = trigger.Concept.Operator
			content.Value = trigger.Concept.Value
			content.Unit = trigger.Concept.Unit
		}

		index[key] = len(rules)
		rules = append(rules, model.GraphNode{
			ID:         uuid.New().String(),
			Layer:      model.LayerComputableLogic,
			Type:       model.NodeRule,
			Confidence: combined,
			Rule:       content,
			Metadata: model.Metadata{
				SourceDoc:   rel.Metadata.SourceDoc,
				DerivedFrom: []string{rel.ID, trigger.ID, action.ID},
				CreatedAt:   time.Now().UTC(),
			},
		})
	}
	return rules
}

// classifyEndpoints splits a relationship's endpoints into the trigger
// (condition or measurement) and the action (medication or action) side,
// regardless of edge direction. Incompatible pairs yield nils.
func classifyEndpoints(a, b *model.GraphNode) (trigger, action *model.GraphNode) {
	isTrigger := func(n *model.GraphNode) bool {
		t := n.Concept.Type
		return t == model.ConceptCondition || t == model.ConceptMeasurement
	}
	isAction := func(n *model.GraphNode) bool {
		t := n.Concept.Type
		return t == model.ConceptMedication || t == model.ConceptAction
	}
	switch {
	case isTrigger(a) && isAction(b):
		return a, b
	case isTrigger(b) && isAction(a):
		return b, a
	}
	return nil, nil
}

// buildSteps lifts each rule into a WORKFLOW_STEP with a 1-based ordinal,
// a trigger predicate, the action, and an optional monitoring follow-up
// discovered via monitors relationships on the rule's concepts.
func (p *Pipeline) buildSteps(rules, relationships, concepts []model.GraphNode) []model.GraphNode {
	byID := make(map[string]*model.GraphNode, len(concepts))
	for i := range concepts {
		byID[concepts[i].ID] = &concepts[i]
	}

	var steps []model.GraphNode
	for i := range rules {
		rule := &rules[i]
		content := &model.WorkflowStepContent{
			Ordinal:       i + 1,
			Trigger:       triggerPredicate(rule.Rule),
			ActionConcept: rule.Rule.ActionConcept,
			ActionName:    rule.Rule.ActionName,
		}

		if monitorID := findMonitor(rule.Rule, relationships); monitorID != "" {
			content.MonitorConcept = monitorID
			if m, ok := byID[monitorID]; ok {
				content.MonitorName = m.Concept.Name
			}
		}

		steps = append(steps, model.GraphNode{
			ID:         uuid.New().String(),
			Layer:      model.LayerExecutableWorkflows,
			Type:       model.NodeWorkflowStep,
			Confidence: rule.Confidence,
			Step:       content,
			Metadata: model.Metadata{
				SourceDoc:   rule.Metadata.SourceDoc,
				DerivedFrom: []string{rule.ID},
				CreatedAt:   time.Now().UTC(),
			},
		})
	}
	return steps
}

// findMonitor returns the monitoring concept for a rule: the source of a
// monitors relationship whose target is the rule's action or trigger.
func findMonitor(rule *model.RuleContent, relationships []model.GraphNode) string {
	for i := range relationships {
		rel := relationships[i].Relation
		if rel.Type != model.RelMonitors {
			continue
		}
		if rel.TargetConcept == rule.ActionConcept || rel.TargetConcept == rule.TriggerConcept {
			return rel.SourceConcept
		}
	}
	return ""
}

func triggerPredicate(rule *model.RuleContent) string {
	if rule.Value == nil {
		return rule.TriggerName + " present"
	}
	op := rule.Operator
	if op == "" {
		op = "=="
	}
	pred := fmt.Sprintf("%s %s %s", rule.TriggerName, op, trimFloat(*rule.Value))
	if rule.Unit != "" {
		pred += " " + rule.Unit
	}
	return pred
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
