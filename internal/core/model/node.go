package model

import "time"

// Layer identifies one of the four ordered refinement stages of a guideline
// graph. Ordering matters: derivation only ever points to the same or an
// earlier layer.
type Layer string

const (
	LayerRawText             Layer = "RAW_TEXT"
	LayerStructuredKnowledge Layer = "STRUCTURED_KNOWLEDGE"
	LayerComputableLogic     Layer = "COMPUTABLE_LOGIC"
	LayerExecutableWorkflows Layer = "EXECUTABLE_WORKFLOWS"
	LayerUnknown             Layer = "UNKNOWN"
)

// Layers lists the known layers in promotion order.
var Layers = []Layer{
	LayerRawText,
	LayerStructuredKnowledge,
	LayerComputableLogic,
	LayerExecutableWorkflows,
}

// Ordinal returns the 0-based position of the layer, or -1 for unknown.
func (l Layer) Ordinal() int {
	for i, known := range Layers {
		if known == l {
			return i
		}
	}
	return -1
}

func ParseLayer(s string) Layer {
	for _, known := range Layers {
		if string(known) == s {
			return known
		}
	}
	return LayerUnknown
}

type NodeType string

const (
	NodeContext      NodeType = "CONTEXT"
	NodeConcept      NodeType = "CONCEPT"
	NodeRelationship NodeType = "RELATIONSHIP"
	NodeRule         NodeType = "RULE"
	NodeWorkflowStep NodeType = "WORKFLOW_STEP"
	NodeUnknown      NodeType = "UNKNOWN"
)

func ParseNodeType(s string) NodeType {
	switch NodeType(s) {
	case NodeContext, NodeConcept, NodeRelationship, NodeRule, NodeWorkflowStep:
		return NodeType(s)
	}
	return NodeUnknown
}

type ConceptType string

const (
	ConceptCondition    ConceptType = "condition"
	ConceptMedication   ConceptType = "medication"
	ConceptMeasurement  ConceptType = "measurement"
	ConceptAction       ConceptType = "action"
	ConceptUnrecognized ConceptType = "unrecognized"
)

func ParseConceptType(s string) ConceptType {
	switch ConceptType(s) {
	case ConceptCondition, ConceptMedication, ConceptMeasurement, ConceptAction:
		return ConceptType(s)
	}
	return ConceptUnrecognized
}

type RelationType string

const (
	RelTreats          RelationType = "treats"
	RelInvestigates    RelationType = "investigates"
	RelComplicates     RelationType = "complicates"
	RelRiskFactor      RelationType = "risk_factor"
	RelContraindicates RelationType = "contraindicates"
	RelMonitors        RelationType = "monitors"
	RelUnrecognized    RelationType = "unrecognized"
)

func ParseRelationType(s string) RelationType {
	switch RelationType(s) {
	case RelTreats, RelInvestigates, RelComplicates, RelRiskFactor, RelContraindicates, RelMonitors:
		return RelationType(s)
	}
	return RelUnrecognized
}

// Metadata carries provenance for a node: where in the source document it
// came from and which nodes it was derived from.
type Metadata struct {
	SourceDoc   string    `json:"source_doc,omitempty"`
	SpanStart   int       `json:"span_start"`
	SpanEnd     int       `json:"span_end"`
	DerivedFrom []string  `json:"derived_from,omitempty"` // node IDs, same or earlier layer
	CreatedAt   time.Time `json:"created_at"`
}

// ConceptContent is the payload of a CONCEPT node.
type ConceptContent struct {
	Name     string      `json:"name"`
	Type     ConceptType `json:"type"`
	Value    *float64    `json:"value,omitempty"`
	Operator string      `json:"operator,omitempty"`
	Unit     string      `json:"unit,omitempty"`
}

// RelationshipContent is the payload of a RELATIONSHIP node. Source and
// Target reference CONCEPT node IDs in the same or an earlier layer.
type RelationshipContent struct {
	SourceConcept string       `json:"source_concept"`
	TargetConcept string       `json:"target_concept"`
	Type          RelationType `json:"type"`
	EvidenceText  string       `json:"evidence_text"`
}

// RuleContent is the payload of a RULE node: a computable trigger→action
// pairing lifted from a relationship.
type RuleContent struct {
	TriggerConcept string   `json:"trigger_concept"`
	TriggerName    string   `json:"trigger_name"`
	Operator       string   `json:"operator,omitempty"`
	Value          *float64 `json:"value,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	ActionConcept  string   `json:"action_concept"`
	ActionName     string   `json:"action_name"`
	EvidenceText   string   `json:"evidence_text"`
}

// WorkflowStepContent is the payload of a WORKFLOW_STEP node: an ordered,
// executable realization of a rule.
type WorkflowStepContent struct {
	Ordinal        int    `json:"ordinal"`
	Trigger        string `json:"trigger"`
	ActionConcept  string `json:"action_concept"`
	ActionName     string `json:"action_name"`
	MonitorConcept string `json:"monitor_concept,omitempty"`
	MonitorName    string `json:"monitor_name,omitempty"`
}

// GraphNode is the shared node shape across all four layers. Exactly one of
// the content pointers (or Text, for CONTEXT nodes) is populated, matching
// the node's Type.
type GraphNode struct {
	ID         string               `json:"id"`
	Layer      Layer                `json:"layer"`
	Type       NodeType             `json:"node_type"`
	Confidence float64              `json:"confidence"`
	Metadata   Metadata             `json:"metadata"`
	Text       string               `json:"text,omitempty"`
	Concept    *ConceptContent      `json:"concept,omitempty"`
	Relation   *RelationshipContent `json:"relationship,omitempty"`
	Rule       *RuleContent         `json:"rule,omitempty"`
	Step       *WorkflowStepContent `json:"workflow_step,omitempty"`
}
