package model

import "strconv"

// Property resolves a named property of a node to its string form, for use
// by the assertion evaluator. The property namespace is flat: "type" means
// the content type (concept type, relationship type), while "node_type"
// means the structural kind. Unknown properties, or properties the node's
// content does not carry, report ok=false.
func (n *GraphNode) Property(name string) (string, bool) {
	switch name {
	case "id":
		return n.ID, true
	case "layer":
		return string(n.Layer), true
	case "node_type":
		return string(n.Type), true
	case "confidence":
		return formatFloat(n.Confidence), true
	}

	switch {
	case n.Concept != nil:
		return n.conceptProperty(name)
	case n.Relation != nil:
		return n.relationProperty(name)
	case n.Rule != nil:
		return n.ruleProperty(name)
	case n.Step != nil:
		return n.stepProperty(name)
	}
	return "", false
}

func (n *GraphNode) conceptProperty(name string) (string, bool) {
	c := n.Concept
	switch name {
	case "name":
		return c.Name, true
	case "type":
		return string(c.Type), true
	case "value":
		if c.Value == nil {
			return "", false
		}
		return formatFloat(*c.Value), true
	case "operator":
		return c.Operator, c.Operator != ""
	case "unit":
		return c.Unit, c.Unit != ""
	}
	return "", false
}

func (n *GraphNode) relationProperty(name string) (string, bool) {
	r := n.Relation
	switch name {
	case "type":
		return string(r.Type), true
	case "source_concept":
		return r.SourceConcept, true
	case "target_concept":
		return r.TargetConcept, true
	case "evidence_text":
		return r.EvidenceText, r.EvidenceText != ""
	}
	return "", false
}

func (n *GraphNode) ruleProperty(name string) (string, bool) {
	r := n.Rule
	switch name {
	case "trigger", "trigger_name":
		return r.TriggerName, true
	case "action", "action_name":
		return r.ActionName, true
	case "operator":
		return r.Operator, r.Operator != ""
	case "value":
		if r.Value == nil {
			return "", false
		}
		return formatFloat(*r.Value), true
	case "unit":
		return r.Unit, r.Unit != ""
	case "evidence_text":
		return r.EvidenceText, r.EvidenceText != ""
	}
	return "", false
}

func (n *GraphNode) stepProperty(name string) (string, bool) {
	s := n.Step
	switch name {
	case "ordinal":
		return strconv.Itoa(s.Ordinal), true
	case "trigger":
		return s.Trigger, true
	case "action", "action_name":
		return s.ActionName, true
	case "monitor", "monitor_name":
		return s.MonitorName, s.MonitorName != ""
	}
	return "", false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
