package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/driver"
)

// Exporter writes a built graph to a bolt store for inspection. Export is
// strictly a sink: validation results never depend on it.
type Exporter struct {
	Driver driver.GraphDriver
}

func NewExporter(d driver.GraphDriver) *Exporter {
	return &Exporter{Driver: d}
}

// ExportGraph replaces any previously exported graph for the scenario,
// then writes every node, its derivation edges, and the clinical links.
func (e *Exporter) ExportGraph(ctx context.Context, scenarioID string, nodes []model.GraphNode) error {
	_, err := e.Driver.ExecuteQuery(ctx, driver.DeleteScenarioGraphQuery, map[string]interface{}{
		"scenario_id": scenarioID,
	})
	if err != nil {
		return fmt.Errorf("clearing previous export: %w", err)
	}

	for i := range nodes {
		n := &nodes[i]
		content, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("serializing node %s: %w", n.ID, err)
		}
		params := map[string]interface{}{
			"uuid":        n.ID,
			"scenario_id": scenarioID,
			"layer":       string(n.Layer),
			"node_type":   string(n.Type),
			"confidence":  n.Confidence,
			"name":        nodeName(n),
			"content":     string(content),
			"created_at":  n.Metadata.CreatedAt.Format(time.RFC3339),
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveGraphNodeQuery, params); err != nil {
			return fmt.Errorf("saving node %s: %w", n.ID, err)
		}
	}

	for i := range nodes {
		n := &nodes[i]
		for _, parent := range n.Metadata.DerivedFrom {
			params := map[string]interface{}{
				"child_uuid":  n.ID,
				"parent_uuid": parent,
				"scenario_id": scenarioID,
			}
			if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveDerivationEdgeQuery, params); err != nil {
				return fmt.Errorf("saving derivation edge of %s: %w", n.ID, err)
			}
		}
		if n.Relation == nil {
			continue
		}
		params := map[string]interface{}{
			"uuid":          n.ID,
			"source_uuid":   n.Relation.SourceConcept,
			"target_uuid":   n.Relation.TargetConcept,
			"type":          string(n.Relation.Type),
			"evidence_text": n.Relation.EvidenceText,
			"confidence":    n.Confidence,
			"scenario_id":   scenarioID,
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveRelationshipEdgeQuery, params); err != nil {
			return fmt.Errorf("saving relationship edge %s: %w", n.ID, err)
		}
	}
	return nil
}

func nodeName(n *model.GraphNode) string {
	switch {
	case n.Concept != nil:
		return n.Concept.Name
	case n.Relation != nil:
		return string(n.Relation.Type)
	case n.Rule != nil:
		return n.Rule.TriggerName + " -> " + n.Rule.ActionName
	case n.Step != nil:
		return fmt.Sprintf("step %d: %s", n.Step.Ordinal, n.Step.ActionName)
	}
	return string(n.Type)
}
