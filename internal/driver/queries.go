package driver

const (
	SaveGraphNodeQuery = `
		MERGE (n:GraphNode {uuid: $uuid})
		SET n.scenario_id = $scenario_id,
			n.layer = $layer,
			n.node_type = $node_type,
			n.confidence = $confidence,
			n.name = $name,
			n.content = $content,
			n.created_at = $created_at
		RETURN n.uuid AS uuid
	`

	SaveDerivationEdgeQuery = `
		MATCH (child:GraphNode {uuid: $child_uuid})
		MATCH (parent:GraphNode {uuid: $parent_uuid})
		MERGE (child)-[e:DERIVED_FROM]->(parent)
		SET e.scenario_id = $scenario_id
		RETURN child.uuid AS uuid
	`

	SaveRelationshipEdgeQuery = `
		MATCH (source:GraphNode {uuid: $source_uuid})
		MATCH (target:GraphNode {uuid: $target_uuid})
		MERGE (source)-[e:CLINICAL_LINK {uuid: $uuid}]->(target)
		SET e.type = $type,
			e.evidence_text = $evidence_text,
			e.confidence = $confidence,
			e.scenario_id = $scenario_id
		RETURN e.uuid AS uuid
	`

	DeleteScenarioGraphQuery = `
		MATCH (n:GraphNode {scenario_id: $scenario_id})
		DETACH DELETE n
	`
)
