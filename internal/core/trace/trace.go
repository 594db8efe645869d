// Package trace resolves provenance chains: every derived node should walk
// its derived_from references back to a RAW_TEXT span.
package trace

import "github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"

// Index is a read-only lookup over one run's node set.
type Index struct {
	nodes map[string]*model.GraphNode
}

func NewIndex(nodes []model.GraphNode) *Index {
	ix := &Index{nodes: make(map[string]*model.GraphNode, len(nodes))}
	for i := range nodes {
		ix.nodes[nodes[i].ID] = &nodes[i]
	}
	return ix
}

func (ix *Index) Resolve(id string) (*model.GraphNode, bool) {
	n, ok := ix.nodes[id]
	return n, ok
}

// TracesToRawText walks the provenance chain depth-first and reports
// whether it reaches a RAW_TEXT node. CONTEXT nodes are their own origin.
// Broken references and cycles report false.
func (ix *Index) TracesToRawText(n *model.GraphNode) bool {
	return ix.traces(n, make(map[string]bool))
}

func (ix *Index) traces(n *model.GraphNode, visited map[string]bool) bool {
	if n.Layer == model.LayerRawText {
		return true
	}
	if visited[n.ID] {
		return false
	}
	visited[n.ID] = true

	for _, id := range n.Metadata.DerivedFrom {
		parent, ok := ix.nodes[id]
		if !ok {
			continue
		}
		if ix.traces(parent, visited) {
			return true
		}
	}
	return false
}

// Chain returns the node's full provenance closure in visit order, the node
// itself excluded. Useful for reporting which span a rule came from.
func (ix *Index) Chain(n *model.GraphNode) []string {
	var chain []string
	visited := map[string]bool{n.ID: true}
	stack := append([]string(nil), n.Metadata.DerivedFrom...)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		chain = append(chain, id)
		if parent, ok := ix.nodes[id]; ok {
			stack = append(stack, parent.Metadata.DerivedFrom...)
		}
	}
	return chain
}
