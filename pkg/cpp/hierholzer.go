package cpp

import (
	"sort"

	"github.com/azybler/streetcover/pkg/graph"
)

// eulerianCircuit extracts a closed Eulerian circuit over the given
// directed edge set using an iterative (non-recursive) Hierholzer
// walk, adapted from katalvlaran-lvlath's half-edge technique
// (tsp/eulerian.go) to directed single-use edges: no twin pairing is
// needed since a directed edge is already a single traversal unit.
// Adjacency is sorted by edge id so the walk is deterministic given a
// stable tie-breaker, per spec's ordering requirement.
func eulerianCircuit(g *graph.Graph, nodes []graph.NodeID, edges []graph.EdgeID, start graph.NodeID) []graph.EdgeID {
	if len(edges) == 0 {
		return nil
	}

	adj := make(map[graph.NodeID][]graph.EdgeID)
	for _, eid := range edges {
		from := g.Edge(eid).From
		adj[from] = append(adj[from], eid)
	}
	for n := range adj {
		sort.Slice(adj[n], func(i, j int) bool { return adj[n][i] < adj[n][j] })
	}

	cursor := make(map[graph.NodeID]int, len(adj))
	used := make(map[graph.EdgeID]bool, len(edges))

	type frame struct {
		node graph.NodeID
		via  graph.EdgeID // edge used to arrive here; invalidEdge for start
	}
	const invalidEdge = graph.EdgeID(^uint32(0))

	stack := []frame{{node: start, via: invalidEdge}}
	var circuit []graph.EdgeID

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		u := top.node

		for cursor[u] < len(adj[u]) && used[adj[u][cursor[u]]] {
			cursor[u]++
		}

		if cursor[u] == len(adj[u]) {
			if top.via != invalidEdge {
				circuit = append(circuit, top.via)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		eid := adj[u][cursor[u]]
		used[eid] = true
		stack = append(stack, frame{node: g.Edge(eid).To, via: eid})
	}

	// circuit was built in reverse of traversal order (edges are
	// emitted as their originating frame pops, innermost first).
	for i, j := 0, len(circuit)-1; i < j; i, j = i+1, j-1 {
		circuit[i], circuit[j] = circuit[j], circuit[i]
	}
	return circuit
}
