package cpp

import (
	"testing"

	"github.com/azybler/streetcover/pkg/graph"
)

func TestEulerizeAlreadyBalancedIsNoOp(t *testing.T) {
	g, nodes, edges := triangleGraph()
	edgeSet, stats := eulerize(g, nodes, edges)

	if stats.ImbalancedNodes != 0 {
		t.Fatalf("expected a balanced triangle to report 0 imbalanced nodes, got %d", stats.ImbalancedNodes)
	}
	if len(edgeSet) != len(edges) {
		t.Fatalf("expected no edges added, got %d (was %d)", len(edgeSet), len(edges))
	}
}

func TestEulerizeDuplicatesShortestBackPath(t *testing.T) {
	// A->B->C->A plus the extra one-way A->B: B has excess in-degree,
	// A has excess out-degree. Balancing must duplicate a B->...->A
	// path; the only one is B->C->A (no direct B->A edge exists).
	g := graph.New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 1)
	c := g.AddNode(1, 1)

	e1 := g.AddEdge(a, b, 1, 1, nil, "residential", "", false) // triangle edge 1
	e2 := g.AddEdge(b, c, 1, 1, nil, "residential", "", false) // triangle edge 2
	e3 := g.AddEdge(c, a, 1, 1, nil, "residential", "", false) // triangle edge 3
	e4 := g.AddEdge(a, b, 1, 1, nil, "residential", "", false) // extra one-way A->B

	nodes := []graph.NodeID{a, b, c}
	edges := []graph.EdgeID{e1, e2, e3, e4}

	edgeSet, stats := eulerize(g, nodes, edges)

	if stats.ImbalancedNodes != 2 {
		t.Fatalf("expected 2 imbalanced nodes (B supply, A demand), got %d", stats.ImbalancedNodes)
	}
	if stats.EdgesAdded == 0 {
		t.Fatalf("expected balancing to add at least one duplicate edge")
	}
	if len(edgeSet) != len(edges)+stats.EdgesAdded {
		t.Fatalf("edge set size %d doesn't match original+added (%d+%d)", len(edgeSet), len(edges), stats.EdgesAdded)
	}

	// After balancing every node's in/out degree within the edge set
	// restricted to nodes must match.
	outDeg := map[graph.NodeID]int{}
	inDeg := map[graph.NodeID]int{}
	for _, eid := range edgeSet {
		e := g.Edge(eid)
		outDeg[e.From]++
		inDeg[e.To]++
	}
	for _, n := range nodes {
		if outDeg[n] != inDeg[n] {
			t.Fatalf("node %d still imbalanced after eulerize: out=%d in=%d", n, outDeg[n], inDeg[n])
		}
	}
}

func TestGreedyFlowFallbackPreservesParity(t *testing.T) {
	supply := []graph.NodeID{1, 2}
	demand := []graph.NodeID{3, 4}
	balance := map[graph.NodeID]int{1: -2, 2: -1, 3: 1, 4: 2}

	flow := greedyFlowFallback(supply, demand, balance)

	totalOut := 0
	for _, row := range flow {
		for _, v := range row {
			totalOut += v
		}
	}
	if totalOut != 3 {
		t.Fatalf("expected 3 total units of flow, got %d", totalOut)
	}
}
