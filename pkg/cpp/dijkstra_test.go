package cpp

import (
	"testing"

	"github.com/azybler/streetcover/pkg/graph"
)

func TestShortestPathsWithinAllowedSet(t *testing.T) {
	g := graph.New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 1)
	c := g.AddNode(1, 1)
	d := g.AddNode(5, 5) // outside the allowed set

	g.AddEdge(a, b, 3, 3, nil, "residential", "", false)
	g.AddEdge(b, c, 4, 4, nil, "residential", "", false)
	g.AddEdge(a, c, 10, 10, nil, "residential", "", false)
	g.AddEdge(a, d, 1, 1, nil, "residential", "", false)

	allowed := map[graph.NodeID]bool{a: true, b: true, c: true}
	dist, via := shortestPaths(g, a, allowed)

	if dist[c] != 7 {
		t.Fatalf("expected shortest a->c distance 7 (via b), got %f", dist[c])
	}
	if _, ok := dist[d]; ok {
		t.Fatalf("expected d to be excluded from the allowed set")
	}

	path := pathTo(g, a, c, via)
	if len(path) != 2 {
		t.Fatalf("expected 2-edge path a->b->c, got %d edges", len(path))
	}
}

func TestPathToSameNodeIsEmpty(t *testing.T) {
	g, _, _ := triangleGraph()
	if p := pathTo(g, 0, 0, map[graph.NodeID]graph.EdgeID{}); p != nil {
		t.Fatalf("expected nil path for src==dst, got %v", p)
	}
}
