package graph

import "testing"

func TestSCCDirectedTriangleIsOneComponent(t *testing.T) {
	g := New()
	a, b, c := g.AddNode(0, 0), g.AddNode(0, 1), g.AddNode(1, 1)
	g.AddEdge(a, b, 10, 1, nil, "", "", false)
	g.AddEdge(b, c, 10, 1, nil, "", "", false)
	g.AddEdge(c, a, 10, 1, nil, "", "", false)

	sccs := StronglyConnectedComponents(g)
	if len(sccs) != 1 {
		t.Fatalf("got %d SCCs, want 1", len(sccs))
	}
	if len(sccs[0].Nodes) != 3 {
		t.Errorf("SCC has %d nodes, want 3", len(sccs[0].Nodes))
	}
}

func TestSCCSingleOneWayEdgeIsTwoSingletons(t *testing.T) {
	g := New()
	a, b := g.AddNode(0, 0), g.AddNode(0, 1)
	g.AddEdge(a, b, 10, 1, nil, "", "", false)

	sccs := StronglyConnectedComponents(g)
	if len(sccs) != 2 {
		t.Fatalf("got %d SCCs, want 2 singletons", len(sccs))
	}
	for _, s := range sccs {
		if len(s.Nodes) != 1 {
			t.Errorf("expected singleton SCC, got %d nodes", len(s.Nodes))
		}
	}
}

func TestSCCDisconnectedGraphYieldsMultipleComponents(t *testing.T) {
	g := New()
	a, b := g.AddNode(0, 0), g.AddNode(0, 1)
	c, d := g.AddNode(5, 5), g.AddNode(5, 6)
	g.AddEdge(a, b, 10, 1, nil, "", "", false)
	g.AddEdge(b, a, 10, 1, nil, "", "", false)
	g.AddEdge(c, d, 10, 1, nil, "", "", false)
	g.AddEdge(d, c, 10, 1, nil, "", "", false)

	sccs := StronglyConnectedComponents(g)
	if len(sccs) != 2 {
		t.Fatalf("got %d SCCs, want 2", len(sccs))
	}
}
