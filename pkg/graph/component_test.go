package graph

import "testing"

func TestWeakComponentsSingleComponent(t *testing.T) {
	g := New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 1)
	c := g.AddNode(1, 1)
	g.AddEdge(a, b, 10, 1, nil, "residential", "", false)
	g.AddEdge(b, c, 10, 1, nil, "residential", "", false)

	comps := WeakComponents(g)
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if len(comps[0].Nodes) != 3 {
		t.Errorf("component has %d nodes, want 3", len(comps[0].Nodes))
	}
}

func TestWeakComponentsSortedBySizeDescending(t *testing.T) {
	g := New()
	// Component 1: 3 nodes.
	a, b, c := g.AddNode(0, 0), g.AddNode(0, 1), g.AddNode(1, 1)
	g.AddEdge(a, b, 10, 1, nil, "", "", false)
	g.AddEdge(b, c, 10, 1, nil, "", "", false)
	// Component 2: 1 node, isolated.
	g.AddNode(10, 10)

	comps := WeakComponents(g)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	if len(comps[0].Nodes) != 3 || len(comps[1].Nodes) != 1 {
		t.Errorf("components not sorted by size descending: %d, %d", len(comps[0].Nodes), len(comps[1].Nodes))
	}
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	if !uf.Union(0, 1) {
		t.Fatal("expected first union to succeed")
	}
	if uf.Union(0, 1) {
		t.Fatal("expected second union of same set to fail")
	}
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should share a root after union")
	}
	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should not share a root")
	}
}

func TestCentroid(t *testing.T) {
	g := New()
	a := g.AddNode(0, 0)
	b := g.AddNode(2, 2)
	c := Component{Nodes: []NodeID{a, b}}
	lat, lon := c.Centroid(g)
	if lat != 1 || lon != 1 {
		t.Errorf("Centroid() = (%f, %f), want (1, 1)", lat, lon)
	}
}
