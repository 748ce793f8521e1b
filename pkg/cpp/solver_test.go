package cpp

import (
	"context"
	"testing"

	"github.com/azybler/streetcover/pkg/connector"
	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/oracle"
)

func TestSolveSingleBalancedTriangle(t *testing.T) {
	g, _, _ := triangleGraph()
	conn := connector.New(oracle.NewFakeClient(), true)
	solver := New(conn, 0, oracle.ProfileDrivingCar)

	result, err := solver.Solve(context.Background(), g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(result.SCCStats) != 1 {
		t.Fatalf("expected 1 SCC, got %d", len(result.SCCStats))
	}
	if result.SCCStats[0].Euler.ImbalancedNodes != 0 {
		t.Fatalf("expected the triangle to already be balanced")
	}
	if len(result.Route) < 3 {
		t.Fatalf("expected a route with at least 3 points, got %d", len(result.Route))
	}
}

func TestSolveTwoSeparateSCCsGetsStitched(t *testing.T) {
	g := graph.New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 0.001)
	c := g.AddNode(0, 0.002)
	g.AddEdge(a, b, 1, 1, nil, "residential", "", false)
	g.AddEdge(b, a, 1, 1, nil, "residential", "", false)

	d := g.AddNode(0, 0.1)
	e := g.AddNode(0, 0.101)
	g.AddEdge(d, e, 1, 1, nil, "residential", "", false)
	g.AddEdge(e, d, 1, 1, nil, "residential", "", false)
	_ = c

	conn := connector.New(oracle.NewFakeClient(), true)
	solver := New(conn, 0, oracle.ProfileDrivingCar)

	result, err := solver.Solve(context.Background(), g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(result.SCCStats) != 2 {
		t.Fatalf("expected 2 SCCs (the two disjoint loops), got %d", len(result.SCCStats))
	}
	if len(result.Route) == 0 {
		t.Fatalf("expected a non-empty stitched route")
	}
}

func TestSolveEmptyGraph(t *testing.T) {
	g := graph.New()
	conn := connector.New(oracle.NewFakeClient(), true)
	solver := New(conn, 0, oracle.ProfileDrivingCar)

	result, err := solver.Solve(context.Background(), g)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(result.Route) != 0 {
		t.Fatalf("expected an empty route for an empty graph")
	}
}
