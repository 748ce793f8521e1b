package connector

import (
	"context"
	"testing"

	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/oracle"
)

// twoSquaresGraph builds two disjoint square loops whose west edges are
// gapDeg degrees of longitude apart, so a test can place them inside or
// beyond the centroid pre-filter's cutoff.
func twoSquaresGraph(gapDeg float64) *graph.Graph {
	g := graph.New()
	addLoop := func(lat0, lon0 float64) {
		n0 := g.AddNode(lat0, lon0)
		n1 := g.AddNode(lat0, lon0+0.001)
		n2 := g.AddNode(lat0+0.001, lon0+0.001)
		n3 := g.AddNode(lat0+0.001, lon0)
		ids := []graph.NodeID{n0, n1, n2, n3, n0}
		for i := 0; i < 4; i++ {
			a, b := ids[i], ids[i+1]
			na, nb := g.Node(a), g.Node(b)
			g.AddEdge(a, b, 1, 1, nil, "residential", "loop", false)
			g.AddEdge(b, a, 1, 1, nil, "residential", "loop", false)
			_ = na
			_ = nb
		}
	}
	addLoop(37.0, -122.0)
	addLoop(37.0, -122.0+gapDeg)
	return g
}

func TestConnectComponentsJoinsNearbyLoops(t *testing.T) {
	g := twoSquaresGraph(0.0005) // ~45m gap at this latitude
	c := New(oracle.NewFakeClient(), true)

	if _, _, err := c.ConnectComponents(context.Background(), g, 5); err != nil {
		t.Fatalf("ConnectComponents: %v", err)
	}

	comps := graph.WeakComponents(g)
	if len(comps) != 1 {
		t.Fatalf("expected a single component after connecting, got %d", len(comps))
	}
}

func TestConnectComponentsNoOpWhenAlreadyConnected(t *testing.T) {
	g := graph.New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 1)
	g.AddEdge(a, b, 1, 1, nil, "residential", "", false)
	g.AddEdge(b, a, 1, 1, nil, "residential", "", false)

	c := New(oracle.NewFakeClient(), true)
	before := g.NumEdges()
	if _, _, err := c.ConnectComponents(context.Background(), g, 5); err != nil {
		t.Fatalf("ConnectComponents: %v", err)
	}
	if g.NumEdges() != before {
		t.Fatalf("expected no edges added for an already-connected graph, had %d now %d", before, g.NumEdges())
	}
}

func TestConnectComponentsSkipsDistantComponents(t *testing.T) {
	g := twoSquaresGraph(1.0) // ~90km gap, beyond the 5km centroid cutoff
	c := New(oracle.NewFakeClient(), true)

	if _, _, err := c.ConnectComponents(context.Background(), g, 5); err != nil {
		t.Fatalf("ConnectComponents: %v", err)
	}

	comps := graph.WeakComponents(g)
	if len(comps) != 2 {
		t.Fatalf("expected components to remain disjoint beyond centroid cutoff, got %d", len(comps))
	}
}

func TestBridgeRouteGapsConcatenatesTouchingEdges(t *testing.T) {
	g := graph.New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 0.001)
	c := g.AddNode(0, 0.002)
	e1 := g.AddEdge(a, b, 1, 1, nil, "residential", "", false)
	e2 := g.AddEdge(b, c, 1, 1, nil, "residential", "", false)

	conn := New(oracle.NewFakeClient(), true)
	route, err := conn.BridgeRouteGaps(context.Background(), g, []graph.EdgeID{e1, e2}, oracle.ProfileDrivingCar)
	if err != nil {
		t.Fatalf("BridgeRouteGaps: %v", err)
	}
	if len(route) != 3 {
		t.Fatalf("expected 3 point route from 2 touching edges, got %d", len(route))
	}
}

func TestValidateRouteContinuityCountsViolations(t *testing.T) {
	g := graph.New()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 1) // ~111km away: one big violation
	_ = a
	_ = b
	route := orb.LineString{{0, 0}, {1, 0}}
	maxGap, violations := ValidateRouteContinuity(route, defaultMaxGapM)
	if violations != 1 {
		t.Fatalf("expected 1 violation, got %d (maxGap=%.1f)", violations, maxGap)
	}
}
