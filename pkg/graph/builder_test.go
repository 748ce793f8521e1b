package graph

import (
	"math"
	"testing"

	"github.com/azybler/streetcover/pkg/streets"
)

func squareFeature(oneway bool) streets.Feature {
	raw := []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"highway":"residential"},"geometry":{"type":"LineString","coordinates":[[0,0],[0.001,0],[0.001,0.001],[0,0.001],[0,0]]}}]}`)
	feats, _ := streets.Parse(raw)
	feats[0].OneWay = oneway
	return feats[0]
}

func TestBuildSingleLoop(t *testing.T) {
	f := squareFeature(false)
	g := NewBuilder(DefaultSnapTolerance).Build([]streets.Feature{f})

	if g.NumEdges() != 8 {
		t.Fatalf("NumEdges() = %d, want 8 (4 segments x 2 directions)", g.NumEdges())
	}
	if g.NumNodes() != 4 {
		t.Fatalf("NumNodes() = %d, want 4", g.NumNodes())
	}

	total := g.TotalLength() / 2 // forward+reverse double-counts
	want := 444.0
	if math.Abs(total-want) > 5 {
		t.Errorf("loop perimeter = %f m, want ~%f m", total, want)
	}
}

func TestBuildOneWayTriangle(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"highway":"residential","oneway":true},"geometry":{"type":"LineString","coordinates":[[0,0],[0.001,0]]}},
		{"type":"Feature","properties":{"highway":"residential","oneway":true},"geometry":{"type":"LineString","coordinates":[[0.001,0],[0.0005,0.001]]}},
		{"type":"Feature","properties":{"highway":"residential","oneway":true},"geometry":{"type":"LineString","coordinates":[[0.0005,0.001],[0,0]]}}
	]}`)
	feats, warnings := streets.Parse(raw)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	g := NewBuilder(DefaultSnapTolerance).Build(feats)
	if g.NumNodes() != 3 {
		t.Fatalf("NumNodes() = %d, want 3", g.NumNodes())
	}
	if g.NumEdges() != 3 {
		t.Fatalf("NumEdges() = %d, want 3 (all one-way)", g.NumEdges())
	}
	for v := 0; v < g.NumNodes(); v++ {
		if g.OutDegree(NodeID(v)) != 1 || g.InDegree(NodeID(v)) != 1 {
			t.Errorf("node %d: out=%d in=%d, want 1/1", v, g.OutDegree(NodeID(v)), g.InDegree(NodeID(v)))
		}
	}
}

func TestBuildEmptyInput(t *testing.T) {
	g := NewBuilder(DefaultSnapTolerance).Build(nil)
	if g.NumNodes() != 0 || g.NumEdges() != 0 {
		t.Errorf("expected empty graph, got %d nodes %d edges", g.NumNodes(), g.NumEdges())
	}
}

func TestBuildXCrossingSharesNode(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"highway":"residential"},"geometry":{"type":"LineString","coordinates":[[0,0.5],[1,0.5]]}},
		{"type":"Feature","properties":{"highway":"residential"},"geometry":{"type":"LineString","coordinates":[[0.5,0],[0.5,1]]}}
	]}`)
	feats, _ := streets.Parse(raw)
	g := NewBuilder(DefaultSnapTolerance).Build(feats)

	// Each original line should be split into 2 segments at the
	// crossing, each segment bidirectional: 4 segments x 2 = 8 edges.
	if g.NumEdges() != 8 {
		t.Fatalf("NumEdges() = %d, want 8 after crossing split", g.NumEdges())
	}
	// 4 endpoints + 1 shared crossing node = 5 nodes.
	if g.NumNodes() != 5 {
		t.Fatalf("NumNodes() = %d, want 5", g.NumNodes())
	}
}

func TestEdgeGeometryAlignsWithNodes(t *testing.T) {
	f := squareFeature(false)
	g := NewBuilder(DefaultSnapTolerance).Build([]streets.Feature{f})

	for i := range g.Edges {
		e := &g.Edges[i]
		from, to := g.Node(e.From), g.Node(e.To)
		if e.Geometry[0][0] != from.Lon || e.Geometry[0][1] != from.Lat {
			t.Errorf("edge %d geometry start != From node", e.ID)
		}
		last := e.Geometry[len(e.Geometry)-1]
		if last[0] != to.Lon || last[1] != to.Lat {
			t.Errorf("edge %d geometry end != To node", e.ID)
		}
	}
}
