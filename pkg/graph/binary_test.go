package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func TestWriteReadBinaryRoundTrip(t *testing.T) {
	g := New()
	a := g.AddNode(1.3521, 103.8198)
	b := g.AddNode(1.3600, 103.8300)
	g.AddEdge(a, b, 1234.5, 123.45, orb.LineString{{103.8198, 1.3521}, {103.8300, 1.3600}}, "residential", "Example Rd", false)

	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if got.NumNodes() != g.NumNodes() || got.NumEdges() != g.NumEdges() {
		t.Fatalf("round trip mismatch: nodes %d/%d edges %d/%d", got.NumNodes(), g.NumNodes(), got.NumEdges(), g.NumEdges())
	}
	if got.Edge(0).Highway != "residential" || got.Edge(0).Name != "Example Rd" {
		t.Errorf("edge tags not preserved: %+v", got.Edge(0))
	}
	if len(got.Edge(0).Geometry) != 2 {
		t.Errorf("geometry not preserved: %+v", got.Edge(0).Geometry)
	}
}

func TestReadBinaryRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(path, []byte("not a graph file at all"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := ReadBinary(path); err == nil {
		t.Error("expected error reading garbage file")
	}
}
