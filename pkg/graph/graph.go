// Package graph builds and represents the directed street multigraph:
// nodes are intersection-snapped coordinates, edges are arena-indexed so
// CPPSolver can duplicate them freely without aliasing geometry.
package graph

import "github.com/paulmach/orb"

// NodeID identifies a graph vertex. Stable for the life of a Graph.
type NodeID uint32

// EdgeID identifies an arena-stored edge. Stable tie-breaker for
// Hierholzer circuit extraction; never reused even after duplication.
type EdgeID uint32

// Node is a WGS84 point acting as a graph vertex.
type Node struct {
	ID       NodeID
	Lat, Lon float64
}

// Edge is a directed (From, To) arc with geodesic length, drive time,
// and geometry aligned From->To. Geometry is never shared between a
// forward edge and its reverse twin.
type Edge struct {
	ID          EdgeID
	From, To    NodeID
	LengthM     float64
	TimeS       float64
	Geometry    orb.LineString // [0] == From's coords, [len-1] == To's coords, bit-exact
	Highway     string
	Name        string
	IsConnector bool
}

// Graph is the directed multigraph produced by GraphBuilder and mutated
// in place by RouteConnector (component joining) and CPPSolver
// (Eulerization duplication). Adjacency is stored as EdgeID lists
// indexed by NodeID — an arena, not a CSR array, since CPP duplication
// needs to append edges cheaply without invalidating existing indices.
type Graph struct {
	Nodes []Node
	Edges []Edge

	out [][]EdgeID // out[node] = outgoing edge ids
	in  [][]EdgeID // in[node] = incoming edge ids
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode allocates a new node and returns its id.
func (g *Graph) AddNode(lat, lon float64) NodeID {
	id := NodeID(len(g.Nodes))
	g.Nodes = append(g.Nodes, Node{ID: id, Lat: lat, Lon: lon})
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// AddEdge appends a new edge to the arena and wires it into the
// adjacency lists. Returns the new edge's id.
func (g *Graph) AddEdge(from, to NodeID, lengthM, timeS float64, geom orb.LineString, highway, name string, isConnector bool) EdgeID {
	id := EdgeID(len(g.Edges))
	g.Edges = append(g.Edges, Edge{
		ID:          id,
		From:        from,
		To:          to,
		LengthM:     lengthM,
		TimeS:       timeS,
		Geometry:    geom,
		Highway:     highway,
		Name:        name,
		IsConnector: isConnector,
	})
	g.out[from] = append(g.out[from], id)
	g.in[to] = append(g.in[to], id)
	return id
}

// DuplicateEdge appends a parallel copy of an existing edge (used by
// CPPSolver's min-cost-flow Eulerization). The copy gets its own
// geometry slice and a fresh EdgeID; nothing about the original edge
// changes.
func (g *Graph) DuplicateEdge(id EdgeID) EdgeID {
	orig := g.Edges[id]
	geomCopy := make(orb.LineString, len(orig.Geometry))
	copy(geomCopy, orig.Geometry)
	return g.AddEdge(orig.From, orig.To, orig.LengthM, orig.TimeS, geomCopy, orig.Highway, orig.Name, orig.IsConnector)
}

// OutEdges returns the outgoing edge ids of v.
func (g *Graph) OutEdges(v NodeID) []EdgeID { return g.out[v] }

// InEdges returns the incoming edge ids of v.
func (g *Graph) InEdges(v NodeID) []EdgeID { return g.in[v] }

// OutDegree and InDegree report the number of edges incident to v in
// each direction; CPPSolver's degree-balance step uses the difference.
func (g *Graph) OutDegree(v NodeID) int { return len(g.out[v]) }
func (g *Graph) InDegree(v NodeID) int  { return len(g.in[v]) }

// NumNodes and NumEdges report arena sizes.
func (g *Graph) NumNodes() int { return len(g.Nodes) }
func (g *Graph) NumEdges() int { return len(g.Edges) }

// Edge returns the edge for the given id.
func (g *Graph) Edge(id EdgeID) *Edge { return &g.Edges[id] }

// Node returns the node for the given id.
func (g *Graph) Node(id NodeID) *Node { return &g.Nodes[id] }

// TotalLength sums LengthM across every edge in the arena (used for
// deadhead-ratio diagnostics: duplicated length / total length).
func (g *Graph) TotalLength() float64 {
	var total float64
	for _, e := range g.Edges {
		total += e.LengthM
	}
	return total
}
