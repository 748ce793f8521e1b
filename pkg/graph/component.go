package graph

import "sort"

// UnionFind implements a disjoint-set data structure with path
// compression and union by rank. Adapted from the teacher's
// pkg/graph/component.go, generalized from uint32 node indices to
// NodeID.
type UnionFind struct {
	parent []NodeID
	rank   []byte // byte is sufficient — max rank ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]NodeID, n)
	size := make([]uint32, n)
	for i := range parent {
		parent[i] = NodeID(i)
		size[i] = 1
	}
	return &UnionFind{parent: parent, rank: make([]byte, n), size: size}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x NodeID) NodeID {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y NodeID) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Component is a weakly-connected subset of a Graph's nodes.
type Component struct {
	Nodes []NodeID
}

// WeakComponents partitions g's nodes into weakly-connected components
// (edges treated as undirected), sorted by node count descending — the
// order RouteConnector's component-joining loop requires.
func WeakComponents(g *Graph) []Component {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	uf := NewUnionFind(n)
	for v := 0; v < n; v++ {
		for _, eid := range g.OutEdges(NodeID(v)) {
			e := g.Edge(eid)
			uf.Union(e.From, e.To)
		}
	}

	byRoot := make(map[NodeID][]NodeID)
	for v := 0; v < n; v++ {
		root := uf.Find(NodeID(v))
		byRoot[root] = append(byRoot[root], NodeID(v))
	}

	components := make([]Component, 0, len(byRoot))
	for _, nodes := range byRoot {
		components = append(components, Component{Nodes: nodes})
	}

	sort.Slice(components, func(i, j int) bool {
		return len(components[i].Nodes) > len(components[j].Nodes)
	})
	return components
}

// Centroid returns the mean lat/lon of a component's nodes.
func (c Component) Centroid(g *Graph) (lat, lon float64) {
	var sumLat, sumLon float64
	for _, id := range c.Nodes {
		n := g.Node(id)
		sumLat += n.Lat
		sumLon += n.Lon
	}
	count := float64(len(c.Nodes))
	return sumLat / count, sumLon / count
}
