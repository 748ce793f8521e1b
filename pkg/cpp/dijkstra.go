package cpp

import (
	"container/heap"

	"github.com/azybler/streetcover/pkg/graph"
)

// shortestPaths runs Dijkstra from src over the edge set restricted to
// allowed, returning per-node distance and the edge used to reach each
// node (for path reconstruction). Nodes unreachable from src are
// simply absent from dist/via.
func shortestPaths(g *graph.Graph, src graph.NodeID, allowed map[graph.NodeID]bool) (dist map[graph.NodeID]float64, via map[graph.NodeID]graph.EdgeID) {
	dist = map[graph.NodeID]float64{src: 0}
	via = make(map[graph.NodeID]graph.EdgeID)

	pq := &nodeHeap{{node: src, dist: 0}}
	visited := make(map[graph.NodeID]bool)

	for pq.Len() > 0 {
		top := heap.Pop(pq).(nodeDist)
		u := top.node
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, eid := range g.OutEdges(u) {
			e := g.Edge(eid)
			if !allowed[e.To] {
				continue
			}
			nd := dist[u] + e.LengthM
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				via[e.To] = eid
				heap.Push(pq, nodeDist{node: e.To, dist: nd})
			}
		}
	}
	return dist, via
}

// pathTo reconstructs the edge sequence src->dst from via, walking
// backwards from dst. Returns nil if dst is unreachable.
func pathTo(g *graph.Graph, src, dst graph.NodeID, via map[graph.NodeID]graph.EdgeID) []graph.EdgeID {
	if src == dst {
		return nil
	}
	var rev []graph.EdgeID
	cur := dst
	for cur != src {
		eid, ok := via[cur]
		if !ok {
			return nil
		}
		rev = append(rev, eid)
		cur = g.Edge(eid).From
	}
	path := make([]graph.EdgeID, len(rev))
	for i, e := range rev {
		path[len(rev)-1-i] = e
	}
	return path
}

type nodeDist struct {
	node graph.NodeID
	dist float64
}

type nodeHeap []nodeDist

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool   { return h[i].dist < h[j].dist }
func (h nodeHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{})  { *h = append(*h, x.(nodeDist)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
