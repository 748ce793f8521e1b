package cpp

import "math"

// mcmfEdge is a residual-graph arc: to, remaining capacity, cost per
// unit flow, and the index of its paired reverse arc in the same
// node's edge list.
type mcmfEdge struct {
	to, rev int
	cap     int
	cost    int64
}

// mcmfGraph is a classic adjacency-list min-cost max-flow network:
// source -> supply nodes -> demand nodes -> sink, solved by repeated
// shortest augmenting paths (Bellman-Ford/SPFA, since residual arcs
// carry negative cost so Dijkstra alone doesn't apply).
type mcmfGraph struct {
	adj [][]mcmfEdge
}

func newMCMFGraph(n int) *mcmfGraph {
	return &mcmfGraph{adj: make([][]mcmfEdge, n)}
}

func (g *mcmfGraph) addEdge(from, to, cap int, cost int64) {
	g.adj[from] = append(g.adj[from], mcmfEdge{to: to, cap: cap, cost: cost, rev: len(g.adj[to])})
	g.adj[to] = append(g.adj[to], mcmfEdge{to: from, cap: 0, cost: -cost, rev: len(g.adj[from]) - 1})
}

// minCostFlow pushes flow from source to sink until no augmenting path
// remains, always taking the cheapest available path (SPFA handles the
// negative-cost residual arcs that Dijkstra can't). Returns the total
// flow pushed; ok is false if source can't reach sink at all (the
// caller falls back to greedy assignment).
func (g *mcmfGraph) minCostFlow(source, sink int) (flow int, ok bool) {
	n := len(g.adj)
	pushedAny := false

	for {
		dist := make([]int64, n)
		inQueue := make([]bool, n)
		prevNode := make([]int, n)
		prevEdge := make([]int, n)
		for i := range dist {
			dist[i] = math.MaxInt64
			prevNode[i] = -1
		}
		dist[source] = 0

		queue := []int{source}
		inQueue[source] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			inQueue[u] = false

			for i, e := range g.adj[u] {
				if e.cap <= 0 {
					continue
				}
				nd := dist[u] + e.cost
				if nd < dist[e.to] {
					dist[e.to] = nd
					prevNode[e.to] = u
					prevEdge[e.to] = i
					if !inQueue[e.to] {
						queue = append(queue, e.to)
						inQueue[e.to] = true
					}
				}
			}
		}

		if prevNode[sink] == -1 {
			break
		}

		bottleneck := math.MaxInt64
		for v := sink; v != source; v = prevNode[v] {
			e := g.adj[prevNode[v]][prevEdge[v]]
			if e.cap < bottleneck {
				bottleneck = e.cap
			}
		}
		for v := sink; v != source; v = prevNode[v] {
			u := prevNode[v]
			ei := prevEdge[v]
			g.adj[u][ei].cap -= bottleneck
			rev := g.adj[u][ei].rev
			g.adj[v][rev].cap += bottleneck
		}
		flow += bottleneck
		pushedAny = true
	}

	return flow, pushedAny || flow > 0
}

// flowOn reports how much flow crosses the edge supply->demand after
// solving, reconstructed from how far capacity dropped below what was
// originally offered. Callers pass the same capacity they built the
// edge with.
func (g *mcmfGraph) flowOn(from int, edgeIndex int, originalCap int) int {
	return originalCap - g.adj[from][edgeIndex].cap
}
