package cpp

import (
	"log"
	"math"

	"github.com/azybler/streetcover/pkg/graph"
)

// EulerStats reports what degree-balancing did to one SCC, mirroring
// the euler_stats dict original_source/route_calculator.py's
// _make_eulerian_directed returns.
type EulerStats struct {
	ImbalancedNodes   int
	EdgesAdded        int
	DuplicatedLengthM float64
	DeadheadRatio     float64
}

// eulerize balances in/out-degree across nodes (an SCC's node set) by
// duplicating edges along min-cost-flow-selected shortest paths from
// supply nodes (balance = out-in < 0) to demand nodes (balance > 0),
// then returns the full edge set (original plus
// duplicates) for Hierholzer extraction. Mutates g by appending
// duplicate edges.
func eulerize(g *graph.Graph, nodes []graph.NodeID, edges []graph.EdgeID) ([]graph.EdgeID, EulerStats) {
	nodeSet := make(map[graph.NodeID]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	outDeg := make(map[graph.NodeID]int)
	inDeg := make(map[graph.NodeID]int)
	var originalLength float64
	for _, eid := range edges {
		e := g.Edge(eid)
		outDeg[e.From]++
		inDeg[e.To]++
		originalLength += e.LengthM
	}

	var supply, demand []graph.NodeID
	balance := make(map[graph.NodeID]int, len(nodes))
	for _, n := range nodes {
		b := outDeg[n] - inDeg[n]
		balance[n] = b
		switch {
		case b < 0:
			supply = append(supply, n)
		case b > 0:
			demand = append(demand, n)
		}
	}

	stats := EulerStats{ImbalancedNodes: len(supply) + len(demand)}
	if stats.ImbalancedNodes == 0 {
		return edges, stats
	}
	log.Printf("cpp: %d supply nodes, %d demand nodes", len(supply), len(demand))

	dist := make(map[graph.NodeID]map[graph.NodeID]float64, len(supply))
	via := make(map[graph.NodeID]map[graph.NodeID]graph.EdgeID, len(supply))
	for _, s := range supply {
		d, v := shortestPaths(g, s, nodeSet)
		dist[s] = d
		via[s] = v
	}

	flow := solveFlow(supply, demand, balance, dist)

	edgeSet := append([]graph.EdgeID(nil), edges...)
	for s, row := range flow {
		for d, units := range row {
			if units <= 0 {
				continue
			}
			path := pathTo(g, s, d, via[s])
			if path == nil {
				log.Printf("cpp: no path %v->%v despite flow assignment, skipping", s, d)
				continue
			}
			for u := 0; u < units; u++ {
				for _, eid := range path {
					dup := g.DuplicateEdge(eid)
					edgeSet = append(edgeSet, dup)
					stats.EdgesAdded++
					stats.DuplicatedLengthM += g.Edge(dup).LengthM
				}
			}
		}
	}

	if originalLength > 0 {
		stats.DeadheadRatio = stats.DuplicatedLengthM / originalLength
	}
	log.Printf("cpp: added %d duplicate edges, deadhead ratio %.2f%%", stats.EdgesAdded, stats.DeadheadRatio*100)

	return edgeSet, stats
}

// solveFlow builds the supply->demand bipartite min-cost flow network
// (source -> supply -> demand -> sink, cost = round(dist*1000),
// capacity = |balance(s)|+|balance(d)|) and solves it. Falls back to a
// greedy supply-to-demand assignment if the network can't route all
// required flow (e.g. a supply node with no path to any demand node).
func solveFlow(supply, demand []graph.NodeID, balance map[graph.NodeID]int, dist map[graph.NodeID]map[graph.NodeID]float64) map[graph.NodeID]map[graph.NodeID]int {
	supplyIdx := make(map[graph.NodeID]int, len(supply))
	for i, s := range supply {
		supplyIdx[s] = i
	}
	demandIdx := make(map[graph.NodeID]int, len(demand))
	for i, d := range demand {
		demandIdx[d] = i
	}

	source := 0
	supplyBase := 1
	demandBase := supplyBase + len(supply)
	sink := demandBase + len(demand)

	net := newMCMFGraph(sink + 1)
	type flowEdge struct {
		s, d       graph.NodeID
		idx        int
		originalCap int
	}
	var edgeRefs []flowEdge

	totalDemand := 0
	for _, s := range supply {
		net.addEdge(source, supplyBase+supplyIdx[s], -balance[s], 0)
	}
	for _, d := range demand {
		net.addEdge(demandBase+demandIdx[d], sink, balance[d], 0)
		totalDemand += balance[d]
	}
	for _, s := range supply {
		for _, d := range demand {
			dv, ok := dist[s][d]
			if !ok || math.IsInf(dv, 1) {
				continue
			}
			cap := absInt(balance[s]) + absInt(balance[d])
			cost := int64(math.Round(dv * 1000))
			idx := len(net.adj[supplyBase+supplyIdx[s]])
			net.addEdge(supplyBase+supplyIdx[s], demandBase+demandIdx[d], cap, cost)
			edgeRefs = append(edgeRefs, flowEdge{s: s, d: d, idx: idx, originalCap: cap})
		}
	}

	pushed, ok := net.minCostFlow(source, sink)

	flow := make(map[graph.NodeID]map[graph.NodeID]int, len(supply))
	for _, s := range supply {
		flow[s] = make(map[graph.NodeID]int)
	}

	if !ok || pushed < totalDemand {
		log.Printf("cpp: min-cost flow infeasible (%d/%d units routed), falling back to greedy assignment", pushed, totalDemand)
		return greedyFlowFallback(supply, demand, balance)
	}

	for _, ref := range edgeRefs {
		units := net.flowOn(supplyBase+supplyIdx[ref.s], ref.idx, ref.originalCap)
		if units > 0 {
			flow[ref.s][ref.d] = units
		}
	}
	return flow
}

// greedyFlowFallback assigns supply to demand in declaration order
// until each is exhausted, preserving overall parity (every unit of
// supply matched to a unit of demand) even when it isn't cost-optimal.
// Mirrors _simple_flow_fallback.
func greedyFlowFallback(supply, demand []graph.NodeID, balance map[graph.NodeID]int) map[graph.NodeID]map[graph.NodeID]int {
	remainingSupply := make(map[graph.NodeID]int, len(supply))
	for _, s := range supply {
		remainingSupply[s] = -balance[s]
	}
	remainingDemand := make(map[graph.NodeID]int, len(demand))
	for _, d := range demand {
		remainingDemand[d] = balance[d]
	}

	flow := make(map[graph.NodeID]map[graph.NodeID]int, len(supply))
	for _, s := range supply {
		flow[s] = make(map[graph.NodeID]int)
		for _, d := range demand {
			if remainingSupply[s] <= 0 {
				break
			}
			if remainingDemand[d] <= 0 {
				continue
			}
			units := minInt(remainingSupply[s], remainingDemand[d])
			flow[s][d] = units
			remainingSupply[s] -= units
			remainingDemand[d] -= units
		}
	}
	return flow
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
