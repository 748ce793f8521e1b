// Package cpp implements CPPSolver: the directed Chinese Postman
// solver that makes each strongly-connected component of the street
// graph Eulerian via minimum-cost-flow degree balancing, extracts a
// circuit per SCC with Hierholzer's algorithm, and stitches the
// per-SCC circuits into one polyline ordered by a nearest-neighbor
// tour over SCC centroids. Grounded on
// original_source/route_calculator.py (RouteCalculator._make_eulerian_directed
// / _order_sccs_by_centroid / _stitch_scc_circuits), rewritten onto
// pkg/graph.Graph's arena representation and pkg/connector for gap
// handling instead of networkx + ORSClient.
package cpp

import (
	"context"
	"log"

	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/connector"
	"github.com/azybler/streetcover/pkg/geo"
	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/oracle"
)

// DefaultMaxGapM is the gap above which adjacent SCC circuits are
// joined via an oracle-routed connector rather than relying on
// gap-repair alone, per spec.md §4.3.
const DefaultMaxGapM = 30.0

// SCCStats reports one SCC's size and Eulerization outcome, the Go
// analogue of the original's per-SCC scc_stats dict entries.
type SCCStats struct {
	Index      int
	Nodes      int
	Edges      int
	Euler      EulerStats
	CircuitLen int
	Degraded   bool
}

// Result is CPPSolver's output: the fully stitched route polyline plus
// per-SCC diagnostics.
type Result struct {
	Route    orb.LineString
	SCCStats []SCCStats
}

// Solver computes the directed CPP solution and stitches it into one
// polyline.
type Solver struct {
	Connector *connector.Connector
	MaxGapM   float64
	Profile   oracle.Profile
}

// New returns a Solver. maxGapM <= 0 uses DefaultMaxGapM.
func New(conn *connector.Connector, maxGapM float64, profile oracle.Profile) *Solver {
	if maxGapM <= 0 {
		maxGapM = DefaultMaxGapM
	}
	return &Solver{Connector: conn, MaxGapM: maxGapM, Profile: profile}
}

type sccCircuit struct {
	nodes   []graph.NodeID
	circuit []graph.EdgeID
}

// Solve decomposes g into SCCs, Eulerizes and extracts a circuit for
// each, orders the SCCs by nearest-neighbor tour over their centroids,
// and stitches the resulting circuits into a single polyline.
func (s *Solver) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	sccs := graph.StronglyConnectedComponents(g)
	log.Printf("cpp: found %d strongly connected components", len(sccs))

	var circuits []sccCircuit
	var stats []SCCStats

	for idx, scc := range sccs {
		if len(scc.Nodes) == 0 {
			continue
		}
		inSCC := make(map[graph.NodeID]bool, len(scc.Nodes))
		for _, n := range scc.Nodes {
			inSCC[n] = true
		}

		var edges []graph.EdgeID
		for _, n := range scc.Nodes {
			for _, eid := range g.OutEdges(n) {
				if inSCC[g.Edge(eid).To] {
					edges = append(edges, eid)
				}
			}
		}
		if len(edges) == 0 {
			log.Printf("cpp: SCC %d has no internal edges, skipping", idx)
			continue
		}

		log.Printf("cpp: SCC %d: %d nodes, %d edges", idx, len(scc.Nodes), len(edges))

		edgeSet, euler := eulerize(g, scc.Nodes, edges)
		circuit := eulerianCircuit(g, scc.Nodes, edgeSet, scc.Nodes[0])
		degraded := len(circuit) != len(edgeSet)
		if degraded {
			log.Printf("cpp: SCC %d: Hierholzer recovered %d/%d edges, falling back to edge-set order for the whole SCC", idx, len(circuit), len(edgeSet))
			circuit = edgeSet
		}

		circuits = append(circuits, sccCircuit{nodes: scc.Nodes, circuit: circuit})
		stats = append(stats, SCCStats{
			Index:      idx,
			Nodes:      len(scc.Nodes),
			Edges:      len(edges),
			Euler:      euler,
			CircuitLen: len(circuit),
			Degraded:   degraded,
		})
	}

	if len(circuits) == 0 {
		return Result{}, nil
	}

	order := orderByCentroid(g, circuits)

	route, err := s.stitch(ctx, g, circuits, order)
	if err != nil {
		return Result{}, err
	}

	return Result{Route: route, SCCStats: stats}, nil
}

// orderByCentroid computes each circuit's node centroid and returns a
// nearest-neighbor visiting order starting at circuit 0, matching
// _order_sccs_by_centroid.
func orderByCentroid(g *graph.Graph, circuits []sccCircuit) []int {
	n := len(circuits)
	centroids := make([][2]float64, n) // lat, lon
	for i, c := range circuits {
		var sumLat, sumLon float64
		for _, nd := range c.nodes {
			node := g.Node(nd)
			sumLat += node.Lat
			sumLon += node.Lon
		}
		centroids[i] = [2]float64{sumLat / float64(len(c.nodes)), sumLon / float64(len(c.nodes))}
	}

	if n <= 1 {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}

	visited := make([]bool, n)
	order := []int{0}
	visited[0] = true

	for len(order) < n {
		last := centroids[order[len(order)-1]]
		best, bestDist := -1, -1.0
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := geo.Haversine(last[0], last[1], centroids[i][0], centroids[i][1])
			if best == -1 || d < bestDist {
				best, bestDist = i, d
			}
		}
		order = append(order, best)
		visited[best] = true
	}
	return order
}

// stitch bridges each SCC's circuit into a polyline and concatenates
// them in order, inserting an oracle-routed connector between
// consecutive SCCs whenever the gap exceeds MaxGapM. Mirrors
// _stitch_scc_circuits.
func (s *Solver) stitch(ctx context.Context, g *graph.Graph, circuits []sccCircuit, order []int) (orb.LineString, error) {
	var route orb.LineString

	for _, idx := range order {
		coords, err := s.Connector.BridgeRouteGaps(ctx, g, circuits[idx].circuit, s.Profile)
		if err != nil {
			return nil, err
		}
		if len(coords) == 0 {
			log.Printf("cpp: SCC circuit %d produced no coordinates", idx)
			continue
		}

		if len(route) == 0 {
			route = coords
			continue
		}

		last := route[len(route)-1]
		first := coords[0]
		gap := geo.Geodesic(last[1], last[0], first[1], first[0])

		if gap > s.MaxGapM {
			log.Printf("cpp: connecting SCCs with %.0fm gap", gap)
			res, err := s.Connector.Oracle.GetRoute(ctx, last, first, s.Profile)
			if err == nil && len(res.Coordinates) > 1 {
				route = append(route, res.Coordinates[1:]...)
			}
		}

		if pointsEqual(route[len(route)-1], coords[0]) {
			route = append(route, coords[1:]...)
		} else {
			route = append(route, coords...)
		}
	}

	return route, nil
}

func pointsEqual(a, b orb.Point) bool {
	return a[0] == b[0] && a[1] == b[1]
}
