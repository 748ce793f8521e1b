// Package connector implements RouteConnector: joining weakly
// disconnected components of the street graph into one traversable
// whole, and bridging discontinuities in an assembled route. Grounded
// on original_source/route_connector.py, rewritten onto
// pkg/graph.Graph's arena representation and pkg/oracle.Client instead
// of networkx/ORSClient.
package connector

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/geo"
	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/oracle"
)

const (
	// maxCentroidDistM skips component pairs whose centroids are this
	// far apart without even sampling candidate node pairs.
	maxCentroidDistM = 5000.0
	// directConnectM is the coverage-mode threshold below which two
	// nodes are joined with a direct segment, U-turn and all.
	directConnectM = 50.0
	// uTurnCandidateM is the threshold below which a U-turn-via-shared-
	// intersection path is attempted before falling back to routing.
	uTurnCandidateM = 100.0
	// uTurnNeighborM is how close two components' neighbor nodes must
	// be to be treated as the same physical intersection.
	uTurnNeighborM = 20.0
	// earlyStopFactor: stop searching candidates once a routed distance
	// is within this factor of the straight-line distance.
	earlyStopFactor = 1.5

	maxIterations  = 10
	stallTolerance = 3
)

// Connector joins disconnected components and repairs route
// discontinuities, using an oracle.Client for point-to-point routing
// when a direct or U-turn join isn't available.
type Connector struct {
	Oracle       oracle.Client
	CoverageMode bool

	// UTurnConnectionsUsed counts how many joins this Connector has
	// resolved via the U-turn-via-shared-neighbor heuristic rather
	// than a direct join or oracle route, exposed to diagnostics so a
	// caller can verify the heuristic (flagged speculative in
	// spec.md's Open Questions) isn't inflating deadhead.
	UTurnConnectionsUsed int
}

// New returns a Connector. coverageMode true prioritizes coverage
// (allowing U-turns and direct joins on small gaps) over the smoother
// paths a navigation client would prefer, matching
// original_source/route_connector.py's coverage_mode flag.
func New(client oracle.Client, coverageMode bool) *Connector {
	return &Connector{Oracle: client, CoverageMode: coverageMode}
}

// ConnectComponents joins g's weakly connected components into one,
// iteratively adding the cheapest cross-component route it can find
// until a single component remains, maxIterations is hit, or more
// than stallTolerance consecutive iterations make no progress.
// ConnectComponents returns the number of remaining weakly-connected
// components (1 if fully joined) and the number of stalled iterations
// encountered along the way, so callers can surface spec.md §7's
// Disconnected warning when more than one component survives.
func (c *Connector) ConnectComponents(ctx context.Context, g *graph.Graph, maxCandidates int) (remaining, stallCount int, err error) {
	comps := graph.WeakComponents(g)
	if len(comps) <= 1 {
		return len(comps), 0, nil
	}
	log.Printf("connector: %d disconnected components", len(comps))

	prevCount := len(comps)
	stalls := 0

	for iter := 1; iter <= maxIterations && len(comps) > 1; iter++ {
		conn, ok := c.findBestConnection(ctx, g, comps, maxCandidates)
		if !ok {
			log.Printf("connector: no valid connection found at iteration %d, stopping", iter)
			break
		}

		c.addRouteToGraph(g, conn.route, conn.source, conn.target, true)

		comps = graph.WeakComponents(g)
		newCount := len(comps)
		log.Printf("connector: iteration %d reduced to %d components (was %d)", iter, newCount, prevCount)

		if newCount >= prevCount {
			stalls++
			stallCount++
			if stalls > stallTolerance {
				log.Printf("connector: no progress after %d stalls, stopping", stalls)
				break
			}
		} else {
			stalls = 0
		}
		prevCount = newCount
	}

	if len(comps) > 1 {
		log.Printf("connector: graph still has %d disconnected components", len(comps))
	}
	return len(comps), stallCount, nil
}

type connection struct {
	route          orb.LineString
	distance       float64
	source, target graph.NodeID
}

// findBestConnection tries every pair of components and keeps the
// cheapest candidate route found across all pairs, matching the
// original's exhaustive itertools.combinations search.
func (c *Connector) findBestConnection(ctx context.Context, g *graph.Graph, comps []graph.Component, maxCandidates int) (connection, bool) {
	var best connection
	bestDist := math.Inf(1)
	found := false

	for i := 0; i < len(comps); i++ {
		for j := i + 1; j < len(comps); j++ {
			conn, ok := c.findClosestNodes(ctx, g, comps[i], comps[j], maxCandidates)
			if ok && conn.distance < bestDist {
				best = conn
				bestDist = conn.distance
				found = true
			}
		}
	}
	return best, found
}

type candidate struct {
	a, b graph.NodeID
	dist float64
}

// findClosestNodes pre-filters by centroid distance, samples the
// maxCandidates nearest node pairs by straight-line distance, then
// resolves the first workable route among them (direct join, U-turn,
// or oracle routing), stopping early once a routed distance is close
// enough to the straight-line lower bound.
func (c *Connector) findClosestNodes(ctx context.Context, g *graph.Graph, comp1, comp2 graph.Component, maxCandidates int) (connection, bool) {
	lat1, lon1 := comp1.Centroid(g)
	lat2, lon2 := comp2.Centroid(g)
	if geo.Haversine(lat1, lon1, lat2, lon2) > maxCentroidDistM {
		return connection{}, false
	}

	candidates := make([]candidate, 0, len(comp1.Nodes)*len(comp2.Nodes))
	for _, a := range comp1.Nodes {
		na := g.Node(a)
		for _, b := range comp2.Nodes {
			nb := g.Node(b)
			candidates = append(candidates, candidate{a, b, geo.Haversine(na.Lat, na.Lon, nb.Lat, nb.Lon)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	for _, cand := range candidates {
		na, nb := g.Node(cand.a), g.Node(cand.b)
		start := orb.Point{na.Lon, na.Lat}
		end := orb.Point{nb.Lon, nb.Lat}

		if c.CoverageMode && cand.dist < directConnectM {
			return connection{route: orb.LineString{start, end}, distance: cand.dist, source: cand.a, target: cand.b}, true
		}

		if c.CoverageMode && cand.dist < uTurnCandidateM {
			if path, ok := c.findUTurnPath(g, cand.a, cand.b); ok {
				c.UTurnConnectionsUsed++
				return connection{route: path, distance: pathLength(path), source: cand.a, target: cand.b}, true
			}
		}

		if c.Oracle != nil {
			res, err := c.Oracle.GetRoute(ctx, start, end, oracle.ProfileDrivingCar)
			if err == nil && len(res.Coordinates) >= 2 {
				if res.DistanceM < cand.dist*earlyStopFactor || cand.dist >= directConnectM {
					return connection{route: res.Coordinates, distance: res.DistanceM, source: cand.a, target: cand.b}, true
				}
			}
		}

		if c.CoverageMode {
			return connection{route: orb.LineString{start, end}, distance: cand.dist, source: cand.a, target: cand.b}, true
		}
	}

	return connection{}, false
}

// findUTurnPath looks for a shared near-intersection between a node's
// neighbors in comp1 and another's neighbors in comp2, producing a
// node1->n1->n2->node2 path rather than a straight cross-component
// jump — the coverage heuristic that lets the driver do a legal U-turn
// instead of teleporting across a gap.
func (c *Connector) findUTurnPath(g *graph.Graph, a, b graph.NodeID) (orb.LineString, bool) {
	neighborsA := adjacentNodes(g, a)
	neighborsB := adjacentNodes(g, b)

	na := g.Node(a)
	nb := g.Node(b)

	for _, n1 := range neighborsA {
		p1 := g.Node(n1)
		for _, n2 := range neighborsB {
			p2 := g.Node(n2)
			if geo.Haversine(p1.Lat, p1.Lon, p2.Lat, p2.Lon) < uTurnNeighborM {
				return orb.LineString{
					{na.Lon, na.Lat},
					{p1.Lon, p1.Lat},
					{p2.Lon, p2.Lat},
					{nb.Lon, nb.Lat},
				}, true
			}
		}
	}
	return nil, false
}

func adjacentNodes(g *graph.Graph, n graph.NodeID) []graph.NodeID {
	seen := make(map[graph.NodeID]bool)
	var out []graph.NodeID
	for _, eid := range g.OutEdges(n) {
		to := g.Edge(eid).To
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
	}
	for _, eid := range g.InEdges(n) {
		from := g.Edge(eid).From
		if !seen[from] {
			seen[from] = true
			out = append(out, from)
		}
	}
	return out
}

func pathLength(path orb.LineString) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += geo.Geodesic(path[i][1], path[i][0], path[i+1][1], path[i+1][0])
	}
	return total
}

// addRouteToGraph adds route as a chain of bidirectional connector
// edges between source and target, minting a fresh node for each
// interior coordinate. Mirrors
// original_source/route_connector.py::_add_route_to_graph, minus the
// coordinate-tuple deduplication networkx gets for free — the arena
// graph always gets fresh nodes for a connector's interior points.
func (c *Connector) addRouteToGraph(g *graph.Graph, route orb.LineString, source, target graph.NodeID, isConnector bool) {
	if len(route) < 2 {
		return
	}

	srcPt := nodePoint(g, source)
	tgtPt := nodePoint(g, target)

	prev := source
	prevPt := srcPt
	if !pointsEqual(srcPt, route[0]) {
		mid := g.AddNode(route[0][1], route[0][0])
		addConnectorEdge(g, prev, mid, prevPt, route[0], isConnector)
		prev = mid
		prevPt = route[0]
	}

	for i := 0; i+1 < len(route); i++ {
		next := route[i+1]
		var nextNode graph.NodeID
		if i+1 == len(route)-1 && pointsEqual(tgtPt, next) {
			nextNode = target
		} else {
			nextNode = g.AddNode(next[1], next[0])
		}
		addConnectorEdge(g, prev, nextNode, prevPt, next, isConnector)
		prev = nextNode
		prevPt = next
	}

	if !pointsEqual(prevPt, tgtPt) {
		addConnectorEdge(g, prev, target, prevPt, tgtPt, isConnector)
	}
}

func nodePoint(g *graph.Graph, n graph.NodeID) orb.Point {
	nd := g.Node(n)
	return orb.Point{nd.Lon, nd.Lat}
}

func pointsEqual(a, b orb.Point) bool {
	return a[0] == b[0] && a[1] == b[1]
}

func addConnectorEdge(g *graph.Graph, from, to graph.NodeID, a, b orb.Point, isConnector bool) {
	length := geo.Geodesic(a[1], a[0], b[1], b[0])
	highway := "route"
	name := ""
	if isConnector {
		highway = "connector"
		name = "Connection route"
	}
	g.AddEdge(from, to, length, length/10.0, orb.LineString{a, b}, highway, name, isConnector)
	g.AddEdge(to, from, length, length/10.0, orb.LineString{b, a}, highway, name, isConnector)
}
