package connector

import (
	"context"
	"log"

	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/geo"
	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/oracle"
)

const (
	// snapGapM: gaps at or below this are floating-point noise, not a
	// real discontinuity — just concatenate.
	snapGapM = 0.001
	// smallJoinM: gaps at or below this are closed with a direct point
	// insertion, no oracle call needed.
	smallJoinM = 20.0
	// maxRepairFixes bounds the final continuity-repair pass so a
	// pathological route can't loop forever.
	maxRepairFixes = 200
	// defaultMaxGapM is the continuity-validation threshold used when
	// the caller doesn't override it: the canonical 30 m validity
	// threshold, matching assemble.DefaultMaxGapM.
	defaultMaxGapM = 30.0
)

// BridgeRouteGaps walks an Eulerian circuit's edges in order, emitting
// one continuous coordinate sequence. Consecutive edges whose
// endpoints don't touch (a != b due to Eulerization/connector seams)
// are bridged: snapped if the gap is noise, direct-joined if small, or
// routed through the oracle if large. Grounded on
// original_source/route_connector.py::bridge_route_gaps.
func (c *Connector) BridgeRouteGaps(ctx context.Context, g *graph.Graph, circuit []graph.EdgeID, profile oracle.Profile) (orb.LineString, error) {
	if len(circuit) == 0 {
		return nil, nil
	}

	var out orb.LineString
	gapsBridged := 0
	totalGapDistance := 0.0

	for idx, eid := range circuit {
		edge := g.Edge(eid)
		seg := edge.Geometry
		if len(seg) < 2 {
			from, to := g.Node(edge.From), g.Node(edge.To)
			seg = orb.LineString{{from.Lon, from.Lat}, {to.Lon, to.Lat}}
		}

		if len(out) == 0 {
			out = append(out, seg...)
			continue
		}

		lastPt := out[len(out)-1]
		firstPt := seg[0]
		gap := geo.Geodesic(lastPt[1], lastPt[0], firstPt[1], firstPt[0])

		if gap > 10.0 {
			log.Printf("connector: edge %d/%d: %.1fm gap between edges", idx, len(circuit), gap)
		}

		switch {
		case gap <= snapGapM:
			out = append(out, seg[1:]...)

		case gap <= smallJoinM:
			out = append(out, firstPt)
			out = append(out, seg[1:]...)
			gapsBridged++
			totalGapDistance += gap

		default:
			bridge := c.routeBridge(ctx, lastPt, firstPt, profile)
			if len(bridge) > 1 {
				bridge[0] = lastPt
				bridge[len(bridge)-1] = firstPt
				out = append(out, bridge[1:]...)
			} else {
				out = append(out, firstPt)
			}
			out = append(out, seg[1:]...)
			gapsBridged++
			totalGapDistance += gap
		}
	}

	repaired, fixes := c.repairContinuity(ctx, out, profile)
	out = repaired
	gapsBridged += fixes

	maxGap, violations := ValidateRouteContinuity(out, defaultMaxGapM)
	log.Printf("connector: bridge_route_gaps complete: bridged %d gaps, total distance %.0fm", gapsBridged, totalGapDistance)
	log.Printf("connector: route validation: max_gap=%.1fm violations=%d", maxGap, violations)

	return out, nil
}

func (c *Connector) routeBridge(ctx context.Context, a, b orb.Point, profile oracle.Profile) orb.LineString {
	if c.Oracle == nil {
		return nil
	}
	res, err := c.Oracle.GetRoute(ctx, a, b, profile)
	if err != nil || len(res.Coordinates) < 2 {
		return nil
	}
	return res.Coordinates
}

// repairContinuity makes a single forward pass over an assembled
// route, closing any remaining gap above smallJoinM by routing once
// and, failing that, snapping forward to guarantee progress. Bounded
// by maxRepairFixes so a persistently unroutable gap can't loop
// forever. Mirrors
// original_source/route_connector.py::_repair_continuity.
func (c *Connector) repairContinuity(ctx context.Context, coords orb.LineString, profile oracle.Profile) (orb.LineString, int) {
	if len(coords) < 2 {
		return coords, 0
	}

	fixed := 0
	i := 0
	for i < len(coords)-1 && fixed < maxRepairFixes {
		a, b := coords[i], coords[i+1]
		gap := geo.Geodesic(a[1], a[0], b[1], b[0])
		if gap <= smallJoinM {
			i++
			continue
		}

		log.Printf("connector: final repair: %.1fm gap at index %d", gap, i)
		bridge := c.routeBridge(ctx, a, b, profile)
		if len(bridge) > 1 {
			bridge[0] = a
			bridge[len(bridge)-1] = b
			coords = spliceRoute(coords, i, bridge)
			fixed++
			advance := len(bridge) - 1
			if advance < 1 {
				advance = 1
			}
			i += advance
			continue
		}

		coords[i+1] = a
		fixed++
		i++
	}

	if fixed >= maxRepairFixes {
		log.Printf("connector: final repair aborted after %d fixes (hit limit)", fixed)
	}
	return coords, fixed
}

// spliceRoute replaces coords[i:i+2] with bridge in place-equivalent
// fashion, mirroring Python's coords[i:i+2] = bridge slice assignment.
func spliceRoute(coords orb.LineString, i int, bridge orb.LineString) orb.LineString {
	out := make(orb.LineString, 0, len(coords)-2+len(bridge))
	out = append(out, coords[:i]...)
	out = append(out, bridge...)
	out = append(out, coords[i+2:]...)
	return out
}

// ValidateRouteContinuity reports the largest gap between consecutive
// coordinates and how many exceed maxGapM.
func ValidateRouteContinuity(coords orb.LineString, maxGapM float64) (maxGapFound float64, violations int) {
	if maxGapM <= 0 {
		maxGapM = defaultMaxGapM
	}
	for i := 0; i+1 < len(coords); i++ {
		p1, p2 := coords[i], coords[i+1]
		d := geo.Geodesic(p1[1], p1[0], p2[1], p2[0])
		if d > maxGapFound {
			maxGapFound = d
		}
		if d > maxGapM {
			violations++
		}
	}
	return maxGapFound, violations
}
