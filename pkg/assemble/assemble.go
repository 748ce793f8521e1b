// Package assemble implements RouteAssembler: turning a stitched
// circuit polyline (CPPSolver's output, gaps already bridged by
// pkg/connector) into final route statistics. Grounded on
// original_source/route_calculator.py's
// _calculate_route_stats/_validate_continuity.
package assemble

import (
	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/connector"
	"github.com/azybler/streetcover/pkg/geo"
	"github.com/azybler/streetcover/pkg/oracle"
)

// DefaultMaxGapM is the continuity threshold spec.md §4.4 names.
const DefaultMaxGapM = 30.0

// profileSpeedMPS mirrors route_calculator.py's speed_by_profile
// table (also duplicated in pkg/chunker for chunk time, here for
// whole-route time).
var profileSpeedMPS = map[oracle.Profile]float64{
	oracle.ProfileDrivingCar:     10.0,
	oracle.ProfileDrivingHGV:     8.0,
	oracle.ProfileCyclingRegular: 4.0,
	oracle.ProfileFootWalking:    1.4,
}

const defaultSpeedMPS = 10.0

// Route is the final assembled result: geometry plus scalar stats.
type Route struct {
	Geometry      orb.LineString
	LengthM       float64
	DriveTimeS    float64
	Valid         bool
	MaxGapM       float64
	GapViolations int
}

// Assemble computes length, time, and continuity validity for a
// stitched polyline. It does not itself bridge gaps — that's
// pkg/connector's job, already applied upstream by CPPSolver — but it
// re-validates continuity since callers need the final say on
// "valid" before persisting a route.
func Assemble(route orb.LineString, profile oracle.Profile, maxGapM float64) Route {
	if maxGapM <= 0 {
		maxGapM = DefaultMaxGapM
	}

	length := geo.GeodesicLength(latsOf(route), lonsOf(route))
	speed, ok := profileSpeedMPS[profile]
	if !ok {
		speed = defaultSpeedMPS
	}

	maxGap, violations := connector.ValidateRouteContinuity(route, maxGapM)

	return Route{
		Geometry:      route,
		LengthM:       length,
		DriveTimeS:    length / speed,
		Valid:         violations == 0,
		MaxGapM:       maxGap,
		GapViolations: violations,
	}
}

func latsOf(ls orb.LineString) []float64 {
	lats := make([]float64, len(ls))
	for i, p := range ls {
		lats[i] = p[1]
	}
	return lats
}

func lonsOf(ls orb.LineString) []float64 {
	lons := make([]float64, len(ls))
	for i, p := range ls {
		lons[i] = p[0]
	}
	return lons
}
