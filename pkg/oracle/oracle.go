// Package oracle adapts the routing-oracle and cache contracts from
// spec.md §4.6: an HTTP client for driveable-polyline/matrix queries,
// with bounded retry, and a content-addressed cache with TTL. Both are
// thin contracts — the oracle service and cache store themselves are
// external collaborators, out of scope per spec.md §1.
package oracle

import (
	"context"

	"github.com/paulmach/orb"
)

// Profile is one of the four routing profiles spec.md §6 names.
type Profile string

const (
	ProfileDrivingCar      Profile = "driving-car"
	ProfileDrivingHGV      Profile = "driving-hgv"
	ProfileCyclingRegular  Profile = "cycling-regular"
	ProfileFootWalking     Profile = "foot-walking"
)

// Result is a routed polyline and its reported length. UsedFallback is
// set when the oracle could not be reached and a straight-line
// haversine fallback was substituted — callers use this to flag
// degraded segments in diagnostics.
type Result struct {
	Coordinates  orb.LineString
	DistanceM    float64
	UsedFallback bool
}

// Client is the routing-oracle contract: a driveable polyline between
// two points, and an all-pairs distance matrix. Implementations must
// never block indefinitely — ctx cancellation must abort in-flight
// requests — and must never return an error: on exhaustion they
// return a straight-line fallback with UsedFallback set, per spec.md
// §7's OracleExhausted policy.
type Client interface {
	GetRoute(ctx context.Context, start, end orb.Point, profile Profile) (Result, error)
	Matrix(ctx context.Context, locations []orb.Point, profile Profile) ([][]float64, error)
}

// Cache is the content-addressed KV contract fronting the oracle.
// Misses and errors are non-fatal: callers fall through to the oracle
// itself.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}
