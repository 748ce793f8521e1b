package oracle

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/geo"
)

// FakeClient is a deterministic Client for tests and for running the
// pipeline without a live oracle: every route is a straight line
// (optionally routed through configured Detours), matching the
// testable-property requirement that the pipeline be idempotent when
// given a deterministic oracle.
type FakeClient struct {
	// Detours maps a "lon1,lat1->lon2,lat2" key to a replacement
	// polyline, for tests that need a non-straight-line route.
	Detours map[string]orb.LineString
	Calls   int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{Detours: make(map[string]orb.LineString)}
}

func (f *FakeClient) GetRoute(ctx context.Context, start, end orb.Point, profile Profile) (Result, error) {
	f.Calls++
	if geom, ok := f.Detours[detourKey(start, end)]; ok {
		lats := make([]float64, len(geom))
		lons := make([]float64, len(geom))
		for i, p := range geom {
			lons[i], lats[i] = p[0], p[1]
		}
		return Result{Coordinates: geom, DistanceM: geo.GeodesicLength(lats, lons)}, nil
	}
	return straightLine(start, end), nil
}

func (f *FakeClient) Matrix(ctx context.Context, locations []orb.Point, profile Profile) ([][]float64, error) {
	f.Calls++
	return haversineMatrix(locations), nil
}

func detourKey(start, end orb.Point) string {
	return fmt.Sprintf("%.6f,%.6f->%.6f,%.6f", start[0], start[1], end[0], end[1])
}
