package oracle

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
)

func TestFakeClientStraightLineDeterministic(t *testing.T) {
	f := NewFakeClient()
	start := orb.Point{-122.419, 37.774}
	end := orb.Point{-122.420, 37.776}

	r1, err := f.GetRoute(context.Background(), start, end, ProfileDrivingCar)
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	r2, err := f.GetRoute(context.Background(), start, end, ProfileDrivingCar)
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	if r1.DistanceM != r2.DistanceM {
		t.Fatalf("expected deterministic distance, got %f then %f", r1.DistanceM, r2.DistanceM)
	}
	if len(r1.Coordinates) != 2 {
		t.Fatalf("expected straight-line 2-point geometry, got %d points", len(r1.Coordinates))
	}
	if f.Calls != 2 {
		t.Fatalf("expected 2 calls recorded, got %d", f.Calls)
	}
}

func TestFakeClientUsesConfiguredDetour(t *testing.T) {
	f := NewFakeClient()
	start := orb.Point{0, 0}
	end := orb.Point{0, 1}
	detour := orb.LineString{start, {0.5, 0.5}, end}
	f.Detours[detourKey(start, end)] = detour

	r, err := f.GetRoute(context.Background(), start, end, ProfileCyclingRegular)
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	if len(r.Coordinates) != 3 {
		t.Fatalf("expected detour geometry with 3 points, got %d", len(r.Coordinates))
	}
}

func TestFakeClientMatrixIsSymmetric(t *testing.T) {
	f := NewFakeClient()
	locs := []orb.Point{{0, 0}, {0, 1}, {1, 1}}
	m, err := f.Matrix(context.Background(), locs, ProfileFootWalking)
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	for i := range locs {
		if m[i][i] != 0 {
			t.Fatalf("expected zero self-distance at %d", i)
		}
		for j := range locs {
			if m[i][j] != m[j][i] {
				t.Fatalf("expected symmetric matrix, m[%d][%d]=%f m[%d][%d]=%f", i, j, m[i][j], j, i, m[j][i])
			}
		}
	}
}

func TestHTTPClientWithoutAPIKeyFallsBackToStraightLine(t *testing.T) {
	c := NewHTTPClient(DefaultHTTPClientConfig(), NewMemoryCache())
	start := orb.Point{-122.0, 37.0}
	end := orb.Point{-122.01, 37.02}

	r, err := c.GetRoute(context.Background(), start, end, ProfileDrivingCar)
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	if !r.UsedFallback {
		t.Fatalf("expected UsedFallback when no API key is configured")
	}
	if r.DistanceM <= 0 {
		t.Fatalf("expected positive fallback distance, got %f", r.DistanceM)
	}
}

func TestHTTPClientMatrixWithoutAPIKeyUsesHaversine(t *testing.T) {
	c := NewHTTPClient(DefaultHTTPClientConfig(), nil)
	locs := []orb.Point{{0, 0}, {0, 1}}
	m, err := c.Matrix(context.Background(), locs, ProfileDrivingCar)
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	if m[0][1] != m[1][0] {
		t.Fatalf("expected symmetric haversine matrix")
	}
	if m[0][0] != 0 {
		t.Fatalf("expected zero self-distance")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	c.Set(ctx, "key", []byte("value"))
	v, ok := c.Get(ctx, "key")
	if !ok || string(v) != "value" {
		t.Fatalf("expected round-tripped value, got %q ok=%v", v, ok)
	}
}

func TestRouteCacheKeyIsStableAndProfileSensitive(t *testing.T) {
	start := orb.Point{-122.0, 37.0}
	end := orb.Point{-122.01, 37.02}
	k1 := routeCacheKey(start, end, ProfileDrivingCar)
	k2 := routeCacheKey(start, end, ProfileDrivingCar)
	k3 := routeCacheKey(start, end, ProfileCyclingRegular)
	if k1 != k2 {
		t.Fatalf("expected stable cache key, got %q then %q", k1, k2)
	}
	if k1 == k3 {
		t.Fatalf("expected profile to change cache key")
	}
}
