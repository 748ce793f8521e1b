package geo

import (
	"math"
	"testing"
)

func TestGeodesic(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Singapore CBD to Changi Airport",
			lat1: 1.2830, lon1: 103.8513,
			lat2: 1.3644, lon2: 103.9915,
			wantMeters:       18_023,
			tolerancePercent: 1,
		},
		{
			name: "Same point",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3521, lon2: 103.8198,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Geodesic(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Geodesic = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestGeodesicAgreesWithHaversineAtShortRange(t *testing.T) {
	// Over short distances the ellipsoid and sphere models should
	// agree to within a fraction of a percent.
	lat1, lon1 := 1.3521, 103.8198
	lat2, lon2 := 1.3530, 103.8205

	h := Haversine(lat1, lon1, lat2, lon2)
	g := Geodesic(lat1, lon1, lat2, lon2)

	diffPercent := math.Abs(h-g) / g * 100
	if diffPercent > 1 {
		t.Errorf("Geodesic and Haversine differ by %.2f%% over a short segment (haversine=%f, geodesic=%f)", diffPercent, h, g)
	}
}

func TestGeodesicLength(t *testing.T) {
	lats := []float64{1.3521, 1.3530, 1.3540}
	lons := []float64{103.8198, 103.8205, 103.8210}

	total := GeodesicLength(lats, lons)
	sum := Geodesic(lats[0], lons[0], lats[1], lons[1]) + Geodesic(lats[1], lons[1], lats[2], lons[2])

	if math.Abs(total-sum) > 1e-9 {
		t.Errorf("GeodesicLength = %f, want %f", total, sum)
	}
}

func BenchmarkGeodesic(b *testing.B) {
	for b.Loop() {
		Geodesic(1.3521, 103.8198, 1.2905, 103.8520)
	}
}
