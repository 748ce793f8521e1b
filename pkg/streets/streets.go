// Package streets parses the StreetsGeoJSON input contract into
// StreetFeature values ready for the graph builder.
package streets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is an input street centerline: a polyline with routing tags.
// It is immutable once parsed.
type Feature struct {
	Geometry orb.LineString
	Highway  string
	Name     string
	OneWay   bool
	MaxSpeed string // raw tag value, e.g. "50", "50 km/h", "30 mph"
	OSMID    string
}

// speedDefaults maps highway class to a default speed in m/s, used when
// maxspeed is absent or unparseable. Highway classes not in the table
// fall back to defaultSpeedMPS.
var speedDefaults = map[string]float64{
	"motorway":      30.0,
	"trunk":         25.0,
	"primary":       20.0,
	"secondary":     15.0,
	"tertiary":      12.0,
	"residential":   8.0,
	"service":       5.0,
	"living_street": 3.0,
}

const defaultSpeedMPS = 10.0

// SpeedMPS resolves the edge speed in meters/second: parse MaxSpeed if
// present and well-formed, otherwise fall back to the highway-class
// default table.
func (f Feature) SpeedMPS() float64 {
	if v, ok := parseMaxSpeed(f.MaxSpeed); ok {
		return v
	}
	if v, ok := speedDefaults[f.Highway]; ok {
		return v
	}
	return defaultSpeedMPS
}

// parseMaxSpeed parses strings like "50", "50 km/h", "30 mph" into
// meters/second. Returns ok=false if the value can't be parsed.
func parseMaxSpeed(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	unit := "km/h"
	switch {
	case strings.HasSuffix(s, "mph"):
		unit = "mph"
		s = strings.TrimSpace(strings.TrimSuffix(s, "mph"))
	case strings.HasSuffix(s, "km/h"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "km/h"))
	case strings.HasSuffix(s, "kmh"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "kmh"))
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return 0, false
	}

	switch unit {
	case "mph":
		return n * 0.44704, true
	default:
		return n * 1000.0 / 3600.0, true
	}
}

// Valid reports whether the feature is usable: at least 2 points,
// nonzero length (not all points identical).
func (f Feature) Valid() bool {
	if len(f.Geometry) < 2 {
		return false
	}
	for i := 1; i < len(f.Geometry); i++ {
		if f.Geometry[i] != f.Geometry[0] {
			return true
		}
	}
	return false
}

// Parse decodes a GeoJSON FeatureCollection into Features, keeping only
// LineString geometries that pass Valid; no tag is required. Invalid or non-LineString
// features are skipped, never an error — GraphBuilder's contract is to
// never fail on malformed input, only to skip it.
func Parse(raw []byte) ([]Feature, []error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, []error{fmt.Errorf("streets: decode feature collection: %w", err)}
	}

	var out []Feature
	var warnings []error

	for i, gf := range fc.Features {
		ls, ok := gf.Geometry.(orb.LineString)
		if !ok {
			warnings = append(warnings, fmt.Errorf("streets: feature %d: geometry is %T, want LineString", i, gf.Geometry))
			continue
		}

		f := Feature{
			Geometry: ls,
			Highway:  stringProp(gf.Properties, "highway"),
			Name:     stringProp(gf.Properties, "name"),
			OneWay:   boolProp(gf.Properties, "oneway"),
			MaxSpeed: stringProp(gf.Properties, "maxspeed"),
			OSMID:    stringProp(gf.Properties, "osm_id"),
		}

		if !f.Valid() {
			warnings = append(warnings, fmt.Errorf("streets: feature %d: degenerate geometry", i))
			continue
		}

		out = append(out, f)
	}

	return out, warnings
}

func stringProp(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func boolProp(props geojson.Properties, key string) bool {
	v, ok := props[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "1":
			return true
		}
		return false
	default:
		return false
	}
}
