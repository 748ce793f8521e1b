package oracle

import "github.com/paulmach/orb"

// decodePolyline decodes a Google/ORS-style encoded polyline at the
// given coordinate precision (ORS uses precision 5) into a sequence of
// (lon, lat) points. Hand-written per spec.md §6's wire contract: no
// pack repo vendors a polyline codec, and the algorithm (delta + zigzag
// + base64-ish varint) is a single well-specified loop, so this isn't a
// gap an ecosystem library needed to fill.
func decodePolyline(encoded string, precision int) orb.LineString {
	factor := 1.0
	for i := 0; i < precision; i++ {
		factor *= 10
	}

	var coords orb.LineString
	index, lat, lon := 0, 0, 0

	for index < len(encoded) {
		lat += decodeVarint(encoded, &index)
		lon += decodeVarint(encoded, &index)
		// ORS polylines are lat-first; the wire contract requires the
		// decoded output swapped to [lon, lat].
		coords = append(coords, orb.Point{float64(lon) / factor, float64(lat) / factor})
	}

	return coords
}

func decodeVarint(encoded string, index *int) int {
	shift, result := 0, 0
	for {
		b := int(encoded[*index]) - 63
		*index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1)
	}
	return result >> 1
}
