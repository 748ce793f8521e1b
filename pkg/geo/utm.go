package geo

import "math"

// UTMZone reports the UTM zone number and hemisphere for a longitude,
// using the standard 6-degree zone width. Norway/Svalbard exceptions
// are not applied; street-coverage inputs never straddle them in a way
// that matters for a local projection choice.
func UTMZone(lon, lat float64) (zone int, north bool) {
	zone = int((lon+180)/6) + 1
	if zone < 1 {
		zone = 1
	} else if zone > 60 {
		zone = 60
	}
	return zone, lat >= 0
}

// UTM projection constants (WGS84).
const (
	utmK0 = 0.9996
	utmE2 = wgs84F * (2 - wgs84F)
	utmEP2 = utmE2 / (1 - utmE2)
)

// ProjectUTM converts a lat/lon pair (degrees) to UTM easting/northing
// (meters) in the given zone. Used by the graph builder to work in a
// locally-planar meter space for intersection buffering, the way the
// original Python worker used pyproj's Transformer before calling
// shapely's STRtree.
func ProjectUTM(lat, lon float64, zone int, north bool) (easting, northing float64) {
	latR := lat * math.Pi / 180
	lonR := lon * math.Pi / 180
	lon0 := float64(zone*6-183) * math.Pi / 180

	n := wgs84A / math.Sqrt(1-utmE2*math.Sin(latR)*math.Sin(latR))
	t := math.Tan(latR) * math.Tan(latR)
	c := utmEP2 * math.Cos(latR) * math.Cos(latR)
	a := math.Cos(latR) * (lonR - lon0)

	m := wgs84A * ((1-utmE2/4-3*utmE2*utmE2/64-5*utmE2*utmE2*utmE2/256)*latR -
		(3*utmE2/8+3*utmE2*utmE2/32+45*utmE2*utmE2*utmE2/1024)*math.Sin(2*latR) +
		(15*utmE2*utmE2/256+45*utmE2*utmE2*utmE2/1024)*math.Sin(4*latR) -
		(35*utmE2*utmE2*utmE2/3072)*math.Sin(6*latR))

	easting = utmK0*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*utmEP2)*a*a*a*a*a/120) + 500000.0

	northing = utmK0 * (m + n*math.Tan(latR)*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*utmEP2)*a*a*a*a*a*a/720))

	if !north {
		northing += 10000000.0
	}
	return easting, northing
}

// UnprojectUTM converts UTM easting/northing (meters) in the given zone
// back to lat/lon (degrees).
func UnprojectUTM(easting, northing float64, zone int, north bool) (lat, lon float64) {
	x := easting - 500000.0
	y := northing
	if !north {
		y -= 10000000.0
	}

	m := y / utmK0
	mu := m / (wgs84A * (1 - utmE2/4 - 3*utmE2*utmE2/64 - 5*utmE2*utmE2*utmE2/256))

	e1 := (1 - math.Sqrt(1-utmE2)) / (1 + math.Sqrt(1-utmE2))
	j1 := 3*e1/2 - 27*e1*e1*e1/32
	j2 := 21*e1*e1/16 - 55*e1*e1*e1*e1/32
	j3 := 151 * e1 * e1 * e1 / 96
	j4 := 1097 * e1 * e1 * e1 * e1 / 512

	fp := mu + j1*math.Sin(2*mu) + j2*math.Sin(4*mu) + j3*math.Sin(6*mu) + j4*math.Sin(8*mu)

	e2 := utmEP2
	c1 := e2 * math.Cos(fp) * math.Cos(fp)
	t1 := math.Tan(fp) * math.Tan(fp)
	n1 := wgs84A / math.Sqrt(1-utmE2*math.Sin(fp)*math.Sin(fp))
	r1 := wgs84A * (1 - utmE2) / math.Pow(1-utmE2*math.Sin(fp)*math.Sin(fp), 1.5)
	d := x / (n1 * utmK0)

	q1 := n1 * math.Tan(fp) / r1
	q2 := d * d / 2
	q3 := (5 + 3*t1 + 10*c1 - 4*c1*c1 - 9*e2) * d * d * d * d / 24
	q4 := (61 + 90*t1 + 298*c1 + 45*t1*t1 - 252*e2 - 3*c1*c1) * d * d * d * d * d * d / 720
	latR := fp - q1*(q2-q3+q4)

	q5 := d
	q6 := (1 + 2*t1 + c1) * d * d * d / 6
	q7 := (5 - 2*c1 + 28*t1 - 3*c1*c1 + 8*e2 + 24*t1*t1) * d * d * d * d * d / 120
	lon0 := float64(zone*6-183) * math.Pi / 180
	lonR := lon0 + (q5-q6+q7)/math.Cos(fp)

	return latR * 180 / math.Pi, lonR * 180 / math.Pi
}
