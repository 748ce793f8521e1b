package graph

import (
	"log"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"github.com/azybler/streetcover/pkg/geo"
	"github.com/azybler/streetcover/pkg/streets"
)

// DefaultSnapTolerance is the node-identification tolerance in decimal
// degrees: two coordinates closer than this are treated as the same node.
const DefaultSnapTolerance = 1e-6

// intersectionBufferMeters is the projected-plane buffer used when
// querying candidate lines for intersection with a given line.
const intersectionBufferMeters = 0.5

// Builder converts a set of street features into a directed multigraph
// with correct intersection topology. It holds no state between calls.
type Builder struct {
	SnapTolerance float64
}

// NewBuilder returns a Builder with the given node-snap tolerance. A
// zero tolerance is replaced with DefaultSnapTolerance.
func NewBuilder(snapTolerance float64) *Builder {
	if snapTolerance <= 0 {
		snapTolerance = DefaultSnapTolerance
	}
	return &Builder{SnapTolerance: snapTolerance}
}

// Build converts features into a directed multigraph. It never errors:
// invalid geometries are skipped and logged, per the GraphBuilder
// contract. An empty or all-invalid input yields an empty graph.
func (b *Builder) Build(feats []streets.Feature) *Graph {
	g := New()

	var valid []streets.Feature
	for _, f := range feats {
		if f.Valid() {
			valid = append(valid, f)
		} else {
			log.Printf("graph: skipping invalid feature %q", f.OSMID)
		}
	}
	if len(valid) == 0 {
		return g
	}

	centerLat, centerLon := centroid(valid)
	zone, north := geo.UTMZone(centerLon, centerLat)

	lines := make([]projLine, len(valid))
	for i, f := range valid {
		lines[i] = projectFeature(f, zone, north)
	}

	idx := buildIndex(lines)

	nodes := newNodeIndex(b.SnapTolerance)

	for i, pl := range lines {
		params := splitParameters(lines, idx, i)
		for _, seg := range splitLine(pl, params) {
			wgsCoords := unprojectLine(seg, zone, north)
			if len(wgsCoords) < 2 {
				continue
			}
			addSegmentEdges(g, nodes, wgsCoords, valid[i])
		}
	}

	return g
}

func addSegmentEdges(g *Graph, nodes *nodeIndex, coords orb.LineString, f streets.Feature) {
	from := nodes.getOrCreate(g, coords[0][1], coords[0][0])
	to := nodes.getOrCreate(g, coords[len(coords)-1][1], coords[len(coords)-1][0])

	// Snap endpoint coordinates exactly to node positions so geometry
	// bit-exactly starts/ends at From/To after node interning.
	fromNode, toNode := g.Node(from), g.Node(to)
	coords[0] = orb.Point{fromNode.Lon, fromNode.Lat}
	coords[len(coords)-1] = orb.Point{toNode.Lon, toNode.Lat}

	lats := make([]float64, len(coords))
	lons := make([]float64, len(coords))
	for i, c := range coords {
		lons[i], lats[i] = c[0], c[1]
	}

	length := geo.GeodesicLength(lats, lons)
	if length <= 0 {
		return
	}
	speed := f.SpeedMPS()

	fwdGeom := make(orb.LineString, len(coords))
	copy(fwdGeom, coords)
	g.AddEdge(from, to, length, length/speed, fwdGeom, f.Highway, f.Name, false)

	if !f.OneWay {
		revGeom := make(orb.LineString, len(coords))
		for i, c := range coords {
			revGeom[len(coords)-1-i] = c
		}
		g.AddEdge(to, from, length, length/speed, revGeom, f.Highway, f.Name, false)
	}
}

func centroid(feats []streets.Feature) (lat, lon float64) {
	var sumLat, sumLon float64
	var n int
	for _, f := range feats {
		for _, c := range f.Geometry {
			sumLon += c[0]
			sumLat += c[1]
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sumLat / float64(n), sumLon / float64(n)
}

// projLine is a feature's geometry projected into the local UTM plane,
// in meters.
type projLine struct {
	points []orb.Point // (easting, northing)
}

func projectFeature(f streets.Feature, zone int, north bool) projLine {
	pts := make([]orb.Point, len(f.Geometry))
	for i, c := range f.Geometry {
		e, n := geo.ProjectUTM(c[1], c[0], zone, north)
		pts[i] = orb.Point{e, n}
	}
	return projLine{points: pts}
}

func unprojectLine(pl projLine, zone int, north bool) orb.LineString {
	out := make(orb.LineString, len(pl.points))
	for i, p := range pl.points {
		lat, lon := geo.UnprojectUTM(p[0], p[1], zone, north)
		out[i] = orb.Point{lon, lat}
	}
	return out
}

func (pl projLine) bounds() (min, max [2]float64) {
	min = [2]float64{pl.points[0][0], pl.points[0][1]}
	max = min
	for _, p := range pl.points[1:] {
		if p[0] < min[0] {
			min[0] = p[0]
		}
		if p[1] < min[1] {
			min[1] = p[1]
		}
		if p[0] > max[0] {
			max[0] = p[0]
		}
		if p[1] > max[1] {
			max[1] = p[1]
		}
	}
	return min, max
}

func expand(min, max [2]float64, buf float64) ([2]float64, [2]float64) {
	return [2]float64{min[0] - buf, min[1] - buf}, [2]float64{max[0] + buf, max[1] + buf}
}

// buildIndex indexes every line's bounding box, expanded by the
// intersection buffer, so candidates can be found without an O(n^2)
// scan over every line pair.
func buildIndex(lines []projLine) *rtree.RTree {
	idx := &rtree.RTree{}
	for i, pl := range lines {
		min, max := pl.bounds()
		min, max = expand(min, max, intersectionBufferMeters)
		idx.Insert(min, max, i)
	}
	return idx
}

// splitParameters returns the arc-length distances (meters, from the
// start of lines[selfIdx]) at which it must be split to create a
// shared node at every true geometric intersection with another
// indexed line, per spec.md's intersection-splitting algorithm: query
// candidates within a buffer, snap them to the buffer tolerance, and
// collect the parameterized intersection points.
func splitParameters(lines []projLine, idx *rtree.RTree, selfIdx int) []float64 {
	self := lines[selfIdx]
	min, max := self.bounds()
	min, max = expand(min, max, intersectionBufferMeters)

	var candidates []int
	idx.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		other := data.(int)
		if other != selfIdx {
			candidates = append(candidates, other)
		}
		return true
	})

	cum := cumulativeLengths(self.points)
	var params []float64

	for _, c := range candidates {
		other := lines[c]
		for i := 0; i < len(self.points)-1; i++ {
			for j := 0; j < len(other.points)-1; j++ {
				pt, t, ok := segmentIntersect(self.points[i], self.points[i+1], other.points[j], other.points[j+1], intersectionBufferMeters)
				if !ok {
					continue
				}
				_ = pt
				segLen := dist(self.points[i], self.points[i+1])
				params = append(params, cum[i]+t*segLen)
			}
		}
	}

	return params
}

// segmentIntersect finds the intersection of segments (a1,a2) and
// (b1,b2), snapping near-misses within `tol` meters (the 0.5 m
// intersection buffer) so that lines which nearly-but-not-quite meet
// (common after floating-point projection round trips) still produce
// a shared node. Returns the intersection point, the parametric
// position t in [0,1] along (a1,a2), and whether an intersection was
// found.
func segmentIntersect(a1, a2, b1, b2 orb.Point, tol float64) (orb.Point, float64, bool) {
	dax, day := a2[0]-a1[0], a2[1]-a1[1]
	dbx, dby := b2[0]-b1[0], b2[1]-b1[1]

	denom := dax*dby - day*dbx
	if math.Abs(denom) < 1e-12 {
		return orb.Point{}, 0, false // parallel or degenerate
	}

	ex, ey := b1[0]-a1[0], b1[1]-a1[1]
	t := (ex*dby - ey*dbx) / denom
	u := (ex*day - ey*dax) / denom

	// Allow the intersection to fall slightly outside [0,1] on either
	// segment, up to the buffer tolerance converted to a parametric
	// fraction, so near-miss endpoints still snap together.
	aLen := math.Hypot(dax, day)
	bLen := math.Hypot(dbx, dby)
	var tTol, uTol float64
	if aLen > 0 {
		tTol = tol / aLen
	}
	if bLen > 0 {
		uTol = tol / bLen
	}

	if t < -tTol || t > 1+tTol || u < -uTol || u > 1+uTol {
		return orb.Point{}, 0, false
	}

	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	pt := orb.Point{a1[0] + t*dax, a1[1] + t*day}
	return pt, t, true
}

func dist(a, b orb.Point) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// splitLine cuts a projected line at the given arc-length parameters
// (deduplicated, sorted, clipped to (0, totalLength)) and returns the
// resulting sub-lines. Each sub-line shares its endpoint coordinates
// exactly with its neighbors, which is what gives intersection points
// their node identity.
func splitLine(pl projLine, params []float64) []projLine {
	cum := cumulativeLengths(pl.points)
	total := cum[len(cum)-1]

	sort.Float64s(params)
	const eps = 1e-6

	cuts := []float64{0}
	var last float64 = -1
	for _, p := range params {
		if p <= eps || p >= total-eps {
			continue
		}
		if p-last > eps {
			cuts = append(cuts, p)
			last = p
		}
	}
	cuts = append(cuts, total)

	if len(cuts) <= 2 {
		return []projLine{pl}
	}

	var out []projLine
	for i := 0; i < len(cuts)-1; i++ {
		seg := sliceAtArcLength(pl.points, cum, cuts[i], cuts[i+1])
		if len(seg) >= 2 {
			out = append(out, projLine{points: seg})
		}
	}
	return out
}

func cumulativeLengths(pts []orb.Point) []float64 {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + dist(pts[i-1], pts[i])
	}
	return cum
}

// sliceAtArcLength returns the points of a polyline between two
// arc-length positions, interpolating new vertices exactly at the cut
// points so segments share bit-identical endpoints.
func sliceAtArcLength(pts []orb.Point, cum []float64, from, to float64) []orb.Point {
	var out []orb.Point
	out = append(out, pointAtArcLength(pts, cum, from))
	for i, c := range cum {
		if c > from+1e-9 && c < to-1e-9 {
			out = append(out, pts[i])
		}
	}
	out = append(out, pointAtArcLength(pts, cum, to))
	return out
}

func pointAtArcLength(pts []orb.Point, cum []float64, target float64) orb.Point {
	if target <= 0 {
		return pts[0]
	}
	if target >= cum[len(cum)-1] {
		return pts[len(pts)-1]
	}
	for i := 1; i < len(cum); i++ {
		if cum[i] >= target {
			segLen := cum[i] - cum[i-1]
			if segLen <= 0 {
				return pts[i-1]
			}
			t := (target - cum[i-1]) / segLen
			return orb.Point{
				pts[i-1][0] + t*(pts[i][0]-pts[i-1][0]),
				pts[i-1][1] + t*(pts[i][1]-pts[i-1][1]),
			}
		}
	}
	return pts[len(pts)-1]
}
