// Package chunker implements Chunker: partitioning an assembled route
// into time-bucketed segments of target duration, for delivery to a
// driver app in manageable pieces. Grounded on
// original_source/route_calculator.py::split_into_chunks.
package chunker

import (
	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/geo"
	"github.com/azybler/streetcover/pkg/oracle"
)

var profileSpeedMPS = map[oracle.Profile]float64{
	oracle.ProfileDrivingCar:     10.0,
	oracle.ProfileDrivingHGV:     8.0,
	oracle.ProfileCyclingRegular: 4.0,
	oracle.ProfileFootWalking:    1.4,
}

const defaultSpeedMPS = 10.0

// Chunk is one time-bucketed slice of a route.
type Chunk struct {
	ID         int
	Geometry   orb.LineString
	LengthM    float64
	TimeS      float64
	StartPoint orb.Point
	EndPoint   orb.Point
}

// Split partitions route into chunks targeting chunkDurationS of drive
// time each: it accumulates length/time along consecutive points and
// closes a chunk once accumulated time reaches the target, including
// the closing point in both the just-closed chunk and the next one's
// start. A trailing chunk is emitted for any remainder with at least 2
// points. Matches split_into_chunks exactly, including its
// >=2-points-only trailing-chunk rule.
func Split(route orb.LineString, chunkDurationS float64, profile oracle.Profile) []Chunk {
	if len(route) < 2 {
		return nil
	}

	speed, ok := profileSpeedMPS[profile]
	if !ok {
		speed = defaultSpeedMPS
	}

	var chunks []Chunk
	current := orb.LineString{route[0]}
	var currentLength, currentTime float64

	for i := 0; i < len(route)-1; i++ {
		a, b := route[i], route[i+1]
		current = append(current, b)

		segLength := geo.Geodesic(a[1], a[0], b[1], b[0])
		segTime := segLength / speed

		currentLength += segLength
		currentTime += segTime

		if currentTime >= chunkDurationS {
			chunks = append(chunks, Chunk{
				ID:         len(chunks),
				Geometry:   current,
				LengthM:    currentLength,
				TimeS:      currentTime,
				StartPoint: current[0],
				EndPoint:   current[len(current)-1],
			})
			current = orb.LineString{route[i+1]}
			currentLength, currentTime = 0, 0
		}
	}

	if len(current) > 1 {
		chunks = append(chunks, Chunk{
			ID:         len(chunks),
			Geometry:   current,
			LengthM:    currentLength,
			TimeS:      currentTime,
			StartPoint: current[0],
			EndPoint:   current[len(current)-1],
		})
	}

	return chunks
}
