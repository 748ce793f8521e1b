package api

import (
	"encoding/json"

	"github.com/paulmach/orb/geojson"

	"github.com/azybler/streetcover/pkg/chunker"
	"github.com/azybler/streetcover/pkg/diagnostics"
	"github.com/azybler/streetcover/pkg/planner"
)

// JobRequest is the JSON body for POST /api/v1/jobs: spec.md §6's
// Inputs-to-the-core contract (StreetsGeoJSON, Profile,
// ChunkDurationSeconds), Go-concrete.
type JobRequest struct {
	StreetsGeoJSON       json.RawMessage `json:"streets_geojson" validate:"required"`
	Profile              string          `json:"profile" validate:"required,oneof=driving-car driving-hgv cycling-regular foot-walking"`
	ChunkDurationSeconds float64         `json:"chunk_duration_seconds" validate:"required,gt=0"`
}

// ChunkJSON is one Chunker output chunk, per spec.md §6's chunks
// array shape (geometry, length_m, time_s, start_point, end_point,
// chunk_id).
type ChunkJSON struct {
	ChunkID    int              `json:"chunk_id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	LengthM    float64          `json:"length_m"`
	TimeS      float64          `json:"time_s"`
	StartPoint [2]float64       `json:"start_point"`
	EndPoint   [2]float64       `json:"end_point"`
}

func chunksToJSON(chunks []chunker.Chunk) []ChunkJSON {
	out := make([]ChunkJSON, len(chunks))
	for i, c := range chunks {
		out[i] = ChunkJSON{
			ChunkID:    c.ID,
			Geometry:   geojson.NewGeometry(c.Geometry),
			LengthM:    c.LengthM,
			TimeS:      c.TimeS,
			StartPoint: [2]float64{c.StartPoint[0], c.StartPoint[1]},
			EndPoint:   [2]float64{c.EndPoint[0], c.EndPoint[1]},
		}
	}
	return out
}

// JobResult is spec.md §6's Outputs-from-the-core contract.
type JobResult struct {
	Geometry    *geojson.Geometry  `json:"geometry"`
	LengthM     float64            `json:"length_m"`
	DriveTimeS  float64            `json:"drive_time_s"`
	Chunks      []ChunkJSON        `json:"chunks"`
	Valid       bool               `json:"valid"`
	Diagnostics diagnostics.Report `json:"diagnostics"`
}

// JobResponse is the JSON response shape for both job creation and
// job status polling, carrying the lifecycle fields spec.md's state
// machine section names (status, stage, progress) plus the result
// once status reaches a terminal value.
type JobResponse struct {
	ID       string           `json:"id"`
	Status   planner.Status   `json:"status"`
	Stage    planner.Stage    `json:"stage,omitempty"`
	Percent  int              `json:"percent"`
	Error    string           `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Result   *JobResult       `json:"result,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON response for request-level errors (bad
// JSON, failed validation) that never reach the planner.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
