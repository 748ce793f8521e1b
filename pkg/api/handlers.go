package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/azybler/streetcover/pkg/oracle"
	"github.com/azybler/streetcover/pkg/planner"
)

// Handlers holds the HTTP handlers and their dependencies: the core
// planner pipeline, an in-memory job store, and a request validator.
type Handlers struct {
	planner  *planner.Planner
	jobs     *jobStore
	validate *validator.Validate
}

// NewHandlers creates handlers wired to the given Planner.
func NewHandlers(p *planner.Planner) *Handlers {
	return &Handlers{
		planner:  p,
		jobs:     newJobStore(),
		validate: validator.New(),
	}
}

// HandleCreateJob handles POST /api/v1/jobs: validates the request,
// creates a job, and runs it asynchronously, returning 202 Accepted
// with the job's id immediately. The job is marked processing before
// the response is written; the planner itself runs off the request
// path.
func (h *Handlers) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_content_type", "")
		return
	}

	var req JobRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		field := ""
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		writeError(w, http.StatusBadRequest, "invalid_request", field)
		return
	}

	id := uuid.NewString()
	j := h.jobs.create(id)
	j.mu.Lock()
	j.status = planner.StatusProcessing
	j.mu.Unlock()

	go h.runJob(j, req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(JobResponse{ID: id, Status: planner.StatusProcessing})
}

func (h *Handlers) runJob(j *job, req JobRequest) {
	ctx := context.Background()
	result, err := h.planner.Run(ctx, req.StreetsGeoJSON, oracle.Profile(req.Profile), req.ChunkDurationSeconds, j.setProgress)
	j.setDone(result, err)
}

// HandleGetJob handles GET /api/v1/jobs/{id}: returns the job's
// current lifecycle status, stage/percent, and result once terminal.
func (h *Handlers) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	j, ok := h.jobs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job_not_found", "")
		return
	}

	status, stage, percent, errMsg, errKind, result := j.snapshot()
	resp := JobResponse{ID: id, Status: status, Stage: stage, Percent: percent, Error: errMsg, ErrorKind: errKind}
	if result != nil {
		resp.Result = &JobResult{
			Geometry:    geojson.NewGeometry(result.Geometry.Geometry),
			LengthM:     result.Geometry.LengthM,
			DriveTimeS:  result.Geometry.DriveTimeS,
			Chunks:      chunksToJSON(result.Chunks),
			Valid:       result.Geometry.Valid,
			Diagnostics: result.Diagnostics,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
