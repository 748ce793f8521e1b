package api

import (
	"sync"

	"github.com/azybler/streetcover/pkg/planner"
)

// job is one in-flight or completed job's mutable state. Persisted
// state layout is a contract-only concern per spec.md §6 ("defined by
// the external storage collaborator, not the core") — this in-memory
// store plays that collaborator's role for a standalone server.
type job struct {
	mu     sync.Mutex
	status planner.Status
	stage  planner.Stage
	percent int
	errMsg string
	errKind string
	result *planner.Result
}

func (j *job) snapshot() (planner.Status, planner.Stage, int, string, string, *planner.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, j.stage, j.percent, j.errMsg, j.errKind, j.result
}

func (j *job) setProgress(p planner.Progress) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stage = p.Stage
	j.percent = p.Percent
}

func (j *job) setDone(result planner.Result, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.status = planner.StatusFailed
		j.errMsg = err.Error()
		if jerr, ok := err.(*planner.JobError); ok {
			j.errKind = string(jerr.Kind)
		}
		return
	}
	j.status = result.Status
	j.percent = 100
	j.result = &result
}

// jobStore holds every job this process has seen since startup. It is
// unbounded — a production deployment would evict completed jobs
// after their result is fetched or TTL-expire them, but that eviction
// policy belongs to the external storage collaborator spec.md §6
// defers to, not this core.
type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]*job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*job)}
}

func (s *jobStore) create(id string) *job {
	j := &job{status: planner.StatusPending}
	s.mu.Lock()
	s.jobs[id] = j
	s.mu.Unlock()
	return j
}

func (s *jobStore) get(id string) (*job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}
