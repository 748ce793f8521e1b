// Package planner orchestrates GraphBuilder -> RouteConnector ->
// CPPSolver -> RouteAssembler -> Chunker -> Diagnostics into one job,
// owning the job lifecycle state machine and progress reporting from
// spec.md's "State machines" section. Grounded on
// original_source/apps/worker/app/tasks/process_coverage_job.py's
// top-level orchestration (the original calls this the "worker task";
// this package is its Go equivalent, the orchestration layer spec.md
// §5 calls out as the component that owns job polling and progress).
package planner

import (
	"context"
	"fmt"

	"github.com/azybler/streetcover/pkg/assemble"
	"github.com/azybler/streetcover/pkg/chunker"
	"github.com/azybler/streetcover/pkg/connector"
	"github.com/azybler/streetcover/pkg/cpp"
	"github.com/azybler/streetcover/pkg/diagnostics"
	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/oracle"
	"github.com/azybler/streetcover/pkg/streets"
)

// Stage enumerates the progress-callback stages spec.md's state
// machine section names: fetch, build graph, Eulerize, assemble,
// chunk, save.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageBuildGraph Stage = "build_graph"
	StageEulerize   Stage = "eulerize"
	StageAssemble   Stage = "assemble"
	StageChunk      Stage = "chunk"
	StageSave       Stage = "save"
)

// Progress is one update delivered to a job's progress callback.
// Percent is monotone within a stage, per spec.md §4's state machine
// section.
type Progress struct {
	Stage   Stage
	Percent int
}

// Status is the job lifecycle spec.md names:
// pending -> processing -> {completed, completed_with_warnings, failed}.
type Status string

const (
	StatusPending              Status = "pending"
	StatusProcessing           Status = "processing"
	StatusCompleted            Status = "completed"
	StatusCompletedWithWarning Status = "completed_with_warnings"
	StatusFailed               Status = "failed"
)

// ErrorKind is the behavioral classification from spec.md §7. Only
// InvalidInput and Fatal ever surface as a returned Go error; the rest
// become diagnostics counters and log lines per the Propagation rule,
// so this enum exists for documentation and for tagging the Go error
// that does escape.
type ErrorKind string

const (
	ErrorInvalidInput         ErrorKind = "invalid_input"
	ErrorDisconnected         ErrorKind = "disconnected"
	ErrorOracleTransient      ErrorKind = "oracle_transient"
	ErrorOracleExhausted      ErrorKind = "oracle_exhausted"
	ErrorMatchingInfeasible   ErrorKind = "matching_infeasible"
	ErrorCircuitMissing       ErrorKind = "circuit_missing"
	ErrorContinuityBreached   ErrorKind = "continuity_breached"
	ErrorFatal                ErrorKind = "fatal"
)

// JobError wraps a structural failure (InvalidInput or Fatal) with its
// ErrorKind so the orchestrator can mark the job failed per spec.md
// §7's Propagation rule.
type JobError struct {
	Kind ErrorKind
	Err  error
}

func (e *JobError) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *JobError) Unwrap() error { return e.Err }

// Result is planner's output: spec.md §6's Outputs-from-the-core
// contract, Go-concrete.
type Result struct {
	Geometry    assemble.Route
	Chunks      []chunker.Chunk
	Diagnostics diagnostics.Report
	Status      Status
}

// Planner wires the five core components together. Each Run call
// processes one job; the Planner holds no per-job state itself, so one
// instance is reused across jobs. Run does not serialize calls: pkg/api
// starts every submitted job's Run on its own goroutine against one
// shared Planner, so jobs there can run concurrently.
type Planner struct {
	Config  Config
	Oracle  oracle.Client
	Metrics *diagnostics.Collector
}

// New returns a Planner. client may be a fake/straight-line client in
// tests, or oracle.NewHTTPClient for production use.
func New(cfg Config, client oracle.Client, metrics *diagnostics.Collector) *Planner {
	return &Planner{Config: cfg, Oracle: client, Metrics: metrics}
}

// Run executes one job end to end: parse streets, build the graph,
// join disconnected components, solve the directed CPP per SCC,
// assemble final stats, and chunk the result. progress may be nil.
func (p *Planner) Run(ctx context.Context, streetsGeoJSON []byte, profile oracle.Profile, chunkDurationS float64, progress func(Progress)) (Result, error) {
	report := func(s Stage, pct int) {
		if progress != nil {
			progress(Progress{Stage: s, Percent: pct})
		}
	}

	report(StageFetch, 0)
	feats, warnings := streets.Parse(streetsGeoJSON)
	for _, w := range warnings {
		_ = w // malformed individual features are skipped, not fatal
	}
	if len(feats) == 0 {
		return p.fail(ErrorInvalidInput, fmt.Errorf("no usable street features in input"), diagnostics.Build(0, 0, 0, nil, 0, false, 0, 0, 0))
	}
	report(StageFetch, 100)

	report(StageBuildGraph, 0)
	builder := graph.NewBuilder(p.Config.SnapTolerance)
	g := builder.Build(feats)
	if g.NumNodes() == 0 || g.NumEdges() == 0 {
		diag := diagnostics.Build(len(feats), g.NumNodes(), g.NumEdges(), nil, 0, false, 0, 0, 0)
		return p.fail(ErrorInvalidInput, fmt.Errorf("graph build produced no usable edges"), diag)
	}
	report(StageBuildGraph, 100)

	conn := connector.New(p.Oracle, p.Config.CoverageMode)
	maxCandidates := p.Config.MaxJoinCandidates
	if maxCandidates <= 0 {
		maxCandidates = 20
	}
	remainingComponents, stallCount, err := conn.ConnectComponents(ctx, g, maxCandidates)
	if err != nil {
		diag := diagnostics.Build(len(feats), g.NumNodes(), g.NumEdges(), nil, 0, false, 0, 0, g.TotalLength())
		return p.fail(ErrorFatal, err, diag)
	}
	warned := remainingComponents > 1
	// ErrorDisconnected per spec.md §7: warn, proceed per-SCC, job may
	// complete with warnings. No Go error is raised for it.

	// Captured before Eulerization duplicates edges into g, so the
	// deadhead ratio's denominator is the original (pre-duplication)
	// graph length, matching route_calculator.py's original_length.
	originalGraphLength := g.TotalLength()

	report(StageEulerize, 0)
	solver := cpp.New(conn, p.Config.MaxGapMeters, profile)
	cppResult, err := solver.Solve(ctx, g)
	if err != nil {
		diag := diagnostics.Build(len(feats), g.NumNodes(), g.NumEdges(), cppResult.SCCStats, 0, false, 0, 0, originalGraphLength)
		return p.fail(ErrorFatal, err, diag)
	}
	report(StageEulerize, 100)

	report(StageAssemble, 0)
	var route assemble.Route
	if len(cppResult.Route) == 0 {
		// A circuit-free SCC set (e.g. an isolated one-way edge with no
		// internal cycle) is a reportable boundary case per spec.md §8,
		// not a structural failure: the job still completes, with
		// valid=false and diagnostics attached.
		route = assemble.Route{Valid: false, MaxGapM: p.Config.MaxGapMeters}
	} else {
		route = assemble.Assemble(cppResult.Route, profile, p.Config.MaxGapMeters)
	}
	report(StageAssemble, 100)

	report(StageChunk, 0)
	chunks := chunker.Split(route.Geometry, chunkDurationS, profile)
	report(StageChunk, 100)

	diag := diagnostics.Build(
		len(feats),
		g.NumNodes(),
		g.NumEdges(),
		cppResult.SCCStats,
		len(route.Geometry),
		route.Valid,
		route.GapViolations,
		route.MaxGapM,
		originalGraphLength,
	)
	diag.UTurnConnectionsUsed = conn.UTurnConnectionsUsed
	diag.ComponentJoinStalls = stallCount

	status := StatusCompleted
	if warned || !route.Valid {
		status = StatusCompletedWithWarning
	}

	report(StageSave, 100)

	if p.Metrics != nil {
		p.Metrics.Observe(diag)
		switch status {
		case StatusCompleted:
			p.Metrics.JobCompleted()
		case StatusCompletedWithWarning:
			p.Metrics.JobWarned()
		}
	}

	return Result{Geometry: route, Chunks: chunks, Diagnostics: diag, Status: status}, nil
}

// fail records a structural failure's metrics and wraps it as a
// JobError, per spec.md §7's Propagation rule that only InvalidInput
// and Fatal ever leave the core as Go errors. diag is still attached to
// the failed Result, since spec.md §7 requires diagnostics be reported
// even when the job itself fails.
func (p *Planner) fail(kind ErrorKind, err error, diag diagnostics.Report) (Result, error) {
	if p.Metrics != nil {
		p.Metrics.JobFailed()
	}
	return Result{Status: StatusFailed, Diagnostics: diag}, &JobError{Kind: kind, Err: err}
}
