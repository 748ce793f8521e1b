// Package diagnostics builds the Diagnostics output contract from
// spec.md §6 and exports the same figures as Prometheus gauges, the
// way the teacher's pkg/metrics (if present) would — grounded here on
// prometheus/client_golang directly since the teacher repo itself has
// no metrics package to imitate; the pack's other repos
// (jinterlante1206-AleutianFOSS) use client_golang the same way, a
// promauto-registered collector held by the long-lived process.
package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/azybler/streetcover/pkg/cpp"
)

// SCCStat is the JSON-facing shape of one SCC's outcome, mirrored from
// cpp.SCCStats (which carries Go-internal fields like EulerStats not
// part of the wire contract).
type SCCStat struct {
	Index             int     `json:"index"`
	Nodes             int     `json:"nodes"`
	Edges             int     `json:"edges"`
	CircuitLength     int     `json:"circuit_length"`
	Degraded          bool    `json:"degraded"`
	ImbalancedNodes   int     `json:"imbalanced_nodes"`
	EdgesAdded        int     `json:"edges_added"`
	DuplicatedLengthM float64 `json:"duplicated_length_m"`
	DeadheadRatio     float64 `json:"deadhead_ratio"`
}

// Report is the exact output contract spec.md §6 names for
// `diagnostics`, plus the supplemented counters from
// SPEC_FULL.md's §9 (ComponentJoinStalls, UTurnConnectionsUsed,
// OracleFallbacks) that the original worker also surfaces. The planner
// fills ComponentJoinStalls and UTurnConnectionsUsed; OracleFallbacks
// is never set and stays 0.
type Report struct {
	InputStreets         int       `json:"input_streets"`
	GraphNodes           int       `json:"graph_nodes"`
	GraphEdges           int       `json:"graph_edges"`
	SCCCount             int       `json:"scc_count"`
	SCCStats             []SCCStat `json:"scc_stats"`
	CircuitsFound        int       `json:"circuits_found"`
	RoutePoints          int       `json:"route_points"`
	ContinuityValid      bool      `json:"continuity_valid"`
	ContinuityViolations int       `json:"continuity_violations"`
	MaxGapM              float64   `json:"max_gap_m"`
	DeadheadRatio        float64   `json:"deadhead_ratio"`
	DuplicatedLengthM    float64   `json:"duplicated_length_m"`

	ComponentJoinStalls int `json:"component_join_stalls"`
	UTurnConnectionsUsed int `json:"u_turn_connections_used"`
	OracleFallbacks     int `json:"oracle_fallbacks"`
}

// Build assembles a Report from the pipeline's intermediate results.
// originalGraphLength is the graph's summed edge length *before*
// Eulerization duplicated any edges (route_calculator.py:295-297's
// original_length), used as the deadhead-ratio denominator: duplicated
// length over the graph as it was originally, not as it ended up after
// duplication.
func Build(inputStreets, graphNodes, graphEdges int, sccStats []cpp.SCCStats, routePoints int, continuityValid bool, continuityViolations int, maxGapM, originalGraphLength float64) Report {
	r := Report{
		InputStreets:         inputStreets,
		GraphNodes:           graphNodes,
		GraphEdges:           graphEdges,
		SCCCount:             len(sccStats),
		CircuitsFound:        len(sccStats),
		RoutePoints:          routePoints,
		ContinuityValid:      continuityValid,
		ContinuityViolations: continuityViolations,
		MaxGapM:              maxGapM,
	}

	var totalDuplicated float64
	for _, s := range sccStats {
		r.SCCStats = append(r.SCCStats, SCCStat{
			Index:             s.Index,
			Nodes:             s.Nodes,
			Edges:             s.Edges,
			CircuitLength:     s.CircuitLen,
			Degraded:          s.Degraded,
			ImbalancedNodes:   s.Euler.ImbalancedNodes,
			EdgesAdded:        s.Euler.EdgesAdded,
			DuplicatedLengthM: s.Euler.DuplicatedLengthM,
			DeadheadRatio:     s.Euler.DeadheadRatio,
		})
		totalDuplicated += s.Euler.DuplicatedLengthM
	}

	r.DuplicatedLengthM = totalDuplicated
	if originalGraphLength > 0 {
		r.DeadheadRatio = totalDuplicated / originalGraphLength
	}

	return r
}

// Collector mirrors a Report's scalars onto Prometheus gauges so a
// long-running planner process can expose /metrics alongside its job
// diagnostics. One Collector is shared process-wide; Observe is called
// once per completed job.
type Collector struct {
	graphNodes           prometheus.Gauge
	graphEdges           prometheus.Gauge
	sccCount             prometheus.Gauge
	routePoints          prometheus.Gauge
	continuityViolations prometheus.Gauge
	maxGapM              prometheus.Gauge
	deadheadRatio        prometheus.Gauge
	duplicatedLengthM    prometheus.Gauge
	jobsCompleted        prometheus.Counter
	jobsFailed           prometheus.Counter
	jobsWarned           prometheus.Counter
}

// NewCollector registers the diagnostics gauges/counters against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		graphNodes:           f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_graph_nodes", Help: "Nodes in the most recently built graph."}),
		graphEdges:           f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_graph_edges", Help: "Edges in the most recently built graph."}),
		sccCount:             f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_scc_count", Help: "Strongly connected components in the most recent job."}),
		routePoints:          f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_route_points", Help: "Points in the most recently assembled route."}),
		continuityViolations: f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_continuity_violations", Help: "Gap violations found in the most recent route."}),
		maxGapM:              f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_max_gap_meters", Help: "Largest unresolved gap in the most recent route, meters."}),
		deadheadRatio:        f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_deadhead_ratio", Help: "Duplicated length over total graph length."}),
		duplicatedLengthM:    f.NewGauge(prometheus.GaugeOpts{Name: "streetcover_duplicated_length_meters", Help: "Total duplicated edge length introduced by Eulerization."}),
		jobsCompleted:        f.NewCounter(prometheus.CounterOpts{Name: "streetcover_jobs_completed_total", Help: "Jobs completed without warnings."}),
		jobsFailed:           f.NewCounter(prometheus.CounterOpts{Name: "streetcover_jobs_failed_total", Help: "Jobs that failed."}),
		jobsWarned:           f.NewCounter(prometheus.CounterOpts{Name: "streetcover_jobs_completed_with_warnings_total", Help: "Jobs completed with warnings."}),
	}
}

// Observe mirrors a finished Report's scalars onto the gauges.
func (c *Collector) Observe(r Report) {
	c.graphNodes.Set(float64(r.GraphNodes))
	c.graphEdges.Set(float64(r.GraphEdges))
	c.sccCount.Set(float64(r.SCCCount))
	c.routePoints.Set(float64(r.RoutePoints))
	c.continuityViolations.Set(float64(r.ContinuityViolations))
	c.maxGapM.Set(r.MaxGapM)
	c.deadheadRatio.Set(r.DeadheadRatio)
	c.duplicatedLengthM.Set(r.DuplicatedLengthM)
}

// JobCompleted, JobFailed, and JobWarned increment the job-lifecycle
// counters; planner calls exactly one of these per job.
func (c *Collector) JobCompleted() { c.jobsCompleted.Inc() }
func (c *Collector) JobFailed()    { c.jobsFailed.Inc() }
func (c *Collector) JobWarned()    { c.jobsWarned.Inc() }
