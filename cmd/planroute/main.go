// Command planroute runs the full street-coverage pipeline once
// against a StreetsGeoJSON file, from the command line, with no HTTP
// server involved: GraphBuilder, RouteConnector, CPPSolver,
// RouteAssembler, and Chunker all run in-process and the result is
// printed as JSON. Repurposed from the teacher's cmd/preprocess (which
// built a Contraction Hierarchies graph ahead of serving) into a
// one-shot pipeline runner, since this repo's graph build is cheap
// enough per-job that no separate preprocessing stage is needed — the
// only thing worth precomputing is the raw graph itself, which
// cmd/preprocess still does for cmd/geojsonify's benefit.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/azybler/streetcover/pkg/oracle"
	"github.com/azybler/streetcover/pkg/planner"
)

func main() {
	input := flag.String("input", "", "Path to a StreetsGeoJSON file")
	profile := flag.String("profile", "driving-car", "Routing profile: driving-car, driving-hgv, cycling-regular, foot-walking")
	chunkDuration := flag.Float64("chunk-duration", 1800, "Target chunk duration in seconds")
	output := flag.String("output", "", "Output JSON path (default: stdout)")
	cacheDir := flag.String("cache-dir", "", "Badger cache directory for oracle responses (empty disables caching)")
	orsDirectionsURL := flag.String("ors-directions-url", "", "Oracle directions endpoint")
	orsMatrixURL := flag.String("ors-matrix-url", "", "Oracle matrix endpoint")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: planroute --input streets.geojson [--profile driving-car] [--chunk-duration 1800]")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	var cache oracle.Cache
	if *cacheDir != "" {
		bc, err := oracle.OpenBadgerCache(*cacheDir, 0)
		if err != nil {
			log.Fatalf("Failed to open oracle cache: %v", err)
		}
		defer bc.Close()
		cache = bc
	}

	apiKey := os.Getenv("ORS_API_KEY")
	cfg := planner.DefaultConfig()
	client := oracle.NewHTTPClient(cfg.HTTPClientConfig(*orsDirectionsURL, *orsMatrixURL, apiKey), cache)
	if apiKey == "" {
		log.Println("No ORS_API_KEY set; oracle calls will fall back to straight lines")
	}

	p := planner.New(cfg, client, nil)

	result, err := p.Run(context.Background(), raw, oracle.Profile(*profile), *chunkDuration, func(pr planner.Progress) {
		log.Printf("planroute: %s %d%%", pr.Stage, pr.Percent)
	})
	if err != nil {
		log.Fatalf("Job failed: %v", err)
	}

	encoded, err := json.MarshalIndent(struct {
		Status      planner.Status    `json:"status"`
		LengthM     float64           `json:"length_m"`
		DriveTimeS  float64           `json:"drive_time_s"`
		Valid       bool              `json:"valid"`
		NumChunks   int               `json:"num_chunks"`
		Diagnostics any               `json:"diagnostics"`
	}{
		Status:     result.Status,
		LengthM:    result.Geometry.LengthM,
		DriveTimeS: result.Geometry.DriveTimeS,
		Valid:      result.Geometry.Valid,
		NumChunks:  len(result.Chunks),
		Diagnostics: result.Diagnostics,
	}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}

	if *output == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(*output, encoded, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	log.Printf("Wrote %s", *output)
}
