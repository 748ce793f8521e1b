// Command preprocess builds a street graph from a StreetsGeoJSON file
// ahead of time and serializes it to a binary snapshot, so a later
// analysis or debugging pass (or a future long-running server that
// wants to skip re-parsing GeoJSON per job) can load it directly via
// graph.ReadBinary instead of rebuilding from source. Repurposed from
// the teacher's OSM-to-CH preprocessing step onto GraphBuilder.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/azybler/streetcover/pkg/graph"
	"github.com/azybler/streetcover/pkg/streets"
)

func main() {
	input := flag.String("input", "", "Path to a StreetsGeoJSON file")
	output := flag.String("output", "graph.bin", "Output binary graph file path")
	snapTolerance := flag.Float64("snap-tolerance", graph.DefaultSnapTolerance, "Node identification tolerance in degrees")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input streets.geojson [--output graph.bin] [--snap-tolerance 1e-6]")
		os.Exit(1)
	}

	start := time.Now()

	log.Printf("Reading %s...", *input)
	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	feats, warnings := streets.Parse(raw)
	for _, w := range warnings {
		log.Printf("preprocess: %v", w)
	}
	if len(feats) == 0 {
		log.Fatalf("No usable street features in %s", *input)
	}
	log.Printf("Parsed %d usable features (%d warnings)", len(feats), len(warnings))

	log.Println("Building graph...")
	builder := graph.NewBuilder(*snapTolerance)
	g := builder.Build(feats)
	log.Printf("Graph: %d nodes, %d edges, %.1f m total length", g.NumNodes(), g.NumEdges(), g.TotalLength())

	log.Printf("Writing binary to %s...", *output)
	if err := graph.WriteBinary(*output, g); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f KB)", elapsed.Round(time.Millisecond), *output, float64(info.Size())/1024)
}
