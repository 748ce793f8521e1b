// Command geojsonify loads a binary graph snapshot (written by
// cmd/preprocess) and dumps its edges as a GeoJSON FeatureCollection,
// for visual inspection in any map viewer. Repurposed from the
// teacher's cmd/visualize (a three-way routing comparison UI this
// repo has no use for, since there is only one route planner here,
// not three to compare) into a minimal graph-debugging dump tool —
// every other_examples/ GeoJSON-emitting snippet in the pack takes
// this same "dump features, pipe to a viewer" shape rather than
// serving its own map UI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/azybler/streetcover/pkg/graph"
)

func main() {
	input := flag.String("input", "graph.bin", "Path to a binary graph snapshot")
	output := flag.String("output", "", "Output GeoJSON path (default: stdout)")
	flag.Parse()

	g, err := graph.ReadBinary(*input)
	if err != nil {
		log.Fatalf("Failed to read graph: %v", err)
	}
	log.Printf("Loaded graph: %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	fc := geojson.NewFeatureCollection()
	for _, e := range g.Edges {
		if len(e.Geometry) < 2 {
			continue
		}
		f := geojson.NewFeature(e.Geometry)
		f.Properties = geojson.Properties{
			"id":        e.ID,
			"highway":   e.Highway,
			"name":      e.Name,
			"length_m":  e.LengthM,
			"connector": e.IsConnector,
		}
		fc.Append(f)
	}

	encoded, err := json.Marshal(fc)
	if err != nil {
		log.Fatalf("Failed to encode GeoJSON: %v", err)
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
