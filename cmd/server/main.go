// Command server runs the street-coverage route planner as an HTTP
// job service: POST a StreetsGeoJSON document to /api/v1/jobs, poll
// /api/v1/jobs/{id} for progress and the final route, chunks, and
// diagnostics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/azybler/streetcover/pkg/api"
	"github.com/azybler/streetcover/pkg/diagnostics"
	"github.com/azybler/streetcover/pkg/oracle"
	"github.com/azybler/streetcover/pkg/planner"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	configPath := flag.String("config", "", "Path to a planner config YAML file (optional)")
	cacheDir := flag.String("cache-dir", "", "Badger cache directory for oracle responses (empty disables caching)")
	orsDirectionsURL := flag.String("ors-directions-url", "", "Oracle directions endpoint")
	orsMatrixURL := flag.String("ors-matrix-url", "", "Oracle matrix endpoint")
	flag.Parse()

	cfg := planner.DefaultConfig()
	if *configPath != "" {
		loaded, err := planner.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
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
	client := oracle.NewHTTPClient(cfg.HTTPClientConfig(*orsDirectionsURL, *orsMatrixURL, apiKey), cache)
	if apiKey == "" {
		log.Println("WARNING: ORS_API_KEY not set; oracle calls will fall back to straight lines")
	}

	reg := prometheus.NewRegistry()
	metrics := diagnostics.NewCollector(reg)

	p := planner.New(cfg, client, metrics)
	handlers := api.NewHandlers(p)

	srvCfg := api.DefaultConfig(fmt.Sprintf(":%d", *port))
	srvCfg.CORSOrigin = *corsOrigin
	srv := api.NewServer(srvCfg, handlers, reg)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
