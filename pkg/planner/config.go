package planner

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/azybler/streetcover/pkg/oracle"
)

// Config carries every configuration key spec.md §6 names, plus the
// supplemented CoverageMode flag from original_source/route_connector.py.
// Field-for-field with the spec's table; yaml tags let operators
// author a config file the way the teacher's own cmd/ tools load
// theirs (the teacher has no config file itself, so the tag style
// follows the pack's `vanderheijden86-beadwork` yaml.v3 usage).
type Config struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	JobTimeout     time.Duration `yaml:"job_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	OrsTimeout     time.Duration `yaml:"ors_timeout"`
	OrsMaxRetries  int           `yaml:"ors_max_retries"`
	OrsRetryDelay  time.Duration `yaml:"ors_retry_delay"`
	MaxGapMeters   float64       `yaml:"max_gap_meters"`
	SnapTolerance  float64       `yaml:"snap_tolerance"`
	// CoverageMode and MaxJoinCandidates aren't in spec.md's table
	// (they're RouteConnector-internal) but need a home somewhere
	// operators can tune them; kept here alongside the rest of the
	// job-level configuration.
	CoverageMode      bool `yaml:"coverage_mode"`
	MaxJoinCandidates int  `yaml:"max_join_candidates"`
}

// DefaultConfig returns the defaults spec.md §5/§6 name.
func DefaultConfig() Config {
	return Config{
		PollInterval:      30 * time.Second,
		JobTimeout:        3600 * time.Second,
		MaxRetries:        3,
		OrsTimeout:        30 * time.Second,
		OrsMaxRetries:     3,
		OrsRetryDelay:     1 * time.Second,
		MaxGapMeters:      30.0,
		SnapTolerance:      1e-6,
		CoverageMode:      true,
		MaxJoinCandidates: 20,
	}
}

// LoadConfig reads a YAML config file, starting from DefaultConfig and
// overriding only the keys present in the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// HTTPClientConfig derives an oracle.HTTPClientConfig from this
// Config's Ors* fields plus the URLs/key an operator supplies
// separately (they aren't part of spec.md's recognized-keys table,
// which covers only behavior, not endpoints).
func (c Config) HTTPClientConfig(directionsURL, matrixURL, apiKey string) oracle.HTTPClientConfig {
	return oracle.HTTPClientConfig{
		DirectionsURL: directionsURL,
		MatrixURL:     matrixURL,
		APIKey:        apiKey,
		Timeout:       c.OrsTimeout,
		MaxRetries:    c.OrsMaxRetries,
		RetryDelay:    c.OrsRetryDelay,
	}
}
