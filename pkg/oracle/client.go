package oracle

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/paulmach/orb"

	"github.com/azybler/streetcover/pkg/geo"
)

// HTTPClientConfig mirrors spec.md §6's Configuration table entries
// that govern the oracle adapter.
type HTTPClientConfig struct {
	DirectionsURL string
	MatrixURL     string
	APIKey        string
	Timeout       time.Duration // ors_timeout
	MaxRetries    int           // ors_max_retries
	RetryDelay    time.Duration // ors_retry_delay
}

// DefaultHTTPClientConfig matches the defaults named in spec.md §5/§6.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// HTTPClient implements Client against the wire contract in spec.md
// §6: POST JSON coordinates+profile, read routes[0].summary.distance
// and routes[0].geometry (encoded polyline, precision 5, lat-first).
// Optionally fronted by a Cache (content-addressed, 24h TTL).
type HTTPClient struct {
	cfg    HTTPClientConfig
	cache  Cache
	http   *http.Client
	enabled bool
}

// NewHTTPClient returns a Client. If cfg.APIKey is empty the client
// operates in fallback-only mode (every call returns a straight-line
// result), matching the original worker's "ORS client initialized
// WITHOUT API key" degraded mode.
func NewHTTPClient(cfg HTTPClientConfig, cache Cache) *HTTPClient {
	return &HTTPClient{
		cfg:     cfg,
		cache:   cache,
		http:    &http.Client{Timeout: cfg.Timeout},
		enabled: cfg.APIKey != "",
	}
}

func (c *HTTPClient) GetRoute(ctx context.Context, start, end orb.Point, profile Profile) (Result, error) {
	if !c.enabled {
		return straightLine(start, end), nil
	}

	key := routeCacheKey(start, end, profile)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			var r Result
			if err := json.Unmarshal(cached, &r); err == nil {
				return r, nil
			}
		}
	}

	body := map[string]any{
		"coordinates":  [][2]float64{{start[0], start[1]}, {end[0], end[1]}},
		"profile":      profile,
		"instructions": false,
	}

	resp, err := c.postWithRetry(ctx, c.cfg.DirectionsURL, body)
	if err != nil {
		log.Printf("oracle: get_route %v -> %v failed, falling back to straight line: %v", start, end, err)
		return straightLine(start, end), nil
	}

	var parsed struct {
		Routes []struct {
			Summary struct {
				Distance float64 `json:"distance"`
			} `json:"summary"`
			Geometry string `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(resp, &parsed); err != nil || len(parsed.Routes) == 0 {
		log.Printf("oracle: malformed route response, falling back to straight line")
		return straightLine(start, end), nil
	}

	route := parsed.Routes[0]
	result := Result{
		Coordinates: decodePolyline(route.Geometry, 5),
		DistanceM:   route.Summary.Distance,
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(result); err == nil {
			c.cache.Set(ctx, key, encoded)
		}
	}
	return result, nil
}

func (c *HTTPClient) Matrix(ctx context.Context, locations []orb.Point, profile Profile) ([][]float64, error) {
	if !c.enabled {
		return haversineMatrix(locations), nil
	}

	key := matrixCacheKey(locations, profile)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			var m [][]float64
			if err := json.Unmarshal(cached, &m); err == nil {
				return m, nil
			}
		}
	}

	coords := make([][2]float64, len(locations))
	for i, p := range locations {
		coords[i] = [2]float64{p[0], p[1]}
	}
	body := map[string]any{
		"locations": coords,
		"metrics":   []string{"distance"},
		"units":     "m",
	}

	resp, err := c.postWithRetry(ctx, c.cfg.MatrixURL, body)
	if err != nil {
		log.Printf("oracle: matrix query failed, falling back to haversine: %v", err)
		return haversineMatrix(locations), nil
	}

	var parsed struct {
		Distances [][]float64 `json:"distances"`
	}
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return haversineMatrix(locations), nil
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(parsed.Distances); err == nil {
			c.cache.Set(ctx, key, encoded)
		}
	}
	return parsed.Distances, nil
}

// postWithRetry performs the POST with bounded exponential backoff
// plus jitter, honoring Retry-After on 429 and retrying 5xx/network
// errors — the same retry shape as
// original_source/ors_client.py::_make_request_with_retry, expressed
// with cenkalti/backoff/v5 instead of a hand-rolled sleep loop.
func (c *HTTPClient) postWithRetry(ctx context.Context, url string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryDelay

	op := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Authorization", c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err // transient: network error, retry
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					return nil, backoff.RetryAfter(secs)
				}
			}
			return nil, fmt.Errorf("rate limited")
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return nil, backoff.Permanent(fmt.Errorf("client error %d", resp.StatusCode))
		}

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		return buf.Bytes(), nil
	}

	return backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(uint(c.cfg.MaxRetries)))
}

func straightLine(start, end orb.Point) Result {
	return Result{
		Coordinates:  orb.LineString{start, end},
		DistanceM:    geo.Haversine(start[1], start[0], end[1], end[0]),
		UsedFallback: true,
	}
}

func haversineMatrix(locations []orb.Point) [][]float64 {
	n := len(locations)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = geo.Haversine(locations[i][1], locations[i][0], locations[j][1], locations[j][0])
			}
		}
	}
	return m
}

func routeCacheKey(start, end orb.Point, profile Profile) string {
	s := fmt.Sprintf("%.6f,%.6f|%.6f,%.6f|%s", start[1], start[0], end[1], end[0], profile)
	sum := sha1.Sum([]byte(s))
	return "route:" + hex.EncodeToString(sum[:])
}

func matrixCacheKey(locations []orb.Point, profile Profile) string {
	s := fmt.Sprintf("%v|%s", locations, profile)
	sum := sha1.Sum([]byte(s))
	return "matrix:" + hex.EncodeToString(sum[:])
}
