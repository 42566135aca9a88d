package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// Geocoder turns a free-text query into coordinates. Implementations
// return ErrNoMatch when the query yields nothing and ErrProvider for
// transport or protocol failures.
type Geocoder interface {
	// Name identifies the provider in log output.
	Name() string
	// Geocode resolves query to coordinates.
	Geocode(ctx context.Context, query string) (Coordinates, error)
}

// NominatimClient is the primary geocoding provider, an OpenStreetMap
// Nominatim search endpoint.
type NominatimClient struct {
	// BaseURL is the search endpoint, without query parameters.
	BaseURL string
	// UserAgent identifies this service, as the endpoint's usage
	// policy requires.
	UserAgent string
	// HTTPClient can be overridden in tests.
	HTTPClient *http.Client
}

// Name implements Geocoder.
func (c *NominatimClient) Name() string { return "nominatim" }

// nominatimResult is one entry of the search response. Coordinates
// arrive as decimal strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements Geocoder against the Nominatim search API.
func (c *NominatimClient) Geocode(ctx context.Context, query string) (Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: building request: %w", ErrProvider, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decoding response: %w", ErrProvider, err)
	}
	if len(results) == 0 {
		return Coordinates{}, ErrNoMatch
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return Coordinates{}, fmt.Errorf("%w: non-numeric coordinates %q,%q", ErrProvider, results[0].Lat, results[0].Lon)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

func (c *NominatimClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// GoogleClient is the secondary geocoding provider, the Google
// Geocoding API. It is only consulted when the primary misses.
type GoogleClient struct {
	// BaseURL is the geocode endpoint, without query parameters.
	BaseURL string
	// APIKey authenticates requests. An empty key makes every call
	// fail with ErrProvider, which the chain treats as a miss.
	APIKey string
	// HTTPClient can be overridden in tests.
	HTTPClient *http.Client
}

// Name implements Geocoder.
func (c *GoogleClient) Name() string { return "google" }

// googleResponse is the subset of the geocode payload we read.
type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode implements Geocoder against the Google Geocoding API.
func (c *GoogleClient) Geocode(ctx context.Context, query string) (Coordinates, error) {
	if c.APIKey == "" {
		return Coordinates{}, fmt.Errorf("%w: no API key configured", ErrProvider)
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: building request: %w", ErrProvider, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decoding response: %w", ErrProvider, err)
	}

	switch payload.Status {
	case "OK":
		if len(payload.Results) == 0 {
			return Coordinates{}, ErrNoMatch
		}
		loc := payload.Results[0].Geometry.Location
		return Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
	case "ZERO_RESULTS":
		return Coordinates{}, ErrNoMatch
	default:
		return Coordinates{}, fmt.Errorf("%w: status %s", ErrProvider, payload.Status)
	}
}

func (c *GoogleClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Chain is a Geocoder that tries providers in order until one returns
// coordinates. It enforces a per-call timeout and a minimum interval
// between consecutive external calls, shared across goroutines.
type Chain struct {
	providers []Geocoder
	timeout   time.Duration
	interval  time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewChain builds a provider chain. timeout bounds each provider call;
// interval is the minimum spacing between calls. Zero values disable
// the respective limit.
func NewChain(timeout, interval time.Duration, providers ...Geocoder) *Chain {
	return &Chain{
		providers: providers,
		timeout:   timeout,
		interval:  interval,
	}
}

// Name implements Geocoder.
func (c *Chain) Name() string { return "chain" }

// Geocode implements Geocoder. Provider failures of any kind advance to
// the next provider; only when every provider misses does the chain
// report ErrNoMatch.
func (c *Chain) Geocode(ctx context.Context, query string) (Coordinates, error) {
	log := logging.ComponentLogger(logging.FromContext(ctx), "geo")

	for _, p := range c.providers {
		c.throttle()

		coords, err := c.callProvider(ctx, p, query)
		if err == nil {
			log.Debug().Str("provider", p.Name()).Str("query", query).Msg("geocode hit")
			return coords, nil
		}
		log.Debug().Str("provider", p.Name()).Str("query", query).Err(err).Msg("geocode miss")
	}
	return Coordinates{}, ErrNoMatch
}

// callProvider invokes one provider under the chain's per-call timeout.
func (c *Chain) callProvider(ctx context.Context, p Geocoder, query string) (Coordinates, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return p.Geocode(ctx, query)
}

// throttle blocks until at least the configured interval has passed
// since the previous external call.
func (c *Chain) throttle() {
	if c.interval <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if wait := c.interval - time.Since(c.last); wait > 0 {
		time.Sleep(wait)
	}
	c.last = time.Now()
}
