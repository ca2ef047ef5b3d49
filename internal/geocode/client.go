// Package geocode resolves free-text place names through a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Location is one geocoding match.
type Location struct {
	PlaceID     string
	Name        string
	DisplayName string
	Category    string
	Type        string
	Country     string
	Lat         float64
	Lon         float64
}

// Geocoder looks up places by free text.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

type nominatimClient struct {
	cfg      Config
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer
}

// NewClient creates a Geocoder for cfg.Endpoint. Requests are never retried.
func NewClient(cfg Config, observer Observer) Geocoder {
	if observer == nil {
		observer = NoopObserver{}
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &nominatimClient{
		cfg: cfg,
		http: &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			}),
		},
		limiter:  rate.NewLimiter(limit, 1),
		observer: observer,
	}
}

// nominatimPlace is one element of the jsonv2 search response. Coordinates
// arrive as strings.
type nominatimPlace struct {
	PlaceID     json.Number `json:"place_id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Address     struct {
		Country string `json:"country"`
	} `json:"address"`
}

func (c *nominatimClient) Search(ctx context.Context, query string) ([]Location, error) {
	start := time.Now()
	query = strings.TrimSpace(query)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	locs, err := c.doRequest(ctx, query)
	event := CallEvent{
		Query:     query,
		Results:   len(locs),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		err = classify(ctx, err)
		// A caller abandoning the request is not a service failure.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)
	return locs, err
}

func (c *nominatimClient) doRequest(ctx context.Context, query string) ([]Location, error) {
	// Wait fails early when the next slot lies past the deadline.
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrTimeout
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	if c.cfg.Limit > 0 {
		params.Set("limit", strconv.Itoa(c.cfg.Limit))
	}
	endpoint := strings.TrimRight(c.cfg.Endpoint, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	locs := make([]Location, 0, len(places))
	for _, p := range places {
		lat, latErr := strconv.ParseFloat(p.Lat, 64)
		lon, lonErr := strconv.ParseFloat(p.Lon, 64)
		if latErr != nil || lonErr != nil {
			return nil, fmt.Errorf("%w: bad coordinates for %q", ErrBadResponse, p.DisplayName)
		}
		name := p.Name
		if name == "" {
			name, _, _ = strings.Cut(p.DisplayName, ",")
		}
		locs = append(locs, Location{
			PlaceID:     p.PlaceID.String(),
			Name:        name,
			DisplayName: p.DisplayName,
			Category:    p.Category,
			Type:        p.Type,
			Country:     p.Address.Country,
			Lat:         lat,
			Lon:         lon,
		})
	}
	return locs, nil
}

// classify maps transport failures onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrBadResponse):
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return context.Canceled
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return ErrUnavailable
	}
	return err
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrBadResponse):
		return "BAD_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
