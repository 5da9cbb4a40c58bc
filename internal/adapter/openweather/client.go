// Package openweather fetches current weather observations from the
// OpenWeatherMap API for the live feature-vector overlay.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/observability"
)

// Client calls the OpenWeatherMap current-weather endpoint. Every failure
// mode (network error, non-200 status, missing fields, open breaker) maps to
// domain.ErrWeatherUnavailable so the scoring session has a single error
// kind to branch on.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client with a circuit breaker so a
// degraded upstream fails fast instead of stalling every session on the
// request timeout.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		breaker: cb,
		metrics: metrics,
		logger:  logger,
	}
}

// Current fetches the current observation for a coordinate. The returned
// observation always carries both temperature and humidity; a response
// missing either field is rejected whole so a partially-overlaid vector can
// never be built from it.
func (c *Client) Current(ctx context.Context, coord domain.Coordinate) (domain.Observation, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", coord.Lat)},
		"lon":   {fmt.Sprintf("%.4f", coord.Lon)},
		"appid": {c.apiKey},
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	})
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Observation{}, fmt.Errorf("openweathermap: %v: %w", err, domain.ErrWeatherUnavailable)
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return result.(domain.Observation), nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Observation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("current weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Observation{}, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Observation{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Main == nil || payload.Main.Temp == nil || payload.Main.Humidity == nil {
		return domain.Observation{}, fmt.Errorf("response missing temperature or humidity")
	}

	observedAt := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		observedAt = time.Now().UTC()
	}

	return domain.Observation{
		TemperatureKelvin: *payload.Main.Temp,
		HumidityPct:       *payload.Main.Humidity,
		ObservedAt:        observedAt,
	}, nil
}

// OpenWeatherMap API response types. Pointers distinguish "field absent"
// from a legitimate zero reading.

type response struct {
	Dt   int64 `json:"dt"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
}
