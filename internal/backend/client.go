package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/observability"
)

// API is the backend surface the sync controller depends on. Client is the
// production implementation; tests substitute fakes.
type API interface {
	FetchFields(ctx context.Context) ([]domain.Field, error)
	FetchAlerts(ctx context.Context) ([]domain.Alert, error)
	CreateField(ctx context.Context, name string, lat, lon float64) error
	Recompute(ctx context.Context) error
}

// Client talks to the field-risk backend's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a backend client. baseURL is the backend root without a
// trailing slash, e.g. "http://localhost:8000".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchFields retrieves the current field collection.
func (c *Client) FetchFields(ctx context.Context) ([]domain.Field, error) {
	var fields []domain.Field
	if err := c.getJSON(ctx, "fields", "/api/fields", &fields); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched fields", "count", len(fields))
	return fields, nil
}

// FetchAlerts retrieves the current alert collection. The backend serves
// alerts most-recent-first; the client never re-sorts.
func (c *Client) FetchAlerts(ctx context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	if err := c.getJSON(ctx, "alerts", "/api/alerts", &alerts); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched alerts", "count", len(alerts))
	return alerts, nil
}

// CreateField registers a new field with the backend. The response body is
// not used beyond success or failure.
func (c *Client) CreateField(ctx context.Context, name string, lat, lon float64) error {
	payload := struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}{Name: name, Latitude: lat, Longitude: lon}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode field payload: %w", err)
	}
	return c.post(ctx, "create_field", "/api/fields", body)
}

// Recompute asks the backend to re-evaluate risk for all fields.
func (c *Client) Recompute(ctx context.Context) error {
	return c.post(ctx, "recompute", "/api/recompute", nil)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(op).Inc()
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.FetchErrors.WithLabelValues(op).Inc()
		return newStatusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.FetchErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, op, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(op).Inc()
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.FetchErrors.WithLabelValues(op).Inc()
		return newStatusError(op, resp)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func newStatusError(op string, resp *http.Response) *FetchError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &FetchError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("backend returned %s: %s", resp.Status, bytes.TrimSpace(body)),
	}
}
