// Command apicheck verifies that a running backend honors the API contract
// the dashboard client depends on: endpoint status behavior, field and alert
// shapes, value ranges, and alert ordering. Run it against a new backend
// deployment before pointing dashboards at it.
//
// Usage:
//
//	go run ./cmd/apicheck -backend-url http://localhost:8000
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/agrisight/fieldwatch/internal/backend"
	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/observability"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	backendURL := flag.String("backend-url", "http://localhost:8000", "backend base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := backend.NewClient(*backendURL, *timeout, logger, observability.NewMetricsForTesting())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	phases := []*phase{
		checkFields(ctx, client),
		checkAlerts(ctx, client),
		checkEndpoints(ctx, *backendURL, *timeout),
	}

	failed := false
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed = true
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// checkFields validates the field collection: unique stable IDs, coordinate
// ranges, and complete-or-absent risk descriptors.
func checkFields(ctx context.Context, client *backend.Client) *phase {
	p := &phase{name: "fields"}

	fields, err := client.FetchFields(ctx)
	if err != nil {
		p.errorf("GET /api/fields: %v", err)
		return p
	}

	seen := make(map[int64]bool, len(fields))
	for _, f := range fields {
		if seen[f.ID] {
			p.errorf("field id %d appears more than once", f.ID)
		}
		seen[f.ID] = true

		if f.Name == "" {
			p.errorf("field %d has an empty name", f.ID)
		}
		if f.Latitude < -90 || f.Latitude > 90 {
			p.errorf("field %d latitude %f out of range", f.ID, f.Latitude)
		}
		if f.Longitude < -180 || f.Longitude > 180 {
			p.errorf("field %d longitude %f out of range", f.ID, f.Longitude)
		}
		if r := f.LastRisk; r != nil {
			if r.RiskType == "" {
				p.errorf("field %d last_risk has no risk_type", f.ID)
			}
			if r.Severity < 0 || r.Severity > 100 {
				p.errorf("field %d severity %d out of 0-100", f.ID, r.Severity)
			}
			if r.Message == "" {
				p.errorf("field %d last_risk has no message", f.ID)
			}
		}
	}
	return p
}

// checkAlerts validates the alert collection: value ranges and the
// most-recent-first ordering the client renders without re-sorting.
func checkAlerts(ctx context.Context, client *backend.Client) *phase {
	p := &phase{name: "alerts"}

	alerts, err := client.FetchAlerts(ctx)
	if err != nil {
		p.errorf("GET /api/alerts: %v", err)
		return p
	}

	for i, a := range alerts {
		if a.FieldName == "" {
			p.errorf("alert %d has an empty field_name", a.ID)
		}
		if a.RiskType == "" || a.RiskType == domain.RiskNormal {
			p.errorf("alert %d has risk_type %q", a.ID, a.RiskType)
		}
		if a.Severity < 0 || a.Severity > 100 {
			p.errorf("alert %d severity %d out of 0-100", a.ID, a.Severity)
		}
		if a.CreatedAt.IsZero() {
			p.errorf("alert %d has no created_at", a.ID)
		}
		if i > 0 && a.CreatedAt.After(alerts[i-1].CreatedAt) {
			p.errorf("alerts not ordered most-recent-first at index %d", i)
		}
	}
	return p
}

// checkEndpoints validates POST status behavior: recompute succeeds and
// malformed field creation is rejected.
func checkEndpoints(ctx context.Context, baseURL string, timeout time.Duration) *phase {
	p := &phase{name: "endpoints"}
	httpClient := &http.Client{Timeout: timeout}

	status, err := post(ctx, httpClient, baseURL+"/api/recompute", nil)
	if err != nil {
		p.errorf("POST /api/recompute: %v", err)
	} else if status < 200 || status > 299 {
		p.errorf("POST /api/recompute returned %d", status)
	}

	bad, _ := json.Marshal(map[string]any{"name": "contract-check", "latitude": "not-a-number", "longitude": 0})
	status, err = post(ctx, httpClient, baseURL+"/api/fields", bad)
	if err != nil {
		p.errorf("POST /api/fields: %v", err)
	} else if status < 400 || status > 499 {
		p.errorf("POST /api/fields with bad latitude returned %d, want 4xx", status)
	}

	return p
}

func post(ctx context.Context, client *http.Client, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
