package app

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agrisight/fieldwatch/internal/backend"
	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/observability"
)

// Controller orchestrates fetch-and-reconcile cycles and the user-triggered
// action flows. It owns the application State; every successful fetch
// replaces the relevant slice and re-renders the dependent views while
// holding the controller mutex, so overlapping in-flight fetches resolve
// last-response-wins without partial interleaving.
//
// Fetch errors are returned, never handled here; call sites (the scheduler,
// the CLI) log them and carry on with the previously rendered state intact.
type Controller struct {
	api      backend.API
	state    *State
	registry *MarkerRegistry
	renderer *ListRenderer
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu     sync.Mutex
	synced atomic.Bool // at least one successful field refresh
}

// NewController wires a controller around the given collaborators.
func NewController(
	api backend.API,
	state *State,
	registry *MarkerRegistry,
	renderer *ListRenderer,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Controller {
	return &Controller{
		api:      api,
		state:    state,
		registry: registry,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,
	}
}

// LoadFields fetches the field collection and, on success, replaces the
// state's field list, reconciles markers, and rebuilds the field list view.
func (c *Controller) LoadFields(ctx context.Context) error {
	fields, err := c.api.FetchFields(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Fields = fields
	c.registry.Reconcile(fields)
	c.renderer.RenderFields(fields)
	c.mu.Unlock()

	c.metrics.FieldsTracked.Set(float64(len(fields)))
	c.synced.Store(true)
	return nil
}

// LoadAlerts fetches the alert collection and, on success, replaces the
// state's alert list and rebuilds the alert list view.
func (c *Controller) LoadAlerts(ctx context.Context) error {
	alerts, err := c.api.FetchAlerts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Alerts = alerts
	c.renderer.RenderAlerts(alerts)
	c.mu.Unlock()

	displayed := len(alerts)
	if displayed > MaxAlertEntries {
		displayed = MaxAlertEntries
	}
	c.metrics.AlertsDisplayed.Set(float64(displayed))
	return nil
}

// Refresh runs one full cycle: fields first, then alerts. The field reload
// is always completed before the alert reload starts, so badges and the
// alert list are drawn from roughly the same moment. A field reload failure
// skips the alert reload.
func (c *Controller) Refresh(ctx context.Context) error {
	start := time.Now()
	if err := c.LoadFields(ctx); err != nil {
		return err
	}
	if err := c.LoadAlerts(ctx); err != nil {
		return err
	}
	c.metrics.RefreshCycles.Inc()
	c.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	return nil
}

// SubmitField registers a new field with the backend and refreshes both
// collections to pick up server-side effects (the new field plus any alerts
// the backend generates synchronously).
//
// Invalid input — empty name after trimming, or a non-finite coordinate —
// is a silent no-op: no request, no error. The refresh runs even when the
// creation request itself fails; the create failure is only logged.
func (c *Controller) SubmitField(ctx context.Context, name string, lat, lon float64) error {
	name = strings.TrimSpace(name)
	if name == "" || !isFinite(lat) || !isFinite(lon) {
		c.logger.Debug("ignoring invalid field submission", "name", name, "lat", lat, "lon", lon)
		return nil
	}

	if err := c.api.CreateField(ctx, name, lat, lon); err != nil {
		c.logger.Warn("create field failed", "name", name, "error", err)
	}
	return c.Refresh(ctx)
}

// Recompute asks the backend to re-evaluate all fields, then refreshes. A
// recompute failure propagates and the reloads are skipped.
func (c *Controller) Recompute(ctx context.Context) error {
	if err := c.api.Recompute(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// CheckReadiness reports nil once at least one field refresh has succeeded.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.synced.Load() {
		return errors.New("no successful refresh yet")
	}
	return nil
}

// Snapshot returns copies of the current field and alert collections.
func (c *Controller) Snapshot() ([]domain.Field, []domain.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields := make([]domain.Field, len(c.state.Fields))
	copy(fields, c.state.Fields)
	alerts := make([]domain.Alert, len(c.state.Alerts))
	copy(alerts, c.state.Alerts)
	return fields, alerts
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
