package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/agrisight/fieldwatch/internal/view"
)

// Bridge translates raw view events (map clicks, form submission, the
// recompute control) into controller calls. It holds no state of its own;
// the form's text contents live in the view.
type Bridge struct {
	controller *Controller
	form       view.FieldFormView
	logger     *slog.Logger
}

// NewBridge creates a bridge between the given form view and controller.
func NewBridge(controller *Controller, form view.FieldFormView, logger *slog.Logger) *Bridge {
	return &Bridge{controller: controller, form: form, logger: logger}
}

// MapClicked populates the form's coordinate inputs with the clicked
// position at 6 decimal places. No backend call.
func (b *Bridge) MapClicked(lat, lon float64) {
	b.form.SetCoordinates(fmt.Sprintf("%.6f", lat), fmt.Sprintf("%.6f", lon))
}

// SubmitForm parses the form's raw inputs and delegates to SubmitField. The
// form is cleared as soon as submission starts, whatever the outcome.
func (b *Bridge) SubmitForm(ctx context.Context, name, latText, lonText string) {
	lat := parseCoordinate(latText)
	lon := parseCoordinate(lonText)
	b.form.ClearForm()

	if err := b.controller.SubmitField(ctx, name, lat, lon); err != nil {
		b.logger.Error("add field failed", "name", name, "error", err)
	}
}

// RecomputeClicked triggers a backend recompute followed by a refresh.
func (b *Bridge) RecomputeClicked(ctx context.Context) {
	if err := b.controller.Recompute(ctx); err != nil {
		b.logger.Error("recompute failed", "error", err)
	}
}

// parseCoordinate returns NaN for unparseable input so the controller's
// finiteness check rejects it.
func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
