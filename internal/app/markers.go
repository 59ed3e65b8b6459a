package app

import (
	"fmt"

	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/observability"
	"github.com/agrisight/fieldwatch/internal/view"
)

// MarkerRegistry owns the field-to-marker mapping on the map surface. A
// marker is created the first time its field appears in a fetch and lives
// until the session ends; later fetches only restyle it in place. There is
// no removal path: the field list is append-only, and a field missing from
// one response keeps its marker untouched.
//
// Not safe for concurrent use; the Controller serializes reconciliation.
type MarkerRegistry struct {
	surface view.MapView
	markers map[int64]view.Marker
	metrics *observability.Metrics
}

// NewMarkerRegistry creates an empty registry drawing on the given surface.
func NewMarkerRegistry(surface view.MapView, metrics *observability.Metrics) *MarkerRegistry {
	return &MarkerRegistry{
		surface: surface,
		markers: make(map[int64]view.Marker),
		metrics: metrics,
	}
}

// Reconcile brings the map surface in line with the given field collection.
// Unknown fields get a new marker at their coordinates; known fields keep
// their marker and coordinates and receive the freshly computed color and
// popup. Idempotent: reconciling the same collection twice changes nothing.
func (r *MarkerRegistry) Reconcile(fields []domain.Field) {
	for _, f := range fields {
		color := domain.Classify(f.LastRisk).Color()
		popup := popupText(f)

		if m, ok := r.markers[f.ID]; ok {
			m.Color = color
			m.Popup = popup
			r.markers[f.ID] = m
			r.surface.RestyleMarker(f.ID, color, popup)
			r.metrics.MarkersRestyled.Inc()
			continue
		}

		m := view.Marker{
			FieldID: f.ID,
			Lat:     f.Latitude,
			Lon:     f.Longitude,
			Color:   color,
			Popup:   popup,
		}
		r.markers[f.ID] = m
		r.surface.PlaceMarker(m)
		r.metrics.MarkersCreated.Inc()
	}
}

// Len reports how many markers exist.
func (r *MarkerRegistry) Len() int {
	return len(r.markers)
}

// Marker returns the registry's record for a field, if one exists.
func (r *MarkerRegistry) Marker(fieldID int64) (view.Marker, bool) {
	m, ok := r.markers[fieldID]
	return m, ok
}

// popupText builds the marker popup: field name, coordinates at 3 decimal
// places, and the risk message with its severity or a no-data placeholder.
func popupText(f domain.Field) string {
	if f.LastRisk == nil {
		return fmt.Sprintf("%s (%.3f, %.3f): No data", f.Name, f.Latitude, f.Longitude)
	}
	return fmt.Sprintf("%s (%.3f, %.3f): %s (Severity %d)",
		f.Name, f.Latitude, f.Longitude, f.LastRisk.Message, f.LastRisk.Severity)
}
