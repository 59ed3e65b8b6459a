package app_test

import (
	"testing"

	"github.com/agrisight/fieldwatch/internal/app"
	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(id int64, name string, lat, lon float64, risk *domain.RiskDescriptor) domain.Field {
	return domain.Field{ID: id, Name: name, Latitude: lat, Longitude: lon, LastRisk: risk}
}

func TestReconcile_CreatesMarkerOnFirstSight(t *testing.T) {
	surface := &fakeMap{}
	r := app.NewMarkerRegistry(surface, testMetrics())

	r.Reconcile([]domain.Field{
		field(1, "A", 10, 20, &domain.RiskDescriptor{RiskType: domain.RiskFlood, Severity: 80, Message: "m"}),
	})

	require.Len(t, surface.placed, 1)
	m := surface.placed[0]
	assert.Equal(t, int64(1), m.FieldID)
	assert.Equal(t, 10.0, m.Lat)
	assert.Equal(t, 20.0, m.Lon)
	assert.Equal(t, domain.ColorRed, m.Color)
	assert.Contains(t, m.Popup, "m")
	assert.Contains(t, m.Popup, "Severity 80")
	assert.Equal(t, 1, r.Len())
}

func TestReconcile_UpdatesInPlace(t *testing.T) {
	surface := &fakeMap{}
	r := app.NewMarkerRegistry(surface, testMetrics())

	r.Reconcile([]domain.Field{field(1, "A", 10, 20, nil)})
	r.Reconcile([]domain.Field{
		field(1, "A", 10, 20, &domain.RiskDescriptor{RiskType: domain.RiskDrought, Severity: 50, Message: "dry"}),
	})

	// Still one marker; the second pass restyled instead of recreating.
	assert.Len(t, surface.placed, 1)
	require.Len(t, surface.restyles, 1)
	assert.Equal(t, domain.ColorYellow, surface.restyles[0].color)
	assert.Contains(t, surface.restyles[0].popup, "dry")
	assert.Equal(t, 1, r.Len())
}

func TestReconcile_Idempotent(t *testing.T) {
	surface := &fakeMap{}
	r := app.NewMarkerRegistry(surface, testMetrics())

	fields := []domain.Field{
		field(1, "A", 10, 20, &domain.RiskDescriptor{RiskType: domain.RiskFlood, Severity: 80, Message: "m"}),
		field(2, "B", -5, 30, nil),
	}
	r.Reconcile(fields)
	r.Reconcile(fields)

	assert.Len(t, surface.placed, 2)
	assert.Equal(t, 2, r.Len())

	m1, ok := r.Marker(1)
	require.True(t, ok)
	assert.Equal(t, domain.ColorRed, m1.Color)

	// Restyles from the second pass carry identical style.
	for _, rs := range surface.restyles {
		if rs.fieldID == 1 {
			assert.Equal(t, domain.ColorRed, rs.color)
			assert.Equal(t, m1.Popup, rs.popup)
		}
	}
}

func TestReconcile_NeverRemovesOmittedFields(t *testing.T) {
	surface := &fakeMap{}
	r := app.NewMarkerRegistry(surface, testMetrics())

	r.Reconcile([]domain.Field{
		field(1, "A", 10, 20, nil),
		field(2, "B", 11, 21, nil),
	})
	r.Reconcile([]domain.Field{field(2, "B", 11, 21, nil)})

	assert.Equal(t, 2, r.Len())
	_, ok := r.Marker(1)
	assert.True(t, ok)
}

func TestReconcile_CoordinatesImmutableAfterCreation(t *testing.T) {
	surface := &fakeMap{}
	r := app.NewMarkerRegistry(surface, testMetrics())

	r.Reconcile([]domain.Field{field(1, "A", 10, 20, nil)})
	r.Reconcile([]domain.Field{field(1, "A", 50, 60, nil)})

	m, ok := r.Marker(1)
	require.True(t, ok)
	assert.Equal(t, 10.0, m.Lat)
	assert.Equal(t, 20.0, m.Lon)
}

func TestReconcile_PopupWithoutRiskShowsNoData(t *testing.T) {
	surface := &fakeMap{}
	r := app.NewMarkerRegistry(surface, testMetrics())

	r.Reconcile([]domain.Field{field(1, "North", 10.12345, 20.98765, nil)})

	require.Len(t, surface.placed, 1)
	popup := surface.placed[0].Popup
	assert.Contains(t, popup, "North")
	assert.Contains(t, popup, "No data")
	// Coordinates at 3 decimal places.
	assert.Contains(t, popup, "10.123")
	assert.Contains(t, popup, "20.988")
	assert.Equal(t, domain.ColorGreen, surface.placed[0].Color)
}
