package app_test

import (
	"context"
	"sync"

	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/observability"
	"github.com/agrisight/fieldwatch/internal/view"
)

// --- view fakes ---

type restyle struct {
	fieldID int64
	color   string
	popup   string
}

type fakeMap struct {
	placed   []view.Marker
	restyles []restyle
}

func (f *fakeMap) PlaceMarker(m view.Marker) { f.placed = append(f.placed, m) }

func (f *fakeMap) RestyleMarker(fieldID int64, color, popup string) {
	f.restyles = append(f.restyles, restyle{fieldID: fieldID, color: color, popup: popup})
}

// fakeLists records every full list rebuild.
type fakeLists struct {
	fieldRebuilds [][]view.FieldEntry
	alertRebuilds [][]view.AlertEntry
}

func (f *fakeLists) ReplaceFields(entries []view.FieldEntry) {
	f.fieldRebuilds = append(f.fieldRebuilds, entries)
}

func (f *fakeLists) ReplaceAlerts(entries []view.AlertEntry) {
	f.alertRebuilds = append(f.alertRebuilds, entries)
}

func (f *fakeLists) lastFields() []view.FieldEntry {
	if len(f.fieldRebuilds) == 0 {
		return nil
	}
	return f.fieldRebuilds[len(f.fieldRebuilds)-1]
}

func (f *fakeLists) lastAlerts() []view.AlertEntry {
	if len(f.alertRebuilds) == 0 {
		return nil
	}
	return f.alertRebuilds[len(f.alertRebuilds)-1]
}

type fakeForm struct {
	lat, lon string
	cleared  int
}

func (f *fakeForm) SetCoordinates(lat, lon string) { f.lat, f.lon = lat, lon }
func (f *fakeForm) ClearForm()                     { f.cleared++; f.lat, f.lon = "", "" }

// --- backend fake ---

// fakeAPI is an in-memory backend.API. Counters are mutex-guarded so
// scheduler tests can poll them from the test goroutine.
type fakeAPI struct {
	mu sync.Mutex

	fields []domain.Field
	alerts []domain.Alert

	fieldsErr    error
	alertsErr    error
	createErr    error
	recomputeErr error

	fieldsCalls    int
	alertsCalls    int
	createCalls    int
	recomputeCalls int

	// callOrder records the sequence of operations for ordering assertions.
	callOrder []string
}

func (f *fakeAPI) FetchFields(_ context.Context) ([]domain.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fieldsCalls++
	f.callOrder = append(f.callOrder, "fields")
	if f.fieldsErr != nil {
		return nil, f.fieldsErr
	}
	return f.fields, nil
}

func (f *fakeAPI) FetchAlerts(_ context.Context) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertsCalls++
	f.callOrder = append(f.callOrder, "alerts")
	if f.alertsErr != nil {
		return nil, f.alertsErr
	}
	return f.alerts, nil
}

func (f *fakeAPI) CreateField(_ context.Context, _ string, _, _ float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.callOrder = append(f.callOrder, "create")
	return f.createErr
}

func (f *fakeAPI) Recompute(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recomputeCalls++
	f.callOrder = append(f.callOrder, "recompute")
	return f.recomputeErr
}

func (f *fakeAPI) counts() (fields, alerts, create, recompute int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldsCalls, f.alertsCalls, f.createCalls, f.recomputeCalls
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}
