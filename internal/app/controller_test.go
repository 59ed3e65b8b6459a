package app_test

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/agrisight/fieldwatch/internal/app"
	"github.com/agrisight/fieldwatch/internal/backend"
	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	api        *fakeAPI
	surface    *fakeMap
	lists      *fakeLists
	state      *app.State
	controller *app.Controller
}

func newHarness(api *fakeAPI) *harness {
	surface := &fakeMap{}
	lists := &fakeLists{}
	state := app.NewState()
	metrics := testMetrics()
	registry := app.NewMarkerRegistry(surface, metrics)
	renderer := app.NewListRenderer(lists, lists)
	controller := app.NewController(api, state, registry, renderer, slog.Default(), metrics)
	return &harness{api: api, surface: surface, lists: lists, state: state, controller: controller}
}

func TestLoadFields_SevereRiskScenario(t *testing.T) {
	api := &fakeAPI{fields: []domain.Field{
		field(1, "A", 10, 20, &domain.RiskDescriptor{RiskType: domain.RiskFlood, Severity: 80, Message: "m"}),
	}}
	h := newHarness(api)

	require.NoError(t, h.controller.LoadFields(context.Background()))

	// State replaced.
	require.Len(t, h.state.Fields, 1)

	// Marker colored red with message and severity in the popup.
	require.Len(t, h.surface.placed, 1)
	m := h.surface.placed[0]
	assert.Equal(t, domain.ColorRed, m.Color)
	assert.Contains(t, m.Popup, "m")
	assert.Contains(t, m.Popup, "Severity 80")

	// Field list badge reads "flood".
	entries := h.lists.lastFields()
	require.Len(t, entries, 1)
	assert.Equal(t, "flood", entries[0].Badge.Label)
}

func TestLoadFields_NullRiskScenario(t *testing.T) {
	api := &fakeAPI{fields: []domain.Field{field(1, "A", 10, 20, nil)}}
	h := newHarness(api)

	require.NoError(t, h.controller.LoadFields(context.Background()))

	require.Len(t, h.surface.placed, 1)
	assert.Equal(t, domain.ColorGreen, h.surface.placed[0].Color)
	assert.Contains(t, h.surface.placed[0].Popup, "No data")

	entries := h.lists.lastFields()
	require.Len(t, entries, 1)
	assert.Equal(t, "normal", entries[0].Badge.Label)
	assert.Equal(t, domain.ColorGreen, entries[0].Badge.Color)
}

func TestLoadFields_FailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{fields: []domain.Field{field(1, "A", 10, 20, nil)}}
	h := newHarness(api)
	require.NoError(t, h.controller.LoadFields(context.Background()))

	api.mu.Lock()
	api.fieldsErr = &backend.FetchError{Op: "fields", StatusCode: 500}
	api.mu.Unlock()

	err := h.controller.LoadFields(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsFetchError(err))

	// Previous state and rendered views unchanged: one rebuild, one marker.
	assert.Len(t, h.state.Fields, 1)
	assert.Len(t, h.lists.fieldRebuilds, 1)
	assert.Len(t, h.surface.placed, 1)
}

func TestLoadAlerts_ReplacesAndRenders(t *testing.T) {
	api := &fakeAPI{alerts: []domain.Alert{
		{ID: 1, FieldName: "A", RiskType: domain.RiskFlood, Severity: 80, Message: "m", CreatedAt: time.Now()},
	}}
	h := newHarness(api)

	require.NoError(t, h.controller.LoadAlerts(context.Background()))
	assert.Len(t, h.state.Alerts, 1)
	assert.Len(t, h.lists.lastAlerts(), 1)
}

func TestRefresh_FieldsBeforeAlerts(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)

	require.NoError(t, h.controller.Refresh(context.Background()))
	assert.Equal(t, []string{"fields", "alerts"}, api.callOrder)
}

func TestRefresh_FieldFailureSkipsAlerts(t *testing.T) {
	api := &fakeAPI{fieldsErr: &backend.FetchError{Op: "fields", StatusCode: 503}}
	h := newHarness(api)

	require.Error(t, h.controller.Refresh(context.Background()))
	_, alerts, _, _ := api.counts()
	assert.Zero(t, alerts)
}

func TestSubmitField_InvalidInputIsSilentNoOp(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	ctx := context.Background()

	require.NoError(t, h.controller.SubmitField(ctx, "", 1.0, 2.0))
	require.NoError(t, h.controller.SubmitField(ctx, "   ", 1.0, 2.0))
	require.NoError(t, h.controller.SubmitField(ctx, "X", math.NaN(), 2.0))
	require.NoError(t, h.controller.SubmitField(ctx, "X", 1.0, math.Inf(1)))

	fields, alerts, create, recompute := api.counts()
	assert.Zero(t, fields)
	assert.Zero(t, alerts)
	assert.Zero(t, create)
	assert.Zero(t, recompute)
}

func TestSubmitField_ValidInputCreatesThenRefreshes(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)

	require.NoError(t, h.controller.SubmitField(context.Background(), " North ", 10, 20))
	assert.Equal(t, []string{"create", "fields", "alerts"}, api.callOrder)
}

func TestSubmitField_CreateFailureStillRefreshes(t *testing.T) {
	api := &fakeAPI{createErr: &backend.FetchError{Op: "create_field", StatusCode: 400}}
	h := newHarness(api)

	require.NoError(t, h.controller.SubmitField(context.Background(), "X", 10, 20))
	assert.Equal(t, []string{"create", "fields", "alerts"}, api.callOrder)
}

func TestRecompute_TriggersRefresh(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)

	require.NoError(t, h.controller.Recompute(context.Background()))
	assert.Equal(t, []string{"recompute", "fields", "alerts"}, api.callOrder)
}

func TestRecompute_FailureSkipsReloads(t *testing.T) {
	api := &fakeAPI{recomputeErr: &backend.FetchError{Op: "recompute", StatusCode: 500}}
	h := newHarness(api)

	err := h.controller.Recompute(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsFetchError(err))

	fields, alerts, _, _ := api.counts()
	assert.Zero(t, fields)
	assert.Zero(t, alerts)

	// Nothing rendered.
	assert.Empty(t, h.lists.fieldRebuilds)
	assert.Empty(t, h.lists.alertRebuilds)
}

func TestCheckReadiness(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(api)
	ctx := context.Background()

	require.Error(t, h.controller.CheckReadiness(ctx))
	require.NoError(t, h.controller.LoadFields(ctx))
	require.NoError(t, h.controller.CheckReadiness(ctx))
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	api := &fakeAPI{fields: []domain.Field{field(1, "A", 10, 20, nil)}}
	h := newHarness(api)
	require.NoError(t, h.controller.LoadFields(context.Background()))

	fields, _ := h.controller.Snapshot()
	require.Len(t, fields, 1)
	fields[0].Name = "mutated"
	assert.Equal(t, "A", h.state.Fields[0].Name)
}
