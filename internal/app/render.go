package app

import (
	"fmt"

	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/view"
)

// MaxAlertEntries caps the alert list at the most significant entries.
const MaxAlertEntries = 15

// noRiskMessage is shown for fields without risk data.
const noRiskMessage = "No significant risk"

// alertTimeFormat renders alert creation times in the viewer's local zone.
const alertTimeFormat = "Jan 2 2006 15:04"

// ListRenderer rebuilds the two side-panel lists from scratch on every
// refresh. It performs no sorting and no diffing: input order is display
// order, so callers wanting recency-first alerts must pass them that way
// (the backend already does).
type ListRenderer struct {
	fieldList view.FieldListView
	alertList view.AlertListView
}

// NewListRenderer creates a renderer targeting the given list views.
func NewListRenderer(fieldList view.FieldListView, alertList view.AlertListView) *ListRenderer {
	return &ListRenderer{fieldList: fieldList, alertList: alertList}
}

// RenderFields replaces the field list with one entry per field, in input
// order. The badge carries the risk type (or "normal") colored by the
// three-tier classifier.
func (l *ListRenderer) RenderFields(fields []domain.Field) {
	entries := make([]view.FieldEntry, 0, len(fields))
	for _, f := range fields {
		entries = append(entries, fieldEntry(f))
	}
	l.fieldList.ReplaceFields(entries)
}

// RenderAlerts replaces the alert list with at most MaxAlertEntries entries,
// in input order. The badge combines risk type and numeric severity and is
// red at severity >= 75, yellow below. That single threshold is independent
// of the classifier's two-threshold rule and must stay that way.
func (l *ListRenderer) RenderAlerts(alerts []domain.Alert) {
	if len(alerts) > MaxAlertEntries {
		alerts = alerts[:MaxAlertEntries]
	}
	entries := make([]view.AlertEntry, 0, len(alerts))
	for _, a := range alerts {
		entries = append(entries, view.AlertEntry{
			FieldName: a.FieldName,
			Timestamp: a.CreatedAt.Local().Format(alertTimeFormat),
			Message:   a.Message,
			Badge: view.Badge{
				Label: fmt.Sprintf("%s %d", a.RiskType, a.Severity),
				Color: alertBadgeColor(a.Severity),
			},
		})
	}
	l.alertList.ReplaceAlerts(entries)
}

func fieldEntry(f domain.Field) view.FieldEntry {
	e := view.FieldEntry{
		Name:        f.Name,
		Coordinates: fmt.Sprintf("%.4f, %.4f", f.Latitude, f.Longitude),
		RiskMessage: noRiskMessage,
		Badge: view.Badge{
			Label: domain.RiskNormal,
			Color: domain.Classify(f.LastRisk).Color(),
		},
	}
	if f.LastRisk != nil {
		e.RiskMessage = f.LastRisk.Message
		e.Badge.Label = f.LastRisk.RiskType
	}
	return e
}

func alertBadgeColor(severity int) string {
	if severity >= domain.SevereThreshold {
		return domain.ColorRed
	}
	return domain.ColorYellow
}
