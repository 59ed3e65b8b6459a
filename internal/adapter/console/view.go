// Package console renders the dashboard to a terminal. It is one concrete
// implementation of the view interfaces; the sync engine never depends on it
// directly.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/agrisight/fieldwatch/internal/domain"
	"github.com/agrisight/fieldwatch/internal/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func styleFor(color string) lipgloss.Style {
	switch color {
	case domain.ColorRed:
		return redStyle
	case domain.ColorYellow:
		return yellowStyle
	default:
		return greenStyle
	}
}

// View implements view.MapView, view.FieldListView, view.AlertListView, and
// view.FieldFormView against a terminal writer. Markers are rendered as a
// table in insertion order (the closest a terminal gets to a map surface);
// both lists are redrawn in full on every replace.
type View struct {
	mu sync.Mutex
	w  io.Writer

	markers     []view.Marker
	markerIndex map[int64]int
	fields      []view.FieldEntry
	alerts      []view.AlertEntry

	formName string
	formLat  string
	formLon  string
}

// NewView creates a console view writing to w.
func NewView(w io.Writer) *View {
	return &View{
		w:           w,
		markerIndex: make(map[int64]int),
	}
}

// PlaceMarker adds a marker for a field seen for the first time.
func (v *View) PlaceMarker(m view.Marker) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.markerIndex[m.FieldID]; ok {
		return
	}
	v.markerIndex[m.FieldID] = len(v.markers)
	v.markers = append(v.markers, m)
}

// RestyleMarker updates an existing marker's color and popup in place.
// Unknown IDs are ignored. Coordinates never change.
func (v *View) RestyleMarker(fieldID int64, color, popup string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i, ok := v.markerIndex[fieldID]
	if !ok {
		return
	}
	v.markers[i].Color = color
	v.markers[i].Popup = popup
}

// ReplaceFields swaps in the new field list entries.
func (v *View) ReplaceFields(entries []view.FieldEntry) {
	v.mu.Lock()
	v.fields = entries
	v.mu.Unlock()
}

// ReplaceAlerts swaps in the new alert list entries and redraws the whole
// dashboard. Alerts are replaced last in every refresh cycle, which makes
// this the natural redraw point.
func (v *View) ReplaceAlerts(entries []view.AlertEntry) {
	v.mu.Lock()
	v.alerts = entries
	v.mu.Unlock()
	v.Redraw()
}

// SetCoordinates fills the form's coordinate inputs.
func (v *View) SetCoordinates(lat, lon string) {
	v.mu.Lock()
	v.formLat = lat
	v.formLon = lon
	v.mu.Unlock()
	fmt.Fprintf(v.w, "form coordinates set to %s, %s\n", lat, lon)
}

// SetName fills the form's name input.
func (v *View) SetName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formName = name
}

// ClearForm resets all form inputs.
func (v *View) ClearForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formName = ""
	v.formLat = ""
	v.formLon = ""
}

// FormValues returns the current form inputs.
func (v *View) FormValues() (name, lat, lon string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.formName, v.formLat, v.formLon
}

// Redraw writes the full dashboard: marker table, field list, alert list.
func (v *View) Redraw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintln(v.w)
	fmt.Fprintln(v.w, titleStyle.Render("Map"))
	if len(v.markers) == 0 {
		fmt.Fprintln(v.w, dimStyle.Render("  no markers"))
	}
	for _, m := range v.markers {
		pin := styleFor(m.Color).Render("●")
		fmt.Fprintf(v.w, "  %s %s\n", pin, m.Popup)
	}

	fmt.Fprintln(v.w, titleStyle.Render("Fields"))
	if len(v.fields) == 0 {
		fmt.Fprintln(v.w, dimStyle.Render("  no fields"))
	}
	for _, f := range v.fields {
		badge := styleFor(f.Badge.Color).Render("[" + f.Badge.Label + "]")
		fmt.Fprintf(v.w, "  %s %s (%s): %s\n", badge, f.Name, f.Coordinates, f.RiskMessage)
	}

	fmt.Fprintln(v.w, titleStyle.Render("Alerts"))
	if len(v.alerts) == 0 {
		fmt.Fprintln(v.w, dimStyle.Render("  no alerts"))
	}
	for _, a := range v.alerts {
		badge := styleFor(a.Badge.Color).Render("[" + a.Badge.Label + "]")
		fmt.Fprintf(v.w, "  %s %s %s: %s\n", badge, a.Timestamp, a.FieldName, a.Message)
	}
}
