// Package view defines the abstract rendering surface the sync engine draws
// on. Concrete implementations (the terminal renderer, test fakes) live in
// adapters; the engine only ever sees these interfaces and value types.
package view

// Marker is the visual representation of one field on the map surface.
// Coordinates are fixed at creation; only Color and Popup change afterwards.
type Marker struct {
	FieldID int64
	Lat     float64
	Lon     float64
	Color   string // domain color token: green, yellow, red
	Popup   string
}

// Badge is a short colored label, e.g. "flood" or "flood 80".
type Badge struct {
	Label string
	Color string
}

// FieldEntry is one row of the field list.
type FieldEntry struct {
	Name        string
	Coordinates string // "lat, lon" at 4 decimal places
	RiskMessage string
	Badge       Badge
}

// AlertEntry is one row of the alert list.
type AlertEntry struct {
	FieldName string
	Timestamp string // localized rendering of the alert's creation time
	Message   string
	Badge     Badge
}

// MapView places and updates markers. Implementations must tolerate
// RestyleMarker calls for IDs they have never seen (no-op) and must never
// remove a marker on their own.
type MapView interface {
	PlaceMarker(m Marker)
	RestyleMarker(fieldID int64, color, popup string)
}

// FieldListView displays the field list. ReplaceFields is a full rebuild:
// the previous contents are discarded and the given entries shown in order.
type FieldListView interface {
	ReplaceFields(entries []FieldEntry)
}

// AlertListView displays the alert list, same full-rebuild contract.
type AlertListView interface {
	ReplaceAlerts(entries []AlertEntry)
}

// FieldFormView is the add-field input surface: a name and a coordinate
// pair, populated by map clicks and cleared on submission.
type FieldFormView interface {
	SetCoordinates(lat, lon string)
	ClearForm()
}
