package domain

import "time"

// Field is a tracked geolocated site. Fields are created by the backend and
// never deleted during a client session; each successful fetch replaces the
// whole slice rather than mutating individual fields in place.
type Field struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	CreatedAt time.Time       `json:"created_at"`
	LastRisk  *RiskDescriptor `json:"last_risk"`
}

// RiskDescriptor describes a hazard condition: a category label, a numeric
// severity, and a human-readable message. The label set is open; RiskNormal
// is the no-hazard sentinel. A descriptor is either absent or complete — a
// severity is only meaningful alongside a non-normal risk type.
type RiskDescriptor struct {
	RiskType    string             `json:"risk_type"`
	Severity    int                `json:"severity"`
	Message     string             `json:"message"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	EvaluatedAt time.Time          `json:"evaluated_at,omitempty"`
}

// Known risk type labels. The backend may introduce new ones at any time;
// the client treats unknown labels as hazards and classifies by severity.
const (
	RiskNormal     = "normal"
	RiskDrought    = "drought"
	RiskFlood      = "flood"
	RiskCropStress = "crop_stress"
)

// Alert is a timestamped risk event tied to a field by denormalized name.
// Alerts are append-only from the client's perspective and arrive from the
// backend ordered most-recent-first.
type Alert struct {
	ID        int64     `json:"id"`
	FieldID   int64     `json:"field_id"`
	FieldName string    `json:"field_name"`
	RiskType  string    `json:"risk_type"`
	Severity  int       `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
