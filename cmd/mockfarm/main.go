// Command mockfarm is a self-contained in-memory stand-in for the field-risk
// backend. It serves the same JSON API the dashboard client consumes, with
// simulated risk assessment, so the client can be developed and demoed
// without the real backend.
//
// Usage:
//
//	go run ./cmd/mockfarm -addr :8000 -seed-demo
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agrisight/fieldwatch/internal/domain"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	seedDemo := flag.Bool("seed-demo", false, "seed two demo fields at startup")
	flag.Parse()

	s := newStore(clockwork.NewRealClock())
	if *seedDemo {
		s.addField("Demo North Farm", 38.5816, -121.4944)
		s.addField("Demo Rift Valley", -0.0236, 37.9062)
		s.recompute()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/fields", s.handleListFields)
	mux.HandleFunc("POST /api/fields", s.handleCreateField)
	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("POST /api/recompute", s.handleRecompute)

	log.Printf("mockfarm listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

const maxStoredAlerts = 100

// store holds the mock backend's fields and alert log.
type store struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	nextFieldID int64
	nextAlertID int64
	fields      []*domain.Field
	alerts      []domain.Alert // oldest first; served newest first
}

func newStore(clock clockwork.Clock) *store {
	return &store{clock: clock, nextFieldID: 1, nextAlertID: 1}
}

func (s *store) addField(name string, lat, lon float64) *domain.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &domain.Field{
		ID:        s.nextFieldID,
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.nextFieldID++
	s.fields = append(s.fields, f)
	return f
}

// recompute runs the simulated risk assessment for every field, updating
// last_risk and appending an alert for any hazard at severity 50 or above.
func (s *store) recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	day := now.Truncate(24 * time.Hour).Unix()

	for _, f := range s.fields {
		// Deterministic per field and day so repeated recomputes within a
		// day are stable, like a real daily evaluation.
		rng := rand.New(rand.NewSource(f.ID*1_000_003 + day))
		precip := rng.Float64() * 160 // mm over the last 7 days
		soil := clamp(precip/100+rng.Float64()*0.3-0.15, 0, 1)
		ndvi := rng.Float64()*0.5 - 0.25

		risk := assessRisk(precip, soil, ndvi)
		risk.Metrics = map[string]float64{
			"precip_mm_7d":       precip,
			"soil_moisture_frac": soil,
			"ndvi_anomaly":       ndvi,
		}
		risk.EvaluatedAt = now
		f.LastRisk = &risk

		if risk.RiskType != domain.RiskNormal && risk.Severity >= 50 {
			s.alerts = append(s.alerts, domain.Alert{
				ID:        s.nextAlertID,
				FieldID:   f.ID,
				FieldName: f.Name,
				RiskType:  risk.RiskType,
				Severity:  risk.Severity,
				Message:   risk.Message,
				CreatedAt: now,
			})
			s.nextAlertID++
		}
	}

	if n := len(s.alerts); n > maxStoredAlerts {
		s.alerts = s.alerts[n-maxStoredAlerts:]
	}
}

// assessRisk applies the backend's heuristic thresholds.
func assessRisk(precip, soil, ndvi float64) domain.RiskDescriptor {
	if precip < 10 && soil < 0.3 && ndvi < -0.1 {
		sev := int(min((0.3-soil)*250+(10-precip)*3, 100))
		return domain.RiskDescriptor{
			RiskType: domain.RiskDrought,
			Severity: max(sev, 0),
			Message:  "Drought risk: very low rainfall, low soil moisture, and declining vegetation index",
		}
	}
	if precip > 120 || (precip > 80 && soil > 0.8) {
		sev := int(min((precip-80)*0.8+(soil-0.6)*200, 100))
		return domain.RiskDescriptor{
			RiskType: domain.RiskFlood,
			Severity: max(sev, 0),
			Message:  "Flood risk: heavy recent rainfall and saturated soils",
		}
	}
	if ndvi < -0.2 {
		sev := int(min(-ndvi*400, 100))
		return domain.RiskDescriptor{
			RiskType: domain.RiskCropStress,
			Severity: max(sev, 0),
			Message:  "Vegetation stress: NDVI anomaly is below normal",
		}
	}
	return domain.RiskDescriptor{
		RiskType: domain.RiskNormal,
		Severity: 0,
		Message:  "No significant risk detected",
	}
}

func (s *store) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (s *store) handleListFields(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]domain.Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = *f
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *store) handleCreateField(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name      string          `json:"name"`
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "missing field: name")
		return
	}

	lat, err1 := parseNumber(payload.Latitude)
	lon, err2 := parseNumber(payload.Longitude)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "latitude/longitude must be numbers")
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}

	f := s.addField(payload.Name, lat, lon)
	s.recompute()
	writeJSON(w, http.StatusOK, map[string]int64{"id": f.ID})
}

func (s *store) handleListAlerts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]domain.Alert, 0, len(s.alerts))
	for i := len(s.alerts) - 1; i >= 0; i-- {
		out = append(out, s.alerts[i])
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *store) handleRecompute(w http.ResponseWriter, _ *http.Request) {
	s.recompute()
	writeJSON(w, http.StatusOK, map[string]string{"status": "recomputed"})
}

func parseNumber(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, errors.New("missing")
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}
	// Accept numeric strings, as the real backend does.
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, errors.New("not a number")
	}
	if _, err := fmt.Sscanf(str, "%f", &v); err != nil {
		return 0, errors.New("not a number")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
