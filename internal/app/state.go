package app

import "github.com/agrisight/fieldwatch/internal/domain"

// State is the single source of truth for rendering: the last successfully
// fetched field and alert collections. It is owned by the Controller, which
// serializes access; State itself carries no locking so tests can construct
// and inspect it directly.
//
// Each successful fetch replaces a slice wholesale. Overlapping fetches for
// the same resource resolve last-response-wins: whichever response is applied
// later overwrites, even if it was issued earlier.
type State struct {
	Fields []domain.Field
	Alerts []domain.Alert
}

// NewState returns an empty state, as at the start of a session.
func NewState() *State {
	return &State{}
}
