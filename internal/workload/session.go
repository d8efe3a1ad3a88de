package workload

import (
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// Step is one visit of a session.
type Step struct {
	Asset     models.Asset
	AtUnixMs  int64
	LatencyMs int // latency of the hop that led here; 0 for the frontend
	Forced    bool
}

// Session is one simulated user journey.
type Session struct {
	ID    string
	Steps []Step
}

// Truncated reports whether the session ended before reaching a database.
func (s *Session) Truncated() bool {
	if len(s.Steps) == 0 {
		return true
	}
	return s.Steps[len(s.Steps)-1].Asset.Layer != models.LayerDatabase
}

// Forced reports whether the final database hop was forced.
func (s *Session) Forced() bool {
	return len(s.Steps) > 0 && s.Steps[len(s.Steps)-1].Forced
}

// Events converts the session into visit events, in visit order.
func (s *Session) Events() []models.VisitEvent {
	out := make([]models.VisitEvent, 0, len(s.Steps))
	for _, st := range s.Steps {
		out = append(out, models.VisitEvent{
			Timestamp: utils.FormatTimestamp(st.AtUnixMs),
			SessionID: s.ID,
			AssetID:   st.Asset.ID,
		})
	}
	return out
}
