package workload

import (
	"fmt"
	"math"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/topology"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// Lookback is the window before the anchor in which sessions start.
const Lookback = 7 * 24 * time.Hour

// WalkerOptions configures a Walker
type WalkerOptions struct {
	// Anchor is the end of the lookback window.
	Anchor time.Time
	// Seed names the sessions; it does not reseed the random source.
	Seed int64
	// Skew concentrates traffic on the first frontends: weight (1/rank)^Skew.
	Skew    float64
	Latency LatencyTable
}

// Walker simulates sessions as walks over a graph's routing table.
type Walker struct {
	graph     *topology.Graph
	rng       *utils.RandSource
	opts      WalkerOptions
	frontends []models.Asset
	weights   []float64
	startMs   int64
	windowMs  int64
}

// NewWalker creates a walker. The graph must not have zero frontends.
func NewWalker(g *topology.Graph, rng *utils.RandSource, opts WalkerOptions) (*Walker, error) {
	frontends := g.Layer(models.LayerFrontend)
	if len(frontends) == 0 {
		return nil, fmt.Errorf("graph has no frontends to start sessions from")
	}

	weights := make([]float64, len(frontends))
	for i := range frontends {
		weights[i] = math.Pow(1.0/float64(i+1), opts.Skew)
	}

	anchorMs := opts.Anchor.UnixMilli()
	return &Walker{
		graph:     g,
		rng:       rng,
		opts:      opts,
		frontends: frontends,
		weights:   weights,
		startMs:   anchorMs - Lookback.Milliseconds(),
		windowMs:  Lookback.Milliseconds(),
	}, nil
}

// FrontendWeights returns the selection weight of each frontend by rank.
func (w *Walker) FrontendWeights() []float64 {
	return append([]float64(nil), w.weights...)
}

// Walk produces the index-th session.
//
// Draws: start offset, frontend, one latency per routed hop, and when the
// walk stalls on a service layer, a database choice and its latency.
func (w *Walker) Walk(index int) Session {
	s := Session{ID: utils.SessionID(w.opts.Seed, index)}

	ts := w.startMs + int64(math.Floor(w.rng.Float64()*float64(w.windowMs)))
	cur := w.frontends[w.rng.WeightedIndex(w.weights)]
	s.Steps = append(s.Steps, Step{Asset: cur, AtUnixMs: ts})

	for cur.Layer != models.LayerDatabase {
		next, ok := w.graph.Next(cur.ID)
		if !ok {
			break
		}
		lat := w.opts.Latency.Draw(w.rng, cur.Layer, next.Layer)
		ts += int64(lat)
		s.Steps = append(s.Steps, Step{Asset: next, AtUnixMs: ts, LatencyMs: lat})
		cur = next
	}

	// A walk that stalls on a service layer still ends at a database.
	if cur.Type == models.AssetTypeService {
		if db, ok := w.graph.PickWeighted(w.rng, models.LayerDatabase); ok {
			lat := drawRange(w.rng, w.opts.Latency.DatabaseRange())
			ts += int64(lat)
			s.Steps = append(s.Steps, Step{Asset: db, AtUnixMs: ts, LatencyMs: lat, Forced: true})
		}
	}

	return s
}
