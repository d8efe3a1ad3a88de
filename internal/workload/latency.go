package workload

import (
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// DefaultHopLatency applies to any hop missing from the latency table.
var DefaultHopLatency = config.LatencyRange{10, 50}

// LatencyTable holds the inclusive per-hop latency ranges in milliseconds.
type LatencyTable struct {
	ranges map[string]config.LatencyRange
}

// NewLatencyTable copies ranges keyed by config.HopKey.
func NewLatencyTable(ranges map[string]config.LatencyRange) LatencyTable {
	t := LatencyTable{ranges: make(map[string]config.LatencyRange, len(ranges))}
	for k, v := range ranges {
		t.ranges[k] = v
	}
	return t
}

// Range returns the range for a hop, or DefaultHopLatency.
func (t LatencyTable) Range(from, to models.Layer) config.LatencyRange {
	if r, ok := t.ranges[config.HopKey(int(from), int(to))]; ok {
		return r
	}
	return DefaultHopLatency
}

// DatabaseRange returns the range used for forced database hops.
func (t LatencyTable) DatabaseRange() config.LatencyRange {
	return t.Range(models.LayerService3, models.LayerDatabase)
}

// Draw returns a latency for a hop using one random draw.
func (t LatencyTable) Draw(rng *utils.RandSource, from, to models.Layer) int {
	return drawRange(rng, t.Range(from, to))
}

func drawRange(rng *utils.RandSource, r config.LatencyRange) int {
	return rng.IntRange(r.Min(), r.Max())
}
