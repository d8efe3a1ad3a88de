package metrics

import (
	"sort"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
)

// Metric names recorded during a generation run
const (
	MetricHopLatency       = "hop_latency_ms"
	MetricSessionLength    = "session_length"
	MetricAssetVisits      = "asset_visits"
	MetricTruncatedSession = "session_truncated"
	MetricForcedSession    = "session_forced"
	MetricWriteErrors      = "write_errors"
)

// topAssetLimit bounds RunStats.TopAssets
const topAssetLimit = 10

// RecordHop records the latency of one hop, labelled by hop key
func RecordHop(collector *Collector, hop string, latencyMs int) {
	collector.Record(MetricHopLatency, float64(latencyMs), CreateHopLabels(hop))
}

// RecordVisit counts one visit of an asset
func RecordVisit(collector *Collector, assetID string) {
	collector.Record(MetricAssetVisits, 1, CreateAssetLabels(assetID))
}

// RecordSession records the length and outcome of one session
func RecordSession(collector *Collector, events int, truncated, forced bool) {
	collector.Record(MetricSessionLength, float64(events), nil)
	if truncated {
		collector.Record(MetricTruncatedSession, 1, nil)
	}
	if forced {
		collector.Record(MetricForcedSession, 1, nil)
	}
}

// RecordWriteError counts a failed record write for a sink
func RecordWriteError(collector *Collector, sink string) {
	collector.Record(MetricWriteErrors, 1, map[string]string{"sink": sink})
}

// CreateHopLabels creates a labels map for a hop key
func CreateHopLabels(hop string) map[string]string {
	return map[string]string{
		"hop": hop,
	}
}

// CreateAssetLabels creates a labels map for an asset
func CreateAssetLabels(assetID string) map[string]string {
	return map[string]string{
		"asset": assetID,
	}
}

// ConvertToRunStats fills the session-derived fields of a RunStats from the
// collector. Graph-derived fields are left to the caller.
func ConvertToRunStats(collector *Collector) *models.RunStats {
	stats := &models.RunStats{
		Sessions:          collector.Count(MetricSessionLength, nil),
		TruncatedSessions: collector.Count(MetricTruncatedSession, nil),
		ForcedSessions:    collector.Count(MetricForcedSession, nil),
		Events:            int64(collector.Sum(MetricSessionLength, nil)),
		SessionLength:     collector.Aggregation(MetricSessionLength, nil),
		Latency:           collector.AggregateAll(MetricHopLatency),
		Duration:          collector.Duration(),
	}

	for _, labels := range collector.Labels(MetricHopLatency) {
		agg := collector.Aggregation(MetricHopLatency, labels)
		if agg == nil {
			continue
		}
		if stats.Hops == nil {
			stats.Hops = make(map[string]*models.HopStats)
		}
		hop := labels["hop"]
		stats.Hops[hop] = &models.HopStats{
			Hop:         hop,
			Count:       agg.Count,
			LatencyMean: agg.Mean,
			LatencyP50:  agg.P50,
			LatencyP95:  agg.P95,
		}
	}

	var visits []models.AssetVisits
	for _, labels := range collector.Labels(MetricAssetVisits) {
		visits = append(visits, models.AssetVisits{
			AssetID: labels["asset"],
			Visits:  collector.Count(MetricAssetVisits, labels),
		})
	}
	sort.SliceStable(visits, func(i, j int) bool {
		if visits[i].Visits != visits[j].Visits {
			return visits[i].Visits > visits[j].Visits
		}
		return visits[i].AssetID < visits[j].AssetID
	})
	if len(visits) > topAssetLimit {
		visits = visits[:topAssetLimit]
	}
	stats.TopAssets = visits

	return stats
}
