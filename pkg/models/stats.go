package models

import "time"

// Aggregation represents aggregated statistics over a series of values
type Aggregation struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// HopStats summarizes the latency of one hop kind, e.g. "L0_L1"
type HopStats struct {
	Hop         string  `json:"hop"`
	Count       int64   `json:"count"`
	LatencyMean float64 `json:"latency_mean_ms"`
	LatencyP50  float64 `json:"latency_p50_ms"`
	LatencyP95  float64 `json:"latency_p95_ms"`
}

// RunStats summarizes one generation run
type RunStats struct {
	Assets            int                  `json:"assets"`
	Hotspots          []string             `json:"hotspots"`
	Edges             int                  `json:"edges"`
	MissingHops       []string             `json:"missing_hops,omitempty"`
	Sessions          int64                `json:"sessions"`
	Events            int64                `json:"events"`
	TruncatedSessions int64                `json:"truncated_sessions"`
	ForcedSessions    int64                `json:"forced_sessions"`
	SessionLength     *Aggregation         `json:"session_length,omitempty"`
	Latency           *Aggregation         `json:"latency_ms,omitempty"`
	Hops              map[string]*HopStats `json:"hops,omitempty"`
	TopAssets         []AssetVisits        `json:"top_assets,omitempty"`
	Duration          time.Duration        `json:"duration_ns"`
}

// AssetVisits is the visit count of one asset
type AssetVisits struct {
	AssetID string `json:"asset_id"`
	Visits  int64  `json:"visits"`
}
