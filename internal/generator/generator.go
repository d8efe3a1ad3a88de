// Package generator runs one end-to-end generation: topology, sessions and
// asset catalogs, streamed to record sinks.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/metrics"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/status"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/topology"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/workload"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// Options tunes a run
type Options struct {
	// Anchor ends the session lookback window. Zero means now. It is
	// truncated to the millisecond.
	Anchor time.Time
	// Collector receives run statistics. A fresh one is used when nil.
	Collector *metrics.Collector
	// OnWriteError is called for every failed record write or close.
	OnWriteError func(sink string, err error)
}

// Result describes a finished (or cancelled) run
type Result struct {
	Anchor      time.Time
	Stats       *models.RunStats
	WriteErrors map[string]int
	Cancelled   bool
}

// Run generates one data set from cfg and streams it to sinks. Every sink is
// closed before Run returns. Write failures are logged once per sink, counted
// in the result and do not stop generation. Cancelling ctx stops the run
// between sessions; the records written so far are flushed and the error
// wraps ctx.Err().
//
// Random draws follow a fixed order: hotspots, routing, sessions, then KPIs,
// so a seed, config and anchor always produce the same bytes.
func Run(ctx context.Context, cfg *config.Config, sinks Sinks, opts Options, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = logger.Default
	}
	if opts.Collector == nil {
		opts.Collector = metrics.NewCollector()
	}

	out := newOutputs(sinks, opts.Collector, opts.OnWriteError, log)
	res, err := run(ctx, cfg, out, opts, log)
	out.close()
	if res != nil {
		res.WriteErrors = out.errorCounts()
	}
	return res, err
}

func run(ctx context.Context, cfg *config.Config, out *outputs, opts Options, log *slog.Logger) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	anchor = anchor.UTC().Truncate(time.Millisecond)

	collector := opts.Collector
	collector.Start()

	rng := utils.NewRandSource(cfg.Sessions.Seed)
	g, err := topology.Build(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build topology: %w", err)
	}

	log.Info("Topology built",
		"assets", g.Size(),
		"edges", g.Routes().Len(),
		"hotspots", g.Hotspots(),
		"seed", cfg.Sessions.Seed)
	for _, hop := range g.MissingHops() {
		log.Warn("Target layer is empty, sessions stop early", "hop", hop)
	}

	res := &Result{Anchor: anchor}

	walker, err := workload.NewWalker(g, rng, workload.WalkerOptions{
		Anchor:  anchor,
		Seed:    cfg.Sessions.Seed,
		Skew:    cfg.Sessions.PerFrontendSkew,
		Latency: workload.NewLatencyTable(cfg.LatencyMs),
	})
	switch {
	case err != nil && cfg.Sessions.Total > 0:
		log.Warn("No sessions generated", "error", err)
	case err == nil:
		for i := 0; i < cfg.Sessions.Total; i++ {
			if cerr := ctx.Err(); cerr != nil {
				collector.Stop()
				res.Cancelled = true
				res.Stats = runStats(collector, g)
				log.Info("Generation cancelled", "sessions", i, "total", cfg.Sessions.Total)
				return res, fmt.Errorf("generation cancelled after %d sessions: %w", i, cerr)
			}

			s := walker.Walk(i)
			recordSession(collector, &s)
			for _, ev := range s.Events() {
				out.write(SinkEvents, ev)
			}
		}
	}

	for _, a := range g.Assets() {
		out.write(SinkAssets, topology.CatalogRecord(a))
		out.write(SinkStatus, status.Record(rng, a))
	}

	collector.Stop()
	res.Stats = runStats(collector, g)

	log.Info("Generation complete",
		"sessions", res.Stats.Sessions,
		"events", res.Stats.Events,
		"truncated", res.Stats.TruncatedSessions,
		"forced", res.Stats.ForcedSessions,
		"assets", res.Stats.Assets,
		"duration", res.Stats.Duration)
	return res, nil
}

func recordSession(c *metrics.Collector, s *workload.Session) {
	for j, st := range s.Steps {
		metrics.RecordVisit(c, st.Asset.ID)
		if j == 0 {
			continue
		}
		hop := config.HopKey(int(s.Steps[j-1].Asset.Layer), int(st.Asset.Layer))
		if st.Forced {
			hop = config.HopL3ToDatabase
		}
		metrics.RecordHop(c, hop, st.LatencyMs)
	}
	metrics.RecordSession(c, len(s.Steps), s.Truncated(), s.Forced())
}

func runStats(c *metrics.Collector, g *topology.Graph) *models.RunStats {
	stats := metrics.ConvertToRunStats(c)
	stats.Assets = g.Size()
	stats.Hotspots = g.Hotspots()
	stats.Edges = g.Routes().Len()
	stats.MissingHops = g.MissingHops()
	return stats
}
