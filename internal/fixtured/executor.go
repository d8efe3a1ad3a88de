package fixtured

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/generator"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/metrics"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/ndjson"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

// Executor runs dataset generations asynchronously with per-dataset
// cancellation.
type Executor struct {
	store    *DatasetStore
	registry *metrics.Registry
	log      *slog.Logger

	mu   sync.Mutex
	runs map[string]*run
	wg   sync.WaitGroup
}

// run is one generation attempt. A dataset that is stopped and submitted
// again gets a new run; the old goroutine only releases its own.
type run struct {
	cancel context.CancelFunc
}

func NewExecutor(store *DatasetStore, registry *metrics.Registry, log *slog.Logger) *Executor {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	if log == nil {
		log = logger.Default
	}
	return &Executor{
		store:    store,
		registry: registry,
		log:      log,
		runs:     make(map[string]*run),
	}
}

// Submit creates a dataset for cfg and anchor and starts generating it. An
// already known dataset is returned as is with created=false.
func (e *Executor) Submit(cfg *config.Config, anchor time.Time) (Dataset, bool, error) {
	ds, created, err := e.store.Create(cfg, anchor)
	if err != nil {
		return Dataset{}, false, err
	}
	if !created {
		return ds, false, nil
	}
	e.log.Info("dataset created", "dataset_id", ds.ID, "sessions", cfg.Sessions.Total)

	started, err := e.Start(ds.ID)
	if err != nil {
		return ds, true, err
	}
	return started, true, nil
}

// Start begins generating a pending dataset. A running dataset is returned
// unchanged.
func (e *Executor) Start(id string) (Dataset, error) {
	if id == "" {
		return Dataset{}, ErrDatasetIDMissing
	}

	ds, ok := e.store.Get(id)
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	switch {
	case ds.Status == StatusRunning:
		return ds, nil
	case ds.Status.Terminal():
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetTerminal, id)
	}

	updated, err := e.store.SetStatus(id, StatusRunning, "")
	if err != nil {
		return Dataset{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{cancel: cancel}
	e.mu.Lock()
	if old, exists := e.runs[id]; exists {
		old.cancel()
	}
	e.runs[id] = r
	e.mu.Unlock()

	e.registry.DatasetsInFlight.Inc()
	e.wg.Add(1)
	go e.generate(ctx, r, updated)
	return updated, nil
}

// Stop cancels a running dataset and marks it cancelled.
func (e *Executor) Stop(id string) (Dataset, error) {
	if id == "" {
		return Dataset{}, ErrDatasetIDMissing
	}

	e.mu.Lock()
	if r, ok := e.runs[id]; ok {
		r.cancel()
		delete(e.runs, id)
	}
	e.mu.Unlock()

	updated, err := e.store.SetStatus(id, StatusCancelled, "")
	if err != nil {
		return updated, err
	}
	e.log.Info("dataset cancelled", "dataset_id", id)
	return updated, nil
}

// Wait blocks until every started generation has returned.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Shutdown cancels every running generation and waits for them.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.runs))
	for id := range e.runs {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		if _, err := e.Stop(id); err != nil && !errors.Is(err, ErrDatasetTerminal) {
			e.log.Warn("failed to stop dataset", "dataset_id", id, "error", err)
		}
	}
	e.Wait()
}

func (e *Executor) cleanup(id string, r *run) {
	r.cancel()
	e.mu.Lock()
	if e.runs[id] == r {
		delete(e.runs, id)
	}
	e.mu.Unlock()
	e.registry.DatasetsInFlight.Dec()
	e.wg.Done()
}

// finish applies fn to the store only while r is still the dataset's
// current run.
func (e *Executor) finish(id string, r *run, fn func() error) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runs[id] != r {
		return false, nil
	}
	return true, fn()
}

func (e *Executor) generate(ctx context.Context, r *run, ds Dataset) {
	defer e.cleanup(ds.ID, r)

	log := e.log.With("dataset_id", ds.ID)
	var events, assets, status bytes.Buffer
	sinks := generator.Sinks{
		Events: ndjson.NewWriter(&events, false),
		Assets: ndjson.NewWriter(&assets, false),
		Status: ndjson.NewWriter(&status, false),
	}

	start := time.Now()
	res, err := generator.Run(ctx, ds.Config, sinks, generator.Options{
		Anchor:       ds.Anchor,
		OnWriteError: func(sink string, _ error) { e.registry.RecordWriteFailure(sink) },
	}, log)
	elapsed := time.Since(start)

	var sessions, truncated, eventCount int64
	if res != nil && res.Stats != nil {
		sessions = res.Stats.Sessions
		truncated = res.Stats.TruncatedSessions
		eventCount = res.Stats.Events
	}

	if err != nil {
		if ctx.Err() != nil {
			log.Info("generation stopped", "sessions", sessions)
			e.registry.RecordDataset(string(StatusCancelled), elapsed, sessions, truncated, eventCount)
			return
		}
		log.Error("generation failed", "error", err)
		msg := err.Error()
		current, setErr := e.finish(ds.ID, r, func() error {
			_, err := e.store.SetStatus(ds.ID, StatusFailed, msg)
			return err
		})
		if !current {
			log.Info("generation failed after dataset was stopped")
			return
		}
		if setErr != nil {
			log.Error("failed to set failed status", "error", setErr)
		}
		e.registry.RecordDataset(string(StatusFailed), elapsed, sessions, truncated, eventCount)
		return
	}

	artifacts := map[string][]byte{
		ArtifactEvents: events.Bytes(),
		ArtifactAssets: assets.Bytes(),
		ArtifactStatus: status.Bytes(),
	}
	current, err := e.finish(ds.ID, r, func() error {
		_, err := e.store.Complete(ds.ID, res, artifacts)
		return err
	})
	if !current {
		log.Info("generation finished after dataset was stopped")
		e.registry.RecordDataset(string(StatusCancelled), elapsed, sessions, truncated, eventCount)
		return
	}
	if err != nil {
		log.Warn("generation finished after dataset was stopped", "error", err)
		e.registry.RecordDataset(string(StatusCancelled), elapsed, sessions, truncated, eventCount)
		return
	}
	e.registry.RecordDataset(string(StatusCompleted), elapsed, sessions, truncated, eventCount)
	log.Info("dataset completed", "events", eventCount, "duration", elapsed)
}
