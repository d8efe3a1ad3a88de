package fixtured

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/generator"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrDatasetTerminal  = errors.New("dataset is terminal")
	ErrDatasetNotReady  = errors.New("dataset is not completed")
	ErrUnknownArtifact  = errors.New("unknown artifact")
	ErrDatasetIDMissing = errors.New("dataset id is required")
)

// Status is the lifecycle state of a dataset
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are possible
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Artifact names, one per generated NDJSON stream
const (
	ArtifactEvents = generator.SinkEvents
	ArtifactAssets = generator.SinkAssets
	ArtifactStatus = generator.SinkStatus
)

// Dataset is a snapshot of one generated data set. Artifact bytes are never
// modified after they are stored.
type Dataset struct {
	ID              string
	Status          Status
	Config          *config.Config
	Anchor          time.Time
	CreatedAtUnixMs int64
	StartedAtUnixMs int64
	EndedAtUnixMs   int64
	Error           string
	Stats           *models.RunStats
	WriteErrors     map[string]int

	artifacts map[string][]byte
}

// Artifact returns the NDJSON bytes of one artifact
func (d Dataset) Artifact(name string) ([]byte, error) {
	switch name {
	case ArtifactEvents, ArtifactAssets, ArtifactStatus:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
	}
	if d.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: %s is %s", ErrDatasetNotReady, d.ID, d.Status)
	}
	return d.artifacts[name], nil
}

// DatasetID derives the content ID of a config and anchor pair
func DatasetID(cfg *config.Config, anchor time.Time) string {
	data := append(config.Canonical(cfg), '|')
	data = append(data, anchor.UTC().Format(time.RFC3339Nano)...)
	return utils.ContentID("ds", data)
}

// DatasetStore keeps datasets in memory, keyed by content ID
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	order    []string
	// limit caps the number of kept datasets; <= 0 means no cap
	limit int
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*Dataset),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create registers a pending dataset for cfg and anchor. When the same
// content ID is already known it is returned with created=false, unless it
// failed or was cancelled, in which case it is reset to pending.
func (s *DatasetStore) Create(cfg *config.Config, anchor time.Time) (Dataset, bool, error) {
	if cfg == nil {
		return Dataset{}, false, fmt.Errorf("config is required")
	}
	anchor = anchor.UTC().Truncate(time.Millisecond)
	id := DatasetID(cfg, anchor)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ds, ok := s.datasets[id]; ok {
		if ds.Status != StatusFailed && ds.Status != StatusCancelled {
			return *ds, false, nil
		}
		*ds = Dataset{
			ID:              id,
			Status:          StatusPending,
			Config:          ds.Config,
			Anchor:          ds.Anchor,
			CreatedAtUnixMs: nowUnixMs(),
		}
		return *ds, true, nil
	}

	ds := &Dataset{
		ID:              id,
		Status:          StatusPending,
		Config:          cfg,
		Anchor:          anchor,
		CreatedAtUnixMs: nowUnixMs(),
	}
	s.datasets[id] = ds
	s.order = append(s.order, id)
	s.evictLocked()
	return *ds, true, nil
}

// SetLimit caps the number of kept datasets. Once over the cap, the oldest
// terminal datasets are dropped; pending and running ones are never dropped.
func (s *DatasetStore) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	s.evictLocked()
}

func (s *DatasetStore) evictLocked() {
	if s.limit <= 0 || len(s.order) <= s.limit {
		return
	}
	excess := len(s.order) - s.limit
	kept := s.order[:0]
	for _, id := range s.order {
		if excess > 0 && s.datasets[id].Status.Terminal() {
			delete(s.datasets, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// Get returns a snapshot of a dataset
func (s *DatasetStore) Get(id string) (Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return Dataset{}, false
	}
	return *ds, true
}

// List returns up to limit datasets in creation order, optionally filtered
// by status. A limit <= 0 means 50.
func (s *DatasetStore) List(limit int, status Status) []Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]Dataset, 0, min(limit, len(s.order)))
	for _, id := range s.order {
		ds := s.datasets[id]
		if status != "" && ds.Status != status {
			continue
		}
		out = append(out, *ds)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// SetStatus moves a dataset to status. Terminal datasets cannot change.
func (s *DatasetStore) SetStatus(id string, status Status, errMsg string) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	if ds.Status.Terminal() {
		return *ds, fmt.Errorf("%w: %s is %s", ErrDatasetTerminal, id, ds.Status)
	}

	ds.Status = status
	if errMsg != "" {
		ds.Error = errMsg
	}

	switch status {
	case StatusRunning:
		if ds.StartedAtUnixMs == 0 {
			ds.StartedAtUnixMs = nowUnixMs()
		}
	case StatusCompleted, StatusFailed, StatusCancelled:
		ds.EndedAtUnixMs = nowUnixMs()
	}
	return *ds, nil
}

// Complete stores the outcome of a successful generation and marks the
// dataset completed, unless it was already stopped.
func (s *DatasetStore) Complete(id string, res *generator.Result, artifacts map[string][]byte) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	if ds.Status.Terminal() {
		return *ds, fmt.Errorf("%w: %s is %s", ErrDatasetTerminal, id, ds.Status)
	}

	ds.Status = StatusCompleted
	ds.EndedAtUnixMs = nowUnixMs()
	ds.artifacts = artifacts
	if res != nil {
		ds.Stats = res.Stats
		ds.WriteErrors = res.WriteErrors
	}
	return *ds, nil
}

// Len returns the number of datasets
func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
