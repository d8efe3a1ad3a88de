package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/metrics"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/ndjson"
)

// Sink names
const (
	SinkEvents = "events"
	SinkAssets = "assets"
	SinkStatus = "status"
)

// Artifact file names
const (
	EventsFile = "input.ndjson"
	AssetsFile = "asset-db.ndjson"
	StatusFile = "asset-status.ndjson"
)

// Sink receives the records of one artifact.
type Sink interface {
	Write(v any) error
	Close() error
}

// Sinks holds one sink per artifact. A nil sink discards its records.
type Sinks struct {
	Events Sink
	Assets Sink
	Status Sink
}

// FileNames returns the artifact paths under dir, with the snappy suffix
// when compress is set.
func FileNames(dir string, compress bool) (events, assets, status string) {
	suffix := ""
	if compress {
		suffix = ndjson.CompressedExt
	}
	return filepath.Join(dir, EventsFile+suffix),
		filepath.Join(dir, AssetsFile+suffix),
		filepath.Join(dir, StatusFile+suffix)
}

// CreateFileSinks creates the three artifact files under dir. If any file
// cannot be created the ones already opened are closed.
func CreateFileSinks(dir string, compress bool) (Sinks, error) {
	events, assets, status := FileNames(dir, compress)

	var opened []*ndjson.Writer
	create := func(path string) (*ndjson.Writer, error) {
		w, err := ndjson.Create(path)
		if err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return nil, err
		}
		opened = append(opened, w)
		return w, nil
	}

	ev, err := create(events)
	if err != nil {
		return Sinks{}, fmt.Errorf("failed to open events output: %w", err)
	}
	as, err := create(assets)
	if err != nil {
		return Sinks{}, fmt.Errorf("failed to open asset catalog output: %w", err)
	}
	st, err := create(status)
	if err != nil {
		return Sinks{}, fmt.Errorf("failed to open asset status output: %w", err)
	}
	return Sinks{Events: ev, Assets: as, Status: st}, nil
}

// outputs fans records out to the sinks and tracks write failures.
type outputs struct {
	sinks     map[string]Sink
	order     []string
	failures  map[string]int
	collector *metrics.Collector
	onError   func(string, error)
	log       *slog.Logger
}

func newOutputs(s Sinks, c *metrics.Collector, onError func(string, error), log *slog.Logger) *outputs {
	return &outputs{
		sinks: map[string]Sink{
			SinkEvents: s.Events,
			SinkAssets: s.Assets,
			SinkStatus: s.Status,
		},
		order:     []string{SinkEvents, SinkAssets, SinkStatus},
		failures:  make(map[string]int),
		collector: c,
		onError:   onError,
		log:       log,
	}
}

func (o *outputs) write(name string, v any) {
	s := o.sinks[name]
	if s == nil {
		return
	}
	if err := s.Write(v); err != nil {
		o.fail(name, err)
	}
}

func (o *outputs) fail(name string, err error) {
	if o.failures[name] == 0 {
		o.log.Error("Failed to write record, continuing", "sink", name, "error", err)
	}
	o.failures[name]++
	metrics.RecordWriteError(o.collector, name)
	if o.onError != nil {
		o.onError(name, err)
	}
}

func (o *outputs) close() {
	for _, name := range o.order {
		s := o.sinks[name]
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			o.fail(name, fmt.Errorf("close: %w", err))
		}
	}
}

func (o *outputs) errorCounts() map[string]int {
	out := make(map[string]int, len(o.failures))
	for k, v := range o.failures {
		out[k] = v
	}
	return out
}
