package fixtured

import (
	"errors"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/generator"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
)

var testAnchor = time.UnixMilli(1700000000000).UTC()

func chainConfig(sessions int) *config.Config {
	cfg := config.Default()
	cfg.Counts = config.Counts{Frontends: 1, Services: 3, Databases: 1}
	cfg.Layers = config.Layers{L1: 1, L2: 1, L3: 1}
	cfg.Sessions.Total = sessions
	return cfg
}

func TestDatasetStoreCreateIsContentAddressed(t *testing.T) {
	store := NewDatasetStore()

	ds, created, err := store.Create(chainConfig(10), testAnchor)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !created {
		t.Fatalf("expected first create to report created")
	}
	if ds.Status != StatusPending {
		t.Fatalf("expected pending, got %s", ds.Status)
	}

	again, created, err := store.Create(chainConfig(10), testAnchor.Add(300*time.Microsecond))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created {
		t.Fatalf("expected same config and anchor to reuse the dataset")
	}
	if again.ID != ds.ID {
		t.Fatalf("expected id %s, got %s", ds.ID, again.ID)
	}

	other, created, err := store.Create(chainConfig(11), testAnchor)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !created || other.ID == ds.ID {
		t.Fatalf("expected a different config to create a new dataset")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 datasets, got %d", store.Len())
	}
}

func TestDatasetStoreCreateNilConfig(t *testing.T) {
	if _, _, err := NewDatasetStore().Create(nil, testAnchor); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestDatasetStoreTerminalTransitions(t *testing.T) {
	store := NewDatasetStore()
	ds, _, _ := store.Create(chainConfig(1), testAnchor)

	running, err := store.SetStatus(ds.ID, StatusRunning, "")
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if running.StartedAtUnixMs == 0 {
		t.Fatalf("expected started timestamp to be set")
	}

	failed, err := store.SetStatus(ds.ID, StatusFailed, "boom")
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if failed.Error != "boom" || failed.EndedAtUnixMs == 0 {
		t.Fatalf("unexpected failed dataset: %+v", failed)
	}

	if _, err := store.SetStatus(ds.ID, StatusRunning, ""); !errors.Is(err, ErrDatasetTerminal) {
		t.Fatalf("expected ErrDatasetTerminal, got %v", err)
	}
	if _, err := store.SetStatus("ds-missing", StatusRunning, ""); !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}

	// A failed dataset is reset when requested again.
	reset, created, err := store.Create(chainConfig(1), testAnchor)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !created || reset.Status != StatusPending || reset.Error != "" {
		t.Fatalf("expected failed dataset to be reset, got %+v", reset)
	}
}

func TestDatasetStoreCompleteAndArtifacts(t *testing.T) {
	store := NewDatasetStore()
	ds, _, _ := store.Create(chainConfig(1), testAnchor)

	if _, err := ds.Artifact(ArtifactEvents); !errors.Is(err, ErrDatasetNotReady) {
		t.Fatalf("expected ErrDatasetNotReady, got %v", err)
	}
	if _, err := ds.Artifact("metrics"); !errors.Is(err, ErrUnknownArtifact) {
		t.Fatalf("expected ErrUnknownArtifact, got %v", err)
	}

	done, err := store.Complete(ds.ID, &generator.Result{WriteErrors: map[string]int{}}, map[string][]byte{
		ArtifactEvents: []byte("{}\n"),
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	body, err := done.Artifact(ArtifactEvents)
	if err != nil {
		t.Fatalf("Artifact error: %v", err)
	}
	if string(body) != "{}\n" {
		t.Fatalf("unexpected artifact body %q", body)
	}

	if _, err := store.Complete(ds.ID, nil, nil); !errors.Is(err, ErrDatasetTerminal) {
		t.Fatalf("expected ErrDatasetTerminal on second complete, got %v", err)
	}
}

func TestDatasetStoreList(t *testing.T) {
	store := NewDatasetStore()
	var ids []string
	for i := 1; i <= 3; i++ {
		ds, _, _ := store.Create(chainConfig(i), testAnchor)
		ids = append(ids, ds.ID)
	}
	if _, err := store.SetStatus(ids[1], StatusRunning, ""); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}

	all := store.List(0, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 datasets, got %d", len(all))
	}
	for i, ds := range all {
		if ds.ID != ids[i] {
			t.Fatalf("expected creation order, got %s at %d", ds.ID, i)
		}
	}
	if got := store.List(2, ""); len(got) != 2 {
		t.Fatalf("expected limit 2, got %d", len(got))
	}
	running := store.List(10, StatusRunning)
	if len(running) != 1 || running[0].ID != ids[1] {
		t.Fatalf("expected only the running dataset, got %+v", running)
	}
}

func TestDatasetStoreLimitEvictsOldestTerminal(t *testing.T) {
	store := NewDatasetStore()
	store.SetLimit(2)

	first, _, _ := store.Create(chainConfig(1), testAnchor)
	second, _, _ := store.Create(chainConfig(2), testAnchor)
	if _, err := store.SetStatus(second.ID, StatusFailed, "boom"); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}

	// The pending first dataset is kept; the failed second one goes.
	third, _, _ := store.Create(chainConfig(3), testAnchor)
	if store.Len() != 2 {
		t.Fatalf("expected 2 datasets after eviction, got %d", store.Len())
	}
	if _, ok := store.Get(second.ID); ok {
		t.Fatalf("expected the terminal dataset to be evicted")
	}
	for _, id := range []string{first.ID, third.ID} {
		if _, ok := store.Get(id); !ok {
			t.Fatalf("expected dataset %s to be kept", id)
		}
	}

	// Nothing terminal is left, so the cap is exceeded rather than dropping
	// live datasets.
	store.Create(chainConfig(4), testAnchor)
	if store.Len() != 3 {
		t.Fatalf("expected live datasets to be kept over the cap, got %d", store.Len())
	}
	if got := store.List(0, ""); got[0].ID != first.ID || len(got) != 3 {
		t.Fatalf("unexpected order after eviction: %+v", got)
	}

	if _, err := store.SetStatus(first.ID, StatusCancelled, ""); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	store.SetLimit(2)
	if _, ok := store.Get(first.ID); ok || store.Len() != 2 {
		t.Fatalf("expected SetLimit to evict the cancelled dataset, len=%d", store.Len())
	}
}
