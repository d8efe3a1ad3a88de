// Package convert reshapes generated NDJSON artifacts into search-engine
// style query responses used as dashboard fixtures.
package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/ndjson"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// Index names of the produced hits
const (
	IndexAssetDB           = "asset-db"
	IndexAssetStatus       = "asset-status"
	IndexAssetDependencies = "asset-dependencies"
)

// Response file names. The dependencies name keeps the spelling the
// dashboard fixtures already load.
const (
	AssetDBResponseFile      = "asset-db-response.json"
	AssetStatusResponseFile  = "asset-status-response.json"
	DependenciesResponseFile = "asset-dependencies-responce.json"
)

// PairSeparator joins the two asset IDs of a dependency pair.
const PairSeparator = "---"

// CatalogResponse wraps each catalog line as a hit of index, keyed by its
// 0-based line number. Lines pass through unchanged.
func CatalogResponse(index string, lines []json.RawMessage) *models.SearchResponse {
	hits := make([]models.Hit, len(lines))
	for i, l := range lines {
		hits[i] = models.Hit{
			Index:  index,
			ID:     strconv.Itoa(i),
			Score:  1,
			Source: l,
		}
	}
	return models.NewSearchResponse(hits)
}

// PairCount is the number of times one asset directly followed another
// within a session.
type PairCount struct {
	Pair  string
	Count int
}

// CountPairs groups events by session, orders each session by timestamp
// (stable for ties) and counts adjacent asset pairs. Pairs are returned in
// first-seen order, walking sessions in first-seen order.
func CountPairs(events []models.VisitEvent) ([]PairCount, error) {
	type timed struct {
		at    int64
		asset string
	}

	bySession := make(map[string][]timed)
	var sessions []string
	for i, ev := range events {
		at, err := utils.ParseTimestamp(ev.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if _, ok := bySession[ev.SessionID]; !ok {
			sessions = append(sessions, ev.SessionID)
		}
		bySession[ev.SessionID] = append(bySession[ev.SessionID], timed{at: at, asset: ev.AssetID})
	}

	index := make(map[string]int)
	var out []PairCount
	for _, id := range sessions {
		evs := bySession[id]
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].at < evs[j].at })
		for j := 1; j < len(evs); j++ {
			pair := evs[j-1].asset + PairSeparator + evs[j].asset
			if k, ok := index[pair]; ok {
				out[k].Count++
				continue
			}
			index[pair] = len(out)
			out = append(out, PairCount{Pair: pair, Count: 1})
		}
	}
	return out, nil
}

// DependenciesResponse turns pair counts into asset-dependencies hits.
func DependenciesResponse(pairs []PairCount) (*models.SearchResponse, error) {
	hits := make([]models.Hit, len(pairs))
	for i, p := range pairs {
		src, err := json.Marshal(models.DependencySource{
			SessionID:  models.ValueCountBucket{ValueCount: p.Count},
			AssetPairs: p.Pair,
		})
		if err != nil {
			return nil, err
		}
		hits[i] = models.Hit{
			Index:  IndexAssetDependencies,
			ID:     p.Pair,
			Score:  1,
			Source: src,
		}
	}
	return models.NewSearchResponse(hits), nil
}

// Encode writes r as JSON indented by two spaces.
func Encode(w io.Writer, r *models.SearchResponse) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Inputs names the three artifact files to convert.
type Inputs struct {
	Events string
	Assets string
	Status string
}

// Outputs names the three response files.
type Outputs struct {
	AssetDB      string
	AssetStatus  string
	Dependencies string
}

// DefaultOutputs returns the response paths under dir.
func DefaultOutputs(dir string) Outputs {
	return Outputs{
		AssetDB:      filepath.Join(dir, AssetDBResponseFile),
		AssetStatus:  filepath.Join(dir, AssetStatusResponseFile),
		Dependencies: filepath.Join(dir, DependenciesResponseFile),
	}
}

// Summary reports the hit count of each response
type Summary struct {
	Assets       int
	Statuses     int
	Dependencies int
}

// Files converts the artifacts named by in and writes the three responses.
func Files(in Inputs, out Outputs) (*Summary, error) {
	assets, err := readLines(in.Assets)
	if err != nil {
		return nil, err
	}
	if err := writeResponse(out.AssetDB, CatalogResponse(IndexAssetDB, assets)); err != nil {
		return nil, err
	}

	statuses, err := readLines(in.Status)
	if err != nil {
		return nil, err
	}
	if err := writeResponse(out.AssetStatus, CatalogResponse(IndexAssetStatus, statuses)); err != nil {
		return nil, err
	}

	events, err := ndjson.ReadAll[models.VisitEvent](in.Events)
	if err != nil {
		return nil, err
	}
	pairs, err := CountPairs(events)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Events, err)
	}
	deps, err := DependenciesResponse(pairs)
	if err != nil {
		return nil, err
	}
	if err := writeResponse(out.Dependencies, deps); err != nil {
		return nil, err
	}

	return &Summary{Assets: len(assets), Statuses: len(statuses), Dependencies: len(pairs)}, nil
}

func readLines(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ndjson.RawLines(ndjson.NewReader(f, ndjson.IsCompressed(path), path))
}

func writeResponse(path string, r *models.SearchResponse) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
