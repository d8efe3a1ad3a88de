package fixtured

import (
	"bytes"
	"fmt"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/convert"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/ndjson"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
)

// Response names served for a completed dataset
const (
	ResponseAssetDB      = convert.IndexAssetDB
	ResponseAssetStatus  = convert.IndexAssetStatus
	ResponseDependencies = "dependencies"
)

// BuildResponse converts a completed dataset's artifacts into the named
// search response.
func BuildResponse(ds Dataset, name string) (*models.SearchResponse, error) {
	switch name {
	case ResponseAssetDB:
		return catalogResponse(ds, ArtifactAssets, convert.IndexAssetDB)
	case ResponseAssetStatus:
		return catalogResponse(ds, ArtifactStatus, convert.IndexAssetStatus)
	case ResponseDependencies:
		raw, err := ds.Artifact(ArtifactEvents)
		if err != nil {
			return nil, err
		}
		events, err := ndjson.Decode[models.VisitEvent](ndjson.NewReader(bytes.NewReader(raw), false, ArtifactEvents))
		if err != nil {
			return nil, err
		}
		pairs, err := convert.CountPairs(events)
		if err != nil {
			return nil, err
		}
		return convert.DependenciesResponse(pairs)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
	}
}

func catalogResponse(ds Dataset, artifact, index string) (*models.SearchResponse, error) {
	raw, err := ds.Artifact(artifact)
	if err != nil {
		return nil, err
	}
	lines, err := ndjson.RawLines(ndjson.NewReader(bytes.NewReader(raw), false, artifact))
	if err != nil {
		return nil, err
	}
	return convert.CatalogResponse(index, lines), nil
}
