package topology

import (
	"fmt"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// Build allocates the assets described by cfg, selects the hotspot set and
// draws one routing edge per asset of layers 0-3.
//
// Random draws happen in this order: the hotspot shuffle over all services,
// then one weighted draw per routed asset, layer by layer in enumeration
// order. A hop whose target layer is empty records no edges and consumes no
// draws.
func Build(cfg *config.Config, rng *utils.RandSource) (*Graph, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if cfg.Counts.Frontends < 0 || cfg.Counts.Databases < 0 {
		return nil, fmt.Errorf("asset counts cannot be negative")
	}
	for i, n := range cfg.Layers.Sizes() {
		if n < 0 {
			return nil, fmt.Errorf("layer L%d size cannot be negative, got %d", i+1, n)
		}
	}

	g := &Graph{
		byID:     make(map[string]int),
		hotspots: make(map[string]bool),
		boost:    cfg.Hotspots.WeightBoost,
		routes:   newRoutingTable(),
	}

	for i := 0; i < cfg.Counts.Frontends; i++ {
		g.add(frontendAsset(len(g.assets), i))
	}
	for k, n := range cfg.Layers.Sizes() {
		for i := 0; i < n; i++ {
			g.add(serviceAsset(len(g.assets), k, i))
		}
	}
	for i := 0; i < cfg.Counts.Databases; i++ {
		g.add(databaseAsset(len(g.assets), i))
	}

	g.selectHotspots(rng, cfg.Hotspots.Count)
	g.buildRoutes(rng)

	return g, nil
}

func (g *Graph) add(a models.Asset) {
	a.ID = utils.AssetID(a.Index)
	g.byID[a.ID] = len(g.assets)
	g.layers[a.Layer] = append(g.layers[a.Layer], len(g.assets))
	g.assets = append(g.assets, a)
}

func (g *Graph) selectHotspots(rng *utils.RandSource, count int) {
	var services []int
	for l := models.LayerService1; l <= models.LayerService3; l++ {
		services = append(services, g.layers[l]...)
	}
	for _, i := range rng.PickDistinct(len(services), count) {
		g.hotspots[g.assets[services[i]].ID] = true
	}
}

func (g *Graph) buildRoutes(rng *utils.RandSource) {
	for from := models.LayerFrontend; from < models.LayerDatabase; from++ {
		sources := g.layers[from]
		if len(sources) > 0 && len(g.layers[from+1]) == 0 {
			g.missing = append(g.missing, hopKey(from))
		}
		for _, idx := range sources {
			target, ok := g.PickWeighted(rng, from+1)
			if !ok {
				break
			}
			g.routes.set(g.assets[idx].ID, target.ID)
		}
	}
}

// hopKey names a hop for MissingHops.
func hopKey(from models.Layer) string {
	return config.HopKey(int(from), int(from)+1)
}
