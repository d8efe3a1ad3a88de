package topology

import (
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// Graph is the layered asset topology. All accessors are read-only.
type Graph struct {
	assets   []models.Asset
	byID     map[string]int
	layers   [models.LayerCount][]int
	hotspots map[string]bool
	boost    float64
	routes   *RoutingTable
	missing  []string
}

// Assets returns every asset in enumeration order.
func (g *Graph) Assets() []models.Asset {
	out := make([]models.Asset, len(g.assets))
	copy(out, g.assets)
	return out
}

// Size returns the number of assets
func (g *Graph) Size() int {
	return len(g.assets)
}

// Asset returns an asset by ID
func (g *Graph) Asset(id string) (models.Asset, bool) {
	i, ok := g.byID[id]
	if !ok {
		return models.Asset{}, false
	}
	return g.assets[i], true
}

// Layer returns the assets of one layer in enumeration order.
func (g *Graph) Layer(l models.Layer) []models.Asset {
	if l < 0 || int(l) >= models.LayerCount {
		return nil
	}
	out := make([]models.Asset, 0, len(g.layers[l]))
	for _, i := range g.layers[l] {
		out = append(out, g.assets[i])
	}
	return out
}

// IsHotspot reports whether an asset is in the hotspot set
func (g *Graph) IsHotspot(id string) bool {
	return g.hotspots[id]
}

// Hotspots returns the hotspot IDs in enumeration order.
func (g *Graph) Hotspots() []string {
	out := make([]string, 0, len(g.hotspots))
	for _, a := range g.assets {
		if g.hotspots[a.ID] {
			out = append(out, a.ID)
		}
	}
	return out
}

// Routes returns the routing table
func (g *Graph) Routes() *RoutingTable {
	return g.routes
}

// Next returns the routing target of an asset, if it has one.
func (g *Graph) Next(id string) (models.Asset, bool) {
	to, ok := g.routes.Next(id)
	if !ok {
		return models.Asset{}, false
	}
	return g.Asset(to)
}

// MissingHops lists the hops ("L1_L2", ...) that got no edges because the
// target layer is empty while the source layer is not.
func (g *Graph) MissingHops() []string {
	return append([]string(nil), g.missing...)
}

// PickWeighted chooses one asset of a layer with a single draw, weighting
// hotspots by the configured boost. It returns false without drawing when
// the layer is empty.
func (g *Graph) PickWeighted(rng *utils.RandSource, l models.Layer) (models.Asset, bool) {
	if l < 0 || int(l) >= models.LayerCount {
		return models.Asset{}, false
	}
	candidates := g.layers[l]
	if len(candidates) == 0 {
		return models.Asset{}, false
	}
	weights := make([]float64, len(candidates))
	for i, idx := range candidates {
		weights[i] = 1
		if g.hotspots[g.assets[idx].ID] {
			weights[i] = g.boost
		}
	}
	return g.assets[candidates[rng.WeightedIndex(weights)]], true
}
