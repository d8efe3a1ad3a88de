// Package topology builds the synthetic asset graph that session traces walk.
//
// The graph is layered: frontends (layer 0) route to three service
// sub-layers (1-3), which route to databases (layer 4). Each asset gets at
// most one outgoing edge, chosen once by a weighted draw that favors a fixed
// set of hotspot services, and the resulting RoutingTable is shared
// read-only by every session.
//
// Main Types:
//   - Graph: the immutable asset list, hotspot set and routing table
//   - RoutingTable: the single-next-hop forwarding map
//
// Usage:
//
//	rng := utils.NewRandSource(cfg.Sessions.Seed)
//	g, err := topology.Build(cfg, rng)
//	if err != nil {
//	    return err
//	}
//	next, ok := g.Next(g.Layer(models.LayerFrontend)[0].ID)
package topology
