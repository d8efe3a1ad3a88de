package config

// Default returns the built-in configuration. Each call returns a fresh
// value, so callers may decode over it.
func Default() *Config {
	return &Config{
		Counts:   Counts{Frontends: 4, Services: 30, Databases: 8},
		Layers:   Layers{L1: 6, L2: 18, L3: 6},
		Hotspots: Hotspots{Count: 3, WeightBoost: 3.5},
		Sessions: Sessions{Total: 20000, Seed: 42, PerFrontendSkew: 0.6},
		Probabilities: Section(`{"straight":0.6,"fanOut":0.3,"fanIn":0.1,"svcToSvcExtra":0.15}`),
		LatencyMs: map[string]LatencyRange{
			HopFrontendToL1: {50, 150},
			HopL1ToL2:       {20, 200},
			HopL2ToL3:       {10, 120},
			HopL3ToDatabase: {5, 40},
		},
		Errors:      Section(`{"rate":0.015}`),
		Constraints: Section(`{"maxOutDegree":3,"crossDomainPct":0.08}`),
	}
}
