package models

// Layer is the tier of an asset in the fixed hierarchy.
type Layer int

const (
	LayerFrontend Layer = 0
	LayerService1 Layer = 1
	LayerService2 Layer = 2
	LayerService3 Layer = 3
	LayerDatabase Layer = 4
)

// LayerCount is the number of tiers, frontend through database.
const LayerCount = 5

// AssetType classifies an asset
type AssetType string

const (
	AssetTypeFrontend AssetType = "frontend"
	AssetTypeService  AssetType = "service"
	AssetTypeDatabase AssetType = "database"
)

// TypeForLayer returns the asset type that lives on a layer.
func TypeForLayer(l Layer) AssetType {
	switch l {
	case LayerFrontend:
		return AssetTypeFrontend
	case LayerDatabase:
		return AssetTypeDatabase
	default:
		return AssetTypeService
	}
}

// Asset is a node of the synthetic topology. Assets are immutable once built.
type Asset struct {
	ID     string    `json:"asset_id"`
	Index  int       `json:"-"`
	Layer  Layer     `json:"layer"`
	Type   AssetType `json:"type"`
	Name   string    `json:"name"`
	Domain string    `json:"domain"`
	Env    string    `json:"env"`
	Host   string    `json:"host"`
	IP     string    `json:"ip"`
}

// VisitEvent is one step of a session trace.
type VisitEvent struct {
	Timestamp string `json:"@timestamp"`
	SessionID string `json:"session_id"`
	AssetID   string `json:"asset_id"`
}

// AssetRecord is one line of the asset catalog.
type AssetRecord struct {
	AssetID     string `json:"asset_id"`
	Service     string `json:"service"`
	Application string `json:"application"`
	Domain      string `json:"domain"`
	Layer       Layer  `json:"layer"`
}

// Color is a traffic-light health color
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// KPIDetail is a single health metric of an asset.
type KPIDetail struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Color Color   `json:"color"`
}

// StatusRecord is one line of the asset status catalog.
type StatusRecord struct {
	AssetID     string      `json:"asset_id"`
	Details     []KPIDetail `json:"details"`
	StatusColor Color       `json:"statusColor"`
}
