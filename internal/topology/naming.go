package topology

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
)

var (
	domains          = []string{"Finance", "CRM", "Analytics", "Payments", "Compliance"}
	frontendPrefixes = []string{"web", "mobile", "portal", "spa"}
	servicePrefixes  = []string{
		"auth", "orders", "payments", "users", "search", "report", "audit", "ledger",
		"inventory", "catalog", "profile", "notify", "gateway", "api", "calc",
	}
	databasePrefixes = []string{"orders", "users", "ledger", "crm", "audit", "events", "inventory", "catalog"}
)

const environment = "prod"

func hostname(name string, i int) string {
	return fmt.Sprintf("%s-%d.corp.local", name, i%3+1)
}

func ipAddress(index int) string {
	return fmt.Sprintf("10.%d.%d.%d", index%256, (index*3)%256, (index*7)%256)
}

func frontendAsset(index, i int) models.Asset {
	return models.Asset{
		Index:  index,
		Layer:  models.LayerFrontend,
		Type:   models.AssetTypeFrontend,
		Name:   fmt.Sprintf("%s-fe-%d", frontendPrefixes[i%len(frontendPrefixes)], i+1),
		Domain: domains[i%len(domains)],
		Env:    environment,
		Host:   hostname("fe", i),
		IP:     ipAddress(index),
	}
}

// serviceAsset names the i-th service of sub-layer k (0-based).
func serviceAsset(index, k, i int) models.Asset {
	p := servicePrefixes[(i+k*7)%len(servicePrefixes)]
	return models.Asset{
		Index:  index,
		Layer:  models.Layer(k + 1),
		Type:   models.AssetTypeService,
		Name:   fmt.Sprintf("svc-%s-%d-%d", p, k+1, i+1),
		Domain: domains[(i+k)%len(domains)],
		Env:    environment,
		Host:   hostname(p, i),
		IP:     ipAddress(index),
	}
}

func databaseAsset(index, i int) models.Asset {
	p := databasePrefixes[i%len(databasePrefixes)]
	return models.Asset{
		Index:  index,
		Layer:  models.LayerDatabase,
		Type:   models.AssetTypeDatabase,
		Name:   fmt.Sprintf("db-%s-%d", p, i+1),
		Domain: domains[i%len(domains)],
		Env:    environment,
		Host:   hostname("db", i),
		IP:     ipAddress(index),
	}
}

// CatalogRecord returns the asset-catalog line for an asset. Databases are
// listed under an application named after their prefix.
func CatalogRecord(a models.Asset) models.AssetRecord {
	application := a.Name
	if a.Type == models.AssetTypeDatabase {
		application = strings.TrimPrefix(a.Name, "db-") + "-DB"
	}
	return models.AssetRecord{
		AssetID:     a.ID,
		Service:     a.Name,
		Application: application,
		Domain:      a.Domain,
		Layer:       a.Layer,
	}
}
