// Package status synthesizes per-asset health metrics.
package status

import (
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

// KPI keys, in emission order.
const (
	KeyKPI1   = "KPI1"
	KeyKPI2   = "KPI2"
	KeyUptime = "Uptime"
	KeyErrors = "Errors"
)

// Synthesize returns the four health metrics of the asset at index, drawing
// one value per metric. Colors depend only on the index: KPI1 is orange for
// multiples of 11, KPI2 for multiples of 13, Errors for multiples of 17, and
// Uptime is always green.
func Synthesize(rng *utils.RandSource, index int) []models.KPIDetail {
	// Products are converted explicitly so they are never fused into an FMA.
	return []models.KPIDetail{
		{
			Key:   KeyKPI1,
			Value: rng.RoundedRange(70, 100, 1) - float64(index%10),
			Color: orangeEvery(index, 11),
		},
		{
			Key:   KeyKPI2,
			Value: rng.RoundedRange(5, 10, 1) - float64(float64(index%5)*0.2),
			Color: orangeEvery(index, 13),
		},
		{
			Key:   KeyUptime,
			Value: rng.RoundedRange(90, 100, 1) - float64(float64(index%7)*0.5),
			Color: models.ColorGreen,
		},
		{
			Key:   KeyErrors,
			Value: rng.RoundedRange(0, 1.5, 2) + float64(float64(index%4)*0.1),
			Color: orangeEvery(index, 17),
		},
	}
}

func orangeEvery(index, n int) models.Color {
	if index%n == 0 {
		return models.ColorOrange
	}
	return models.ColorGreen
}

// AggregateColor returns the worst color of details: red, then orange,
// then green.
func AggregateColor(details []models.KPIDetail) models.Color {
	worst := models.ColorGreen
	for _, d := range details {
		switch d.Color {
		case models.ColorRed:
			return models.ColorRed
		case models.ColorOrange:
			worst = models.ColorOrange
		}
	}
	return worst
}

// Record builds the status catalog line of an asset.
func Record(rng *utils.RandSource, asset models.Asset) models.StatusRecord {
	details := Synthesize(rng, asset.Index)
	return models.StatusRecord{
		AssetID:     asset.ID,
		Details:     details,
		StatusColor: AggregateColor(details),
	}
}
