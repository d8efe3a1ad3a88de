package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/models"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

func values(details []models.KPIDetail) []float64 {
	out := make([]float64, len(details))
	for i, d := range details {
		out[i] = d.Value
	}
	return out
}

func TestSynthesizePinnedValues(t *testing.T) {
	rng := utils.NewRandSource(42)

	first := Synthesize(rng, 0)
	assert.Equal(t, []float64{88.0, 7.2, 98.5, 1.0}, values(first))

	second := Synthesize(rng, 11)
	assert.Equal(t, []float64{74.2, 7.3999999999999995, 90.7, 1.24}, values(second))
}

func TestSynthesizeKeysAndColors(t *testing.T) {
	rng := utils.NewRandSource(1)

	tests := []struct {
		index int
		want  []models.Color
	}{
		{0, []models.Color{models.ColorOrange, models.ColorOrange, models.ColorGreen, models.ColorOrange}},
		{1, []models.Color{models.ColorGreen, models.ColorGreen, models.ColorGreen, models.ColorGreen}},
		{11, []models.Color{models.ColorOrange, models.ColorGreen, models.ColorGreen, models.ColorGreen}},
		{13, []models.Color{models.ColorGreen, models.ColorOrange, models.ColorGreen, models.ColorGreen}},
		{17, []models.Color{models.ColorGreen, models.ColorGreen, models.ColorGreen, models.ColorOrange}},
		{143, []models.Color{models.ColorOrange, models.ColorOrange, models.ColorGreen, models.ColorGreen}},
	}
	for _, tt := range tests {
		details := Synthesize(rng, tt.index)
		require.Len(t, details, 4)
		keys := []string{details[0].Key, details[1].Key, details[2].Key, details[3].Key}
		assert.Equal(t, []string{KeyKPI1, KeyKPI2, KeyUptime, KeyErrors}, keys)
		colors := []models.Color{details[0].Color, details[1].Color, details[2].Color, details[3].Color}
		assert.Equal(t, tt.want, colors, "index %d", tt.index)
	}
}

func TestSynthesizeRanges(t *testing.T) {
	rng := utils.NewRandSource(7)
	for i := 0; i < 1000; i++ {
		v := values(Synthesize(rng, i))
		assert.InDelta(t, 85-float64(i%10), v[0], 15.0001)
		assert.InDelta(t, 7.5-float64(i%5)*0.2, v[1], 2.5001)
		assert.InDelta(t, 95-float64(i%7)*0.5, v[2], 5.0001)
		assert.InDelta(t, 0.75+float64(i%4)*0.1, v[3], 0.7501)
	}
}

func TestAggregateColor(t *testing.T) {
	detail := func(c models.Color) models.KPIDetail { return models.KPIDetail{Color: c} }

	assert.Equal(t, models.ColorGreen, AggregateColor(nil))
	assert.Equal(t, models.ColorGreen, AggregateColor([]models.KPIDetail{detail(models.ColorGreen)}))
	assert.Equal(t, models.ColorOrange, AggregateColor([]models.KPIDetail{
		detail(models.ColorGreen), detail(models.ColorOrange), detail(models.ColorGreen),
	}))
	assert.Equal(t, models.ColorRed, AggregateColor([]models.KPIDetail{
		detail(models.ColorGreen), detail(models.ColorOrange), detail(models.ColorGreen), detail(models.ColorRed),
	}))
}

func TestRecord(t *testing.T) {
	rng := utils.NewRandSource(42)
	rec := Record(rng, models.Asset{ID: "asset-0", Index: 0})
	assert.Equal(t, "asset-0", rec.AssetID)
	assert.Len(t, rec.Details, 4)
	assert.Equal(t, models.ColorOrange, rec.StatusColor)

	rec = Record(rng, models.Asset{ID: "asset-1", Index: 1})
	assert.Equal(t, models.ColorGreen, rec.StatusColor)
}
