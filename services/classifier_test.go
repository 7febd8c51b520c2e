package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshAMPT001/kind-ui/models"
)

func defaultClassifier() *Classifier {
	return NewClassifier(DefaultPriceThresholds(), DefaultRatingThresholds())
}

func TestPriceDeviationAndFlag(t *testing.T) {
	c := defaultClassifier()
	reference := f64(10.00)

	tests := []struct {
		name    string
		price   float64
		wantPct float64
		want    models.PriceFlag
	}{
		{"same price", 10.00, 0, models.PriceFair},
		{"cheaper", 8.00, -20, models.PriceFair},
		{"fifteen percent", 11.50, 15, models.PriceSlightlyHigh},
		{"exactly twenty", 12.00, 20, models.PriceSlightlyHigh},
		{"thirty percent", 13.00, 30, models.PriceHigh},
		{"exactly fifty", 15.00, 50, models.PriceHigh},
		{"sixty percent", 16.00, 60, models.PriceGouging},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, pct := PriceDeviation(f64(tt.price), reference)
			require.NotNil(t, abs)
			require.NotNil(t, pct)
			assert.InDelta(t, tt.price-10.00, *abs, 1e-9)
			assert.InDelta(t, tt.wantPct, *pct, 1e-9)

			flag := c.PriceFlag(pct)
			require.NotNil(t, flag)
			assert.Equal(t, tt.want, *flag)
		})
	}
}

func TestPriceDeviationAbsent(t *testing.T) {
	abs, pct := PriceDeviation(nil, f64(10))
	assert.Nil(t, abs)
	assert.Nil(t, pct)

	abs, pct = PriceDeviation(f64(10), nil)
	assert.Nil(t, abs)
	assert.Nil(t, pct)

	abs, pct = PriceDeviation(f64(10), f64(0))
	assert.Nil(t, abs, "zero reference must not produce a half-populated deviation")
	assert.Nil(t, pct)
}

func TestPriceFlagNil(t *testing.T) {
	assert.Nil(t, defaultClassifier().PriceFlag(nil))
}

func TestPriceFlagCustomThresholds(t *testing.T) {
	c := NewClassifier(PriceThresholds{FairMax: 5, SlightlyHighMax: 10, HighMax: 25}, DefaultRatingThresholds())

	assert.Equal(t, models.PriceFair, *c.PriceFlag(f64(5)))
	assert.Equal(t, models.PriceSlightlyHigh, *c.PriceFlag(f64(10)))
	assert.Equal(t, models.PriceGouging, *c.PriceFlag(f64(25.01)))
}

func TestRatingFlag(t *testing.T) {
	c := defaultClassifier()

	tests := []struct {
		positive float64
		want     models.RatingFlag
	}{
		{100, models.RatingExcellent},
		{90, models.RatingExcellent},
		{89.9, models.RatingGood},
		{75, models.RatingGood},
		{50, models.RatingMixed},
		{49, models.RatingPoor},
		{0, models.RatingPoor},
	}

	for _, tt := range tests {
		got := c.RatingFlag(f64(tt.positive))
		require.NotNil(t, got)
		assert.Equal(t, tt.want, *got, "RatingFlag(%.1f)", tt.positive)
	}

	assert.Nil(t, c.RatingFlag(nil))
}

func TestPriceFlagLabels(t *testing.T) {
	assert.Equal(t, "Fair Price", models.PriceFair.Label())
	assert.Equal(t, "Price Gouging", models.PriceGouging.Label())
}
