package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeSettings() Settings {
	return Settings{
		MinimumWeight:        10,
		MinimumPrice:         20,
		PricePerPound:        1.50,
		SameDayExtraPerPound: 0.33,
		SameDayMinimumCharge: 5,
	}
}

func TestRoundToNearestQuarter(t *testing.T) {
	assert.InDelta(t, 7.25, RoundToNearestQuarter(7.33), 1e-9)
	assert.InDelta(t, 7.50, RoundToNearestQuarter(7.40), 1e-9)
	assert.InDelta(t, 7.25, RoundToNearestQuarter(7.125), 1e-9)
	assert.InDelta(t, 0.0, RoundToNearestQuarter(0.12), 1e-9)
	assert.InDelta(t, 10.0, RoundToNearestQuarter(10), 1e-9)
}

func TestPricingEngineQuote(t *testing.T) {
	engine := NewPricingEngine()

	t.Run("should charge the minimum price up to the minimum weight", func(t *testing.T) {
		quote, err := engine.Quote(QuoteInput{BagWeights: []float64{8}}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 20.0, quote.Subtotal, 1e-9)
		assert.InDelta(t, 20.0, quote.Total, 1e-9)
	})

	t.Run("should charge per pound above the minimum weight", func(t *testing.T) {
		quote, err := engine.Quote(QuoteInput{BagWeights: []float64{15}}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 27.50, quote.Subtotal, 1e-9)
	})

	t.Run("should sum weights across bags", func(t *testing.T) {
		quote, err := engine.Quote(QuoteInput{BagWeights: []float64{7, 8}}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 15.0, quote.TotalWeight, 1e-9)
		assert.InDelta(t, 27.50, quote.Subtotal, 1e-9)
	})

	t.Run("should quote zero subtotal for a zero weight order", func(t *testing.T) {
		quote, err := engine.Quote(QuoteInput{}, storeSettings(), nil)

		require.NoError(t, err)
		assert.Zero(t, quote.Subtotal)
		assert.Zero(t, quote.Total)
	})

	t.Run("should floor the same day surcharge", func(t *testing.T) {
		quote, err := engine.Quote(
			QuoteInput{BagWeights: []float64{10}, IsSameDay: true}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 5.0, quote.SameDayFee, 1e-9)
	})

	t.Run("should scale the same day surcharge with weight", func(t *testing.T) {
		quote, err := engine.Quote(
			QuoteInput{BagWeights: []float64{20}, IsSameDay: true}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 6.60, quote.SameDayFee, 1e-9)
	})

	t.Run("should quarter round weight proportional extras", func(t *testing.T) {
		catalog := []CatalogItem{{ID: "softener", Name: "Softener", Price: 5, PerWeightUnit: 15}}

		quote, err := engine.Quote(QuoteInput{
			BagWeights: []float64{22},
			Extras:     []ExtraSelection{{ItemID: "softener"}},
		}, storeSettings(), catalog)

		require.NoError(t, err)
		// 22/15 * $5 = $7.33..., rounded to the nearest quarter
		assert.InDelta(t, 7.25, quote.ExtrasTotal, 1e-9)
	})

	t.Run("should price fixed quantity extras exactly", func(t *testing.T) {
		catalog := []CatalogItem{{ID: "hangers", Name: "Hangers", Price: 0.30}}

		quote, err := engine.Quote(QuoteInput{
			BagWeights: []float64{8},
			Extras:     []ExtraSelection{{ItemID: "hangers", Quantity: 7}},
		}, storeSettings(), catalog)

		require.NoError(t, err)
		assert.InDelta(t, 2.10, quote.ExtrasTotal, 1e-9)
	})

	t.Run("should take a staff override total verbatim", func(t *testing.T) {
		catalog := []CatalogItem{{ID: "softener", Name: "Softener", Price: 5, PerWeightUnit: 15}}
		override := 6.99

		quote, err := engine.Quote(QuoteInput{
			BagWeights: []float64{22},
			Extras:     []ExtraSelection{{ItemID: "softener", OverrideTotal: &override}},
		}, storeSettings(), catalog)

		require.NoError(t, err)
		assert.InDelta(t, 6.99, quote.ExtrasTotal, 1e-9)
	})

	t.Run("should fail on an unknown catalog item", func(t *testing.T) {
		_, err := engine.Quote(QuoteInput{
			BagWeights: []float64{8},
			Extras:     []ExtraSelection{{ItemID: "ghost", Quantity: 1}},
		}, storeSettings(), nil)

		assert.Error(t, err)
	})

	t.Run("should prefer the customer delivery fee", func(t *testing.T) {
		fee := 4.50

		quote, err := engine.Quote(QuoteInput{
			BagWeights:          []float64{8},
			IsDelivery:          true,
			CustomerDeliveryFee: &fee,
			ManualDeliveryFee:   9,
		}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 4.50, quote.DeliveryFee, 1e-9)
	})

	t.Run("should fall back to the manual delivery fee", func(t *testing.T) {
		quote, err := engine.Quote(QuoteInput{
			BagWeights:        []float64{8},
			IsDelivery:        true,
			ManualDeliveryFee: 9,
		}, storeSettings(), nil)

		require.NoError(t, err)
		assert.InDelta(t, 9.0, quote.DeliveryFee, 1e-9)
	})

	t.Run("should skip the delivery fee for store pickup orders", func(t *testing.T) {
		fee := 4.50

		quote, err := engine.Quote(QuoteInput{
			BagWeights:          []float64{8},
			CustomerDeliveryFee: &fee,
		}, storeSettings(), nil)

		require.NoError(t, err)
		assert.Zero(t, quote.DeliveryFee)
	})

	t.Run("should total all components", func(t *testing.T) {
		catalog := []CatalogItem{{ID: "hangers", Name: "Hangers", Price: 0.30}}

		quote, err := engine.Quote(QuoteInput{
			BagWeights:        []float64{20},
			Extras:            []ExtraSelection{{ItemID: "hangers", Quantity: 5}},
			IsSameDay:         true,
			IsDelivery:        true,
			ManualDeliveryFee: 7,
		}, storeSettings(), catalog)

		require.NoError(t, err)
		assert.InDelta(t, 35.0, quote.Subtotal, 1e-9)
		assert.InDelta(t, 6.60, quote.SameDayFee, 1e-9)
		assert.InDelta(t, 1.50, quote.ExtrasTotal, 1e-9)
		assert.InDelta(t, 7.0, quote.DeliveryFee, 1e-9)
		assert.InDelta(t, 50.10, quote.Total, 1e-9)
	})

	t.Run("should be deterministic for identical inputs", func(t *testing.T) {
		input := QuoteInput{BagWeights: []float64{15}, IsSameDay: true}

		first, err := engine.Quote(input, storeSettings(), nil)
		require.NoError(t, err)
		second, err := engine.Quote(input, storeSettings(), nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
