package services

import (
	"math"

	"laundry/internal/pkg/errs"
)

// Settings holds the store's pricing configuration. All money amounts are in
// dollars, all weights in pounds.
type Settings struct {
	// MinimumWeight is the weight covered by MinimumPrice.
	MinimumWeight float64

	// MinimumPrice is charged for any non-empty order up to MinimumWeight.
	MinimumPrice float64

	// PricePerPound applies to weight above MinimumWeight.
	PricePerPound float64

	// SameDayExtraPerPound is the expedite surcharge per pound.
	SameDayExtraPerPound float64

	// SameDayMinimumCharge is the floor of the expedite surcharge.
	SameDayMinimumCharge float64
}

// CatalogItem is an extra service offered by the store. Catalog items are
// collaborator-supplied and read-only to the pricing engine.
type CatalogItem struct {
	ID    string
	Name  string
	Price float64

	// PerWeightUnit triggers weight-proportional pricing when positive:
	// quantity = totalWeight / PerWeightUnit, exact and unrounded.
	PerWeightUnit float64
}

// ExtraSelection is an extra item applied to an order, with the quantity
// entered by staff (ignored for weight-proportional items) and an optional
// staff-entered total that overrides the computed line total verbatim.
type ExtraSelection struct {
	ItemID        string
	Quantity      float64
	OverrideTotal *float64
}

// QuoteInput carries the order attributes the pricing engine reads. The
// caller composes it from the order and customer aggregates; the engine
// never touches aggregate state.
type QuoteInput struct {
	BagWeights []float64
	Extras     []ExtraSelection
	IsSameDay  bool
	IsDelivery bool

	// CustomerDeliveryFee is the customer's configured fee, nil if none.
	CustomerDeliveryFee *float64

	// ManualDeliveryFee is used for delivery orders whose customer has no
	// configured fee.
	ManualDeliveryFee float64
}

// Quote is the itemized result of a pricing run.
type Quote struct {
	TotalWeight float64
	Subtotal    float64
	SameDayFee  float64
	ExtrasTotal float64
	DeliveryFee float64
	Total       float64
}

// RoundToNearestQuarter rounds a dollar amount to the nearest $0.25.
func RoundToNearestQuarter(x float64) float64 {
	return math.Round(x*4) / 4
}

// PricingEngine computes an order's total from weight, catalog extras and
// store settings. It is a pure function of its inputs: no mutation, no I/O,
// and calling it twice on unchanged inputs yields an identical result.
type PricingEngine struct{}

// NewPricingEngine creates a PricingEngine.
func NewPricingEngine() PricingEngine {
	return PricingEngine{}
}

// Quote computes the itemized total:
//
//  1. totalWeight = sum of bag weights.
//  2. laundry subtotal: MinimumPrice up to MinimumWeight, then per-pound
//     above it; zero for a zero-weight order.
//  3. same-day surcharge: weight-based with SameDayMinimumCharge as floor.
//  4. extras: weight-proportional items use exact quantity and quarter
//     rounding unless a staff override total exists; fixed-quantity items
//     are price × quantity exactly.
//  5. delivery fee for delivery orders only.
func (PricingEngine) Quote(in QuoteInput, settings Settings, catalog []CatalogItem) (Quote, error) {
	var quote Quote

	for _, w := range in.BagWeights {
		quote.TotalWeight += w
	}

	if quote.TotalWeight > 0 {
		if quote.TotalWeight <= settings.MinimumWeight {
			quote.Subtotal = settings.MinimumPrice
		} else {
			quote.Subtotal = settings.MinimumPrice +
				(quote.TotalWeight-settings.MinimumWeight)*settings.PricePerPound
		}
	}

	if in.IsSameDay {
		quote.SameDayFee = math.Max(
			quote.TotalWeight*settings.SameDayExtraPerPound,
			settings.SameDayMinimumCharge,
		)
	}

	items := make(map[string]CatalogItem, len(catalog))
	for _, item := range catalog {
		items[item.ID] = item
	}

	for _, extra := range in.Extras {
		item, ok := items[extra.ItemID]
		if !ok {
			return Quote{}, errs.NewObjectNotFoundError("catalog item", extra.ItemID)
		}

		var lineTotal float64
		switch {
		case extra.OverrideTotal != nil:
			lineTotal = *extra.OverrideTotal
		case item.PerWeightUnit > 0:
			quantity := quote.TotalWeight / item.PerWeightUnit
			lineTotal = RoundToNearestQuarter(item.Price * quantity)
		default:
			lineTotal = item.Price * extra.Quantity
		}
		quote.ExtrasTotal += lineTotal
	}

	if in.IsDelivery {
		if in.CustomerDeliveryFee != nil {
			quote.DeliveryFee = *in.CustomerDeliveryFee
		} else {
			quote.DeliveryFee = in.ManualDeliveryFee
		}
	}

	quote.Total = quote.Subtotal + quote.SameDayFee + quote.ExtrasTotal + quote.DeliveryFee
	return quote, nil
}
