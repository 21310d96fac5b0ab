package commands

import (
	"context"

	"laundry/internal/core/domain/services"
)

// RecalculateOrderTotalCommandHandler reruns the pricing engine over an
// order and caches the quote. Settings and the extras catalog come from the
// composition root; the engine itself is pure.
type RecalculateOrderTotalCommandHandler struct {
	uowFactory UoWFactory
	engine     services.PricingEngine
	settings   services.Settings
	catalog    []services.CatalogItem
}

// NewRecalculateOrderTotalCommandHandler creates a handler for repricing.
func NewRecalculateOrderTotalCommandHandler(
	uowFactory UoWFactory,
	settings services.Settings,
	catalog []services.CatalogItem,
) RecalculateOrderTotalCommandHandler {
	return RecalculateOrderTotalCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewPricingEngine(),
		settings:   settings,
		catalog:    catalog,
	}
}

// Handle recomputes and caches the order's quote. The customer's configured
// delivery fee wins over the manual one when present.
func (h *RecalculateOrderTotalCommandHandler) Handle(ctx context.Context, cmd RecalculateOrderTotalCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	owner, err := uow.CustomerRepository().Get(ctx, aggregate.CustomerID())
	if err != nil {
		return err
	}

	input := aggregate.QuoteInput(owner.DeliveryFee(), cmd.ManualDeliveryFee())
	quote, err := h.engine.Quote(input, h.settings, h.catalog)
	if err != nil {
		return err
	}

	aggregate.ApplyQuote(quote)

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
