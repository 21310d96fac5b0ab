package commands

import (
	"context"
	"fmt"
	"time"

	"laundry/internal/core/ports"
)

// ApplyCreditCommandHandler books a credit payment. The customer's ledger
// usage and the order's payment fields mutate inside one transaction, so
// the credit conservation invariant holds even when two terminals pay with
// the same balance concurrently.
type ApplyCreditCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewApplyCreditCommandHandler creates a handler for credit payments.
func NewApplyCreditCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
) ApplyCreditCommandHandler {
	return ApplyCreditCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the credit payment. Fails with
// customer.InsufficientCreditError when the balance cannot cover the amount,
// leaving both aggregates untouched.
func (h *ApplyCreditCommandHandler) Handle(ctx context.Context, cmd ApplyCreditCommand) error {
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

	customerRepo := uow.CustomerRepository()
	owner, err := customerRepo.Get(ctx, aggregate.CustomerID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	description := fmt.Sprintf("applied to order #%d", aggregate.DisplayNumber())
	if err = owner.UseCredit(cmd.Amount(), description, now); err != nil {
		return err
	}

	if err = aggregate.ApplyCreditPayment(cmd.Amount(), now); err != nil {
		return err
	}

	if err = customerRepo.Update(ctx, owner); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, aggregate.DrainEvents()...)
	return nil
}
