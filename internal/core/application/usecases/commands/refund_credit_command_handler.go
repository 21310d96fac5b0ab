package commands

import (
	"context"
	"fmt"
	"time"
)

// RefundCreditCommandHandler undoes a credit payment. The order reverts to
// unpaid and the customer's ledger gets a matching add entry for the credit
// portion, in one transaction.
type RefundCreditCommandHandler struct {
	uowFactory UoWFactory
}

// NewRefundCreditCommandHandler creates a handler for credit refunds.
func NewRefundCreditCommandHandler(uowFactory UoWFactory) RefundCreditCommandHandler {
	return RefundCreditCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the refund command.
func (h *RefundCreditCommandHandler) Handle(ctx context.Context, cmd RefundCreditCommand) error {
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

	refund, err := aggregate.RevertToUnpaid()
	if err != nil {
		return err
	}

	if refund > 0 {
		customerRepo := uow.CustomerRepository()
		owner, err := customerRepo.Get(ctx, aggregate.CustomerID())
		if err != nil {
			return err
		}

		description := fmt.Sprintf("refund from order #%d", aggregate.DisplayNumber())
		if err = owner.AddCredit(refund, description, time.Now().UTC()); err != nil {
			return err
		}

		if err = customerRepo.Update(ctx, owner); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
