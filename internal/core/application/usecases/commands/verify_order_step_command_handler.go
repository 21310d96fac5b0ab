package commands

import (
	"context"
	"time"

	"laundry/internal/core/ports"
)

// VerifyOrderStepCommandHandler handles the order-level verifications. Each
// step checks the two-person policy against the actor who performed the
// verified work and moves the order forward; the final check also emits the
// ready event for delivery and pickup notifications.
type VerifyOrderStepCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewVerifyOrderStepCommandHandler creates a handler for order-level
// verifications.
func NewVerifyOrderStepCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) VerifyOrderStepCommandHandler {
	return VerifyOrderStepCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the verification command.
func (h *VerifyOrderStepCommandHandler) Handle(ctx context.Context, cmd VerifyOrderStepCommand) error {
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

	now := time.Now().UTC()
	switch cmd.Step() {
	case VerifyStepTransfer:
		err = aggregate.VerifyTransfer(cmd.Actor(), cmd.ForceOverride(), now)
	case VerifyStepFoldingComplete:
		err = aggregate.VerifyFoldingComplete(cmd.Actor(), cmd.ForceOverride(), now)
	case VerifyStepFinalCheck:
		err = aggregate.FinalCheck(cmd.Actor(), cmd.ForceOverride(), now)
	}
	if err != nil {
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
