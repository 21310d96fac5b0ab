package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// TransitionOrderCommandHandler handles the business logic for status
// transitions. The domain aggregate enforces the transition table and the
// folding gate; the handler adds the transactional frame, releases all
// machine reservations when an order completes, and publishes the collected
// domain events after the commit.
type TransitionOrderCommandHandler struct {
	uowFactory ScanUoWFactory
	publisher  ports.EventPublisher
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(
	uowFactory ScanUoWFactory,
	publisher ports.EventPublisher,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the transition command. On success the status change and
// any reservation releases commit atomically; events go out afterwards,
// fire-and-forget.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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
	if err = aggregate.Transition(cmd.Target(), cmd.Actor(), now); err != nil {
		return err
	}

	if cmd.Target() == order.StatusCompleted {
		aggregate.RetireMachines(now)
		if err = uow.MachineReservations().ReleaseAllForOrder(ctx, aggregate.ID(), now); err != nil {
			return err
		}
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
