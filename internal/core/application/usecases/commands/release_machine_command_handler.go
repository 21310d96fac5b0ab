package commands

import (
	"context"
	"time"
)

// ReleaseMachineCommandHandler handles freeing a machine from an order. The
// soft-deleted assignment and the reservation release commit atomically, so
// the physical machine becomes claimable exactly when the order's history
// shows it released.
type ReleaseMachineCommandHandler struct {
	uowFactory ScanUoWFactory
}

// NewReleaseMachineCommandHandler creates a handler for machine releases.
func NewReleaseMachineCommandHandler(uowFactory ScanUoWFactory) ReleaseMachineCommandHandler {
	return ReleaseMachineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command. Checked assignments fail with
// order.ErrMachineStillChecked until unchecked.
func (h *ReleaseMachineCommandHandler) Handle(ctx context.Context, cmd ReleaseMachineCommand) error {
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
	if err = aggregate.ReleaseMachine(cmd.MachineID(), cmd.Actor(), now); err != nil {
		return err
	}

	if err = uow.MachineReservations().Release(ctx, cmd.MachineID(), aggregate.ID(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
