package commands

import (
	"context"
)

// UncheckMachineCommandHandler handles clearing a machine assignment's
// verification.
type UncheckMachineCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUncheckMachineCommandHandler creates a handler for machine unchecks.
func NewUncheckMachineCommandHandler(uowFactory OrderUoWFactory) UncheckMachineCommandHandler {
	return UncheckMachineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the uncheck command.
func (h *UncheckMachineCommandHandler) Handle(ctx context.Context, cmd UncheckMachineCommand) error {
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

	if err = aggregate.UncheckMachine(cmd.MachineID(), cmd.Actor()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
