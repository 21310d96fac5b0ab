package commands

import (
	"context"
	"time"
)

// AdvanceDryerCommandHandler handles the per-dryer sub-steps. Step ordering
// is enforced by the assignment entity; the handler only routes the step and
// frames the transaction.
type AdvanceDryerCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAdvanceDryerCommandHandler creates a handler for dryer sub-steps.
func NewAdvanceDryerCommandHandler(uowFactory OrderUoWFactory) AdvanceDryerCommandHandler {
	return AdvanceDryerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the dryer sub-step command.
func (h *AdvanceDryerCommandHandler) Handle(ctx context.Context, cmd AdvanceDryerCommand) error {
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
	case DryerStepUnload:
		err = aggregate.UnloadDryer(cmd.MachineID(), cmd.Actor(), now)
	case DryerStepCheckUnload:
		err = aggregate.CheckDryerUnload(cmd.MachineID(), cmd.Actor(), cmd.ForceSamePerson(), now)
	case DryerStepStartFolding:
		err = aggregate.StartDryerFolding(cmd.MachineID(), cmd.Actor(), now)
	case DryerStepMarkFolded:
		err = aggregate.MarkDryerFolded(cmd.MachineID(), cmd.Actor(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
