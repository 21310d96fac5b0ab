package commands

import (
	"context"
	"time"

	"laundry/internal/core/ports"
)

// CheckMachineCommandHandler handles the second-person verification of a
// machine assignment. The two-person policy lives in the aggregate; the
// handler frames the transaction and publishes the checked event after
// commit.
type CheckMachineCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCheckMachineCommandHandler creates a handler for machine checks.
func NewCheckMachineCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) CheckMachineCommandHandler {
	return CheckMachineCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the check command. A same-person attempt without the
// confirmed override returns order.ConfirmationRequiredError and leaves the
// assignment untouched.
func (h *CheckMachineCommandHandler) Handle(ctx context.Context, cmd CheckMachineCommand) error {
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

	if err = aggregate.CheckMachine(cmd.MachineID(), cmd.Actor(), cmd.ForceSamePerson(), time.Now().UTC()); err != nil {
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
