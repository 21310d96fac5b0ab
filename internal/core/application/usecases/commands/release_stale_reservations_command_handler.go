package commands

import (
	"context"
	"time"
)

// ReleaseStaleReservationsCommandHandler frees reservations orphaned by
// completed orders. Returns how many rows were freed so the job can log it.
type ReleaseStaleReservationsCommandHandler struct {
	uowFactory ReservationsUoWFactory
}

// NewReleaseStaleReservationsCommandHandler creates a handler for the sweep.
func NewReleaseStaleReservationsCommandHandler(
	uowFactory ReservationsUoWFactory,
) ReleaseStaleReservationsCommandHandler {
	return ReleaseStaleReservationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the sweep command.
func (h *ReleaseStaleReservationsCommandHandler) Handle(
	ctx context.Context,
	cmd ReleaseStaleReservationsCommand,
) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	freed, err := uow.MachineReservations().ReleaseStale(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return freed, nil
}
