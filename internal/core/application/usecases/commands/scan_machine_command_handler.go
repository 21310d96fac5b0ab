package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/order"
)

// ScanResult is what a scan returns to the caller: either a created
// assignment or the bag-selection branch.
type ScanResult struct {
	AssignmentID         string
	MachineID            string
	MachineType          order.MachineType
	BagIdentifier        string
	RequiresBagSelection bool
}

// ScanMachineCommandHandler handles a machine scan end to end: the
// idempotency window check, the aggregate-level assignment with its
// bag-selection branch, and the global reservation claim whose unique index
// decides the winner of concurrent scans.
type ScanMachineCommandHandler struct {
	uowFactory        ScanUoWFactory
	idempotencyWindow time.Duration
}

// NewScanMachineCommandHandler creates a handler for machine scans.
// idempotencyWindow bounds how long a repeated same-order same-machine scan
// is treated as an acknowledged duplicate.
func NewScanMachineCommandHandler(
	uowFactory ScanUoWFactory,
	idempotencyWindow time.Duration,
) ScanMachineCommandHandler {
	return ScanMachineCommandHandler{
		uowFactory:        uowFactory,
		idempotencyWindow: idempotencyWindow,
	}
}

// Handle processes the scan. The assignment row and the reservation claim
// commit atomically, so losing the reservation race leaves no assignment
// behind.
func (h *ScanMachineCommandHandler) Handle(ctx context.Context, cmd ScanMachineCommand) (ScanResult, error) {
	if err := cmd.Validate(); err != nil {
		return ScanResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ScanResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reservations := uow.MachineReservations()
	recent, err := reservations.FindRecentScan(
		ctx, cmd.Descriptor().MachineID, cmd.OrderID(), h.idempotencyWindow)
	if err != nil {
		return ScanResult{}, err
	}
	if recent {
		// A repeat inside the window is a conflict, never a second record.
		return ScanResult{}, order.NewDuplicateScanError(
			cmd.Descriptor().MachineID, cmd.OrderID().String())
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ScanResult{}, err
	}

	now := time.Now().UTC()
	outcome, err := aggregate.AssignMachine(cmd.Descriptor(), cmd.Actor(), cmd.BagIdentifier(), now)
	if err != nil {
		return ScanResult{}, err
	}

	if outcome.RequiresBagSelection {
		return ScanResult{
			MachineID:            cmd.Descriptor().MachineID,
			MachineType:          outcome.MachineType,
			RequiresBagSelection: true,
		}, nil
	}

	if err = reservations.Reserve(ctx, cmd.Descriptor().MachineID, aggregate.ID(), now); err != nil {
		return ScanResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return ScanResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ScanResult{}, err
	}

	return ScanResult{
		AssignmentID:  outcome.Assignment.ID().String(),
		MachineID:     outcome.Assignment.MachineID(),
		MachineType:   outcome.Assignment.MachineType(),
		BagIdentifier: outcome.Assignment.BagIdentifier(),
	}, nil
}
