package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// MachineReservations enforces global machine exclusivity across orders.
// A machine has at most one live reservation at any moment; the winner of
// two concurrent scans is decided by the storage layer, not in memory.
type MachineReservations interface {
	// Reserve claims a machine for an order. When the machine is already
	// held it fails with order.MachineBusyError naming the holder, or with
	// order.DuplicateScanError when the holder is the same order.
	Reserve(ctx context.Context, machineID string, orderID kernel.UUID, at time.Time) error

	// Release frees a machine held by the given order.
	Release(ctx context.Context, machineID string, orderID kernel.UUID, at time.Time) error

	// ReleaseAllForOrder frees every machine held by the order. Used when
	// an order completes.
	ReleaseAllForOrder(ctx context.Context, orderID kernel.UUID, at time.Time) error

	// FindRecentScan reports whether the same order scanned the same
	// machine within the idempotency window.
	FindRecentScan(ctx context.Context, machineID string, orderID kernel.UUID, window time.Duration) (bool, error)

	// ReleaseStale frees reservations whose orders reached a terminal
	// status without releasing their machines. Returns the number freed.
	ReleaseStale(ctx context.Context, at time.Time) (int64, error)
}
