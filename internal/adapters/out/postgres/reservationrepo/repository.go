// Package reservationrepo persists machine reservations. The table carries a
// partial unique index on machine_id for live rows, so two concurrent scans
// of the same machine race on an insert and the database picks the winner.
package reservationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

const uniqueViolationCode = "23505"

// LiveReservationIndex is the partial unique index guaranteeing at most one
// live reservation per machine. AutoMigrate cannot express partial indexes,
// so the migration runs this statement after creating the table.
const LiveReservationIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_machine_reservations_live
ON machine_reservations (machine_id) WHERE released_at IS NULL`

// ReservationDTO represents one reservation row. A released row is kept for
// the scan idempotency window rather than deleted.
type ReservationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MachineID  string    `gorm:"index"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	ReservedAt time.Time
	ReleasedAt *time.Time
}

// TableName specifies the database table name for reservation rows.
func (ReservationDTO) TableName() string {
	return "machine_reservations"
}

// GormMachineReservations implements MachineReservations using GORM.
type GormMachineReservations struct {
	db *gorm.DB
}

// NewGormMachineReservations creates a new GORM reservation store.
func NewGormMachineReservations(db *gorm.DB) *GormMachineReservations {
	return &GormMachineReservations{db: db}
}

// Reserve claims a machine for an order. The partial unique index rejects
// the insert when the machine is already held; the holder decides whether
// the failure surfaces as a duplicate scan or a busy machine.
func (r *GormMachineReservations) Reserve(
	ctx context.Context, machineID string, orderID kernel.UUID, at time.Time,
) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	dto := ReservationDTO{
		ID:         uuid.New(),
		MachineID:  machineID,
		OrderID:    orderID.Bytes(),
		ReservedAt: at,
	}

	// The insert runs in a nested transaction. When the store is bound to an
	// open transaction GORM issues a savepoint, so a unique violation aborts
	// only the insert and the holder lookup below still runs on a live
	// transaction instead of failing with "current transaction is aborted".
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}

	var holder ReservationDTO
	holderErr := r.db.WithContext(ctx).
		First(&holder, "machine_id = ? AND released_at IS NULL", machineID).Error
	if holderErr != nil {
		if errors.Is(holderErr, gorm.ErrRecordNotFound) {
			// The holder released between our insert and this lookup.
			return order.NewMachineBusyError(machineID, "unknown", orderID.String())
		}
		return holderErr
	}

	if holder.OrderID == orderID.Bytes() {
		return order.NewDuplicateScanError(machineID, orderID.String())
	}

	return order.NewMachineBusyError(machineID, holder.OrderID.String(), orderID.String())
}

// Release frees a machine held by the given order.
func (r *GormMachineReservations) Release(
	ctx context.Context, machineID string, orderID kernel.UUID, at time.Time,
) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&ReservationDTO{}).
		Where("machine_id = ? AND order_id = ? AND released_at IS NULL", machineID, orderID.Bytes()).
		Update("released_at", at).Error
}

// ReleaseAllForOrder frees every machine held by the order.
func (r *GormMachineReservations) ReleaseAllForOrder(
	ctx context.Context, orderID kernel.UUID, at time.Time,
) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&ReservationDTO{}).
		Where("order_id = ? AND released_at IS NULL", orderID.Bytes()).
		Update("released_at", at).Error
}

// FindRecentScan reports whether the same order reserved the same machine
// within the idempotency window. Released rows count: a scan right after a
// release is still a repeat of the same physical action.
func (r *GormMachineReservations) FindRecentScan(
	ctx context.Context, machineID string, orderID kernel.UUID, window time.Duration,
) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ReservationDTO{}).
		Where("machine_id = ? AND order_id = ? AND reserved_at > ?",
			machineID, orderID.Bytes(), time.Now().Add(-window)).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ReleaseStale frees live reservations whose orders already reached the
// completed status. Returns the number of reservations freed.
func (r *GormMachineReservations) ReleaseStale(ctx context.Context, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE machine_reservations SET released_at = ?
		WHERE released_at IS NULL
		  AND order_id IN (SELECT id FROM orders WHERE status = ?)`,
		at, order.StatusCompleted)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
