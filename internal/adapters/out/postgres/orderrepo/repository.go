package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database, replacing its bag,
// machine assignment and extras rows with the aggregate's current state.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	var existing int64
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing == 0 {
		return gorm.ErrRecordNotFound
	}

	// Child rows are replaced wholesale. Save with FullSaveAssociations keeps
	// updated children in sync but never deletes removed ones, so the
	// collections are cleared first.
	for _, model := range []any{&BagDTO{}, &MachineAssignmentDTO{}, &ExtraUsageDTO{}} {
		if err := r.db.WithContext(ctx).Where("order_id = ?", dto.ID).Delete(model).Error; err != nil {
			return err
		}
	}

	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with all its child collections. The order
// row is locked for the duration of the surrounding transaction so that
// concurrent read-modify-write cycles serialize instead of clobbering each
// other's child rows on Update.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByDisplayNumber retrieves an order by its human-facing number.
func (r *GormOrderRepository) GetByDisplayNumber(ctx context.Context, displayNumber int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "display_number = ?", displayNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", displayNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves all orders that have not been completed.
func (r *GormOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("status != ?", order.StatusCompleted).
		Order("display_number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllReadyBefore retrieves orders sitting in a ready status whose final
// check happened before the cutoff.
func (r *GormOrderRepository) GetAllReadyBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("status IN ?", []order.Status{order.StatusReadyForPickup, order.StatusReadyForDelivery}).
		Where("final_checked_at < ?", cutoff).
		Order("final_checked_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// NextDisplayNumber reserves the next human-facing order number.
func (r *GormOrderRepository) NextDisplayNumber(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(display_number), 0) + 1 FROM orders").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}

	return next, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Bags").
		Preload("Machines").
		Preload("Extras")
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
