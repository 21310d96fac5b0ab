package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders by their
// workflow state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its bags and machine assignments.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByDisplayNumber retrieves an order by its customer-facing number.
	GetByDisplayNumber(ctx context.Context, displayNumber int64) (*order.Order, error)

	// GetAllActive retrieves all orders that have not reached a terminal
	// status, for the processing board.
	GetAllActive(ctx context.Context) ([]*order.Order, error)

	// GetAllReadyBefore retrieves orders sitting in a ready status since
	// before the cutoff. Used by the pickup reminder job.
	GetAllReadyBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// NextDisplayNumber allocates the next sequential customer-facing
	// order number.
	NextDisplayNumber(ctx context.Context) (int64, error)
}
