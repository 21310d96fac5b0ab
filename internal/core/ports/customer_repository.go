package ports

import (
	"context"

	"laundry/internal/core/domain/model/customer"
	"laundry/internal/core/domain/model/kernel"
)

// CustomerRepository defines the persistence contract for customer
// aggregates, including their credit ledgers.
type CustomerRepository interface {
	// Add persists a new customer aggregate to storage.
	Add(ctx context.Context, aggregate *customer.Customer) error

	// Update persists changes to an existing customer aggregate. New
	// ledger entries are appended; existing ones are never modified.
	Update(ctx context.Context, aggregate *customer.Customer) error

	// Get retrieves a customer aggregate with its full credit ledger.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)
}
