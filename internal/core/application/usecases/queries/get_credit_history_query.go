package queries

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrGetCreditHistoryQueryIsNotConstructed = errors.New(
	"GetCreditHistoryQuery must be created via NewGetCreditHistoryQuery constructor",
)

// GetCreditHistoryQuery retrieves a customer's credit ledger with the live
// balance, for counter audit.
type GetCreditHistoryQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCreditHistoryQuery creates a ledger query for a customer.
func NewGetCreditHistoryQuery(customerID kernel.UUID) (GetCreditHistoryQuery, error) {
	query := GetCreditHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCustomerID(customerID); err != nil {
		return GetCreditHistoryQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCreditHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetCreditHistoryQueryIsNotConstructed)
}

// CustomerID returns the customer whose ledger is requested.
func (q GetCreditHistoryQuery) CustomerID() kernel.UUID {
	return q.customerID
}

func (q *GetCreditHistoryQuery) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	q.customerID = customerID
	return nil
}

// CreditHistoryEntry is one ledger row.
type CreditHistoryEntry struct {
	Amount      float64
	EntryType   string
	Description string
	OccurredAt  time.Time
}

// GetCreditHistoryQueryResponse carries the ledger and the live balance.
type GetCreditHistoryQueryResponse struct {
	Balance float64
	Entries []CreditHistoryEntry
}
