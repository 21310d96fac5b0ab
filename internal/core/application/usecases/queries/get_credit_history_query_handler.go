package queries

import (
	"context"

	"gorm.io/gorm"

	"laundry/internal/pkg/errs"
)

// GetCreditHistoryQueryHandler reads a customer's ledger in booking order
// plus the cached balance.
type GetCreditHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetCreditHistoryQueryHandler creates a handler for ledger queries.
func NewGetCreditHistoryQueryHandler(db *gorm.DB) GetCreditHistoryQueryHandler {
	return GetCreditHistoryQueryHandler{db: db}
}

// Handle executes the ledger query.
func (h GetCreditHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetCreditHistoryQuery,
) (GetCreditHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCreditHistoryQueryResponse{}, err
	}

	var balanceRow struct {
		CreditBalance float64
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT credit_balance
		FROM customers
		WHERE id = ?
	`, query.CustomerID().String()).Scan(&balanceRow)
	if result.Error != nil {
		return GetCreditHistoryQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetCreditHistoryQueryResponse{}, errs.NewObjectNotFoundError(
			"customer", query.CustomerID().String())
	}

	entries := make([]CreditHistoryEntry, 0)
	if err := h.db.WithContext(ctx).Raw(`
		SELECT amount, entry_type, description, occurred_at
		FROM credit_entries
		WHERE customer_id = ?
		ORDER BY occurred_at, id
	`, query.CustomerID().String()).Scan(&entries).Error; err != nil {
		return GetCreditHistoryQueryResponse{}, err
	}

	return GetCreditHistoryQueryResponse{
		Balance: balanceRow.CreditBalance,
		Entries: entries,
	}, nil
}
