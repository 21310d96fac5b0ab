// Package queries contains read-only operations in the CQRS architecture.
// Query handlers read projections straight from the database and never load
// or mutate aggregates.
package queries

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves the processing board: every order that has
// not reached a terminal status.
//
// Example:
//
//	query := NewGetActiveOrdersQuery()
//	handler := NewGetActiveOrdersQueryHandler(db)
//
//	board, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load the board: %w", err)
//	}
//	fmt.Printf("%d orders in progress\n", len(board))
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a parameterless board query.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse is one board row.
type GetActiveOrdersQueryResponse struct {
	ID            kernel.UUID
	DisplayNumber int64
	OrderType     string
	Status        string
	IsSameDay     bool
	KeepSeparated bool
	TotalAmount   float64
	IsPaid        bool
}
