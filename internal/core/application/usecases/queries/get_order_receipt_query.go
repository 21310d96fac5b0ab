package queries

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrGetOrderReceiptQueryIsNotConstructed = errors.New(
	"GetOrderReceiptQuery must be created via NewGetOrderReceiptQuery constructor",
)

// GetOrderReceiptQuery renders the receipt text for one order. The printer
// gateway consumes the text as-is; byte encoding and transport stay outside
// this module.
type GetOrderReceiptQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderReceiptQuery creates a receipt query for an order.
func NewGetOrderReceiptQuery(orderID kernel.UUID) (GetOrderReceiptQuery, error) {
	query := GetOrderReceiptQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderReceiptQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderReceiptQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderReceiptQueryIsNotConstructed)
}

// OrderID returns the order to print.
func (q GetOrderReceiptQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderReceiptQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderReceiptQueryResponse carries the rendered receipt.
type GetOrderReceiptQueryResponse struct {
	DisplayNumber int64
	Text          string
}
