package queries

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"laundry/internal/pkg/errs"
)

// GetOrderReceiptQueryHandler renders the customer receipt from the order's
// persisted rows. Financial lines come from the cached quote fields, so the
// receipt always matches what the customer was charged.
type GetOrderReceiptQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderReceiptQueryHandler creates a handler for receipt queries.
func NewGetOrderReceiptQueryHandler(db *gorm.DB) GetOrderReceiptQueryHandler {
	return GetOrderReceiptQueryHandler{db: db}
}

type receiptRow struct {
	DisplayNumber int64
	OrderType     string
	Status        string
	CustomerName  string
	IsSameDay     bool
	Subtotal      float64
	SameDayFee    float64
	DeliveryFee   float64
	TotalAmount   float64
	CreditApplied float64
	AmountPaid    float64
	IsPaid        bool
}

type receiptBagRow struct {
	Identifier string
	Weight     float64
	Color      string
}

// Handle renders the receipt text.
func (h GetOrderReceiptQueryHandler) Handle(
	ctx context.Context,
	query GetOrderReceiptQuery,
) (GetOrderReceiptQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderReceiptQueryResponse{}, err
	}

	var row receiptRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			o.display_number,
			o.order_type,
			o.status,
			c.name AS customer_name,
			o.is_same_day,
			o.subtotal,
			o.same_day_fee,
			o.delivery_fee,
			o.total_amount,
			o.credit_applied,
			o.amount_paid,
			o.is_paid
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = ?
	`, query.OrderID().String()).Scan(&row)
	if result.Error != nil {
		return GetOrderReceiptQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderReceiptQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	var bags []receiptBagRow
	if err := h.db.WithContext(ctx).Raw(`
		SELECT identifier, weight, color
		FROM bags
		WHERE order_id = ?
		ORDER BY identifier
	`, query.OrderID().String()).Scan(&bags).Error; err != nil {
		return GetOrderReceiptQueryResponse{}, err
	}

	return GetOrderReceiptQueryResponse{
		DisplayNumber: row.DisplayNumber,
		Text:          renderReceipt(row, bags),
	}, nil
}

func renderReceipt(row receiptRow, bags []receiptBagRow) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ORDER #%d\n", row.DisplayNumber)
	fmt.Fprintf(&b, "%s\n", row.CustomerName)
	fmt.Fprintf(&b, "type: %s", row.OrderType)
	if row.IsSameDay {
		b.WriteString("  SAME DAY")
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 32) + "\n")

	var totalWeight float64
	for _, bag := range bags {
		totalWeight += bag.Weight
		label := bag.Identifier
		if bag.Color != "" {
			label += " (" + bag.Color + ")"
		}
		fmt.Fprintf(&b, "bag %-18s %6.1f lb\n", label, bag.Weight)
	}
	if len(bags) > 0 {
		fmt.Fprintf(&b, "%-22s %6.1f lb\n", "total weight", totalWeight)
	}

	b.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&b, "%-20s %10.2f\n", "subtotal", row.Subtotal)
	if row.SameDayFee > 0 {
		fmt.Fprintf(&b, "%-20s %10.2f\n", "same day", row.SameDayFee)
	}
	if row.DeliveryFee > 0 {
		fmt.Fprintf(&b, "%-20s %10.2f\n", "delivery", row.DeliveryFee)
	}
	fmt.Fprintf(&b, "%-20s %10.2f\n", "TOTAL", row.TotalAmount)
	if row.CreditApplied > 0 {
		fmt.Fprintf(&b, "%-20s %10.2f\n", "credit applied", row.CreditApplied)
	}
	if row.IsPaid {
		b.WriteString("PAID\n")
	} else if due := row.TotalAmount - row.AmountPaid; due > 0 {
		fmt.Fprintf(&b, "%-20s %10.2f\n", "balance due", due)
	}

	return b.String()
}
