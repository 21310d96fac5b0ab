package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrRecalculateOrderTotalCommandIsNotConstructed = errors.New(
	"RecalculateOrderTotalCommand must be created via NewRecalculateOrderTotalCommand constructor",
)

// RecalculateOrderTotalCommand represents a request to rerun the pricing
// engine over an order's current weights and extras and cache the result.
// Issued after intake edits (bag reweighs, extra changes).
type RecalculateOrderTotalCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	// ManualDeliveryFee is used for delivery orders whose customer has no
	// configured fee.
	manualDeliveryFee float64

	guard guard.ConstructorGuard
}

// NewRecalculateOrderTotalCommand creates a command to reprice an order.
func NewRecalculateOrderTotalCommand(
	orderID kernel.UUID,
	manualDeliveryFee float64,
) (RecalculateOrderTotalCommand, error) {
	cmd := RecalculateOrderTotalCommand{
		manualDeliveryFee: manualDeliveryFee,
		guard:             guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return RecalculateOrderTotalCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecalculateOrderTotalCommand) Validate() error {
	return c.guard.Validate(ErrRecalculateOrderTotalCommandIsNotConstructed)
}

// OrderID returns the order to reprice.
func (c RecalculateOrderTotalCommand) OrderID() kernel.UUID { return c.orderID }

// ManualDeliveryFee returns the fallback delivery fee.
func (c RecalculateOrderTotalCommand) ManualDeliveryFee() float64 { return c.manualDeliveryFee }

func (c *RecalculateOrderTotalCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
