package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrRefundCreditCommandIsNotConstructed = errors.New(
	"RefundCreditCommand must be created via NewRefundCreditCommand constructor",
)

// RefundCreditCommand represents a request to undo a credit payment,
// reverting the order to unpaid and returning the credit portion to the
// customer's ledger.
type RefundCreditCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewRefundCreditCommand creates a command to refund an order's credit payment.
func NewRefundCreditCommand(orderID kernel.UUID, actor kernel.Actor) (RefundCreditCommand, error) {
	cmd := RefundCreditCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return RefundCreditCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RefundCreditCommand) Validate() error {
	return c.guard.Validate(ErrRefundCreditCommandIsNotConstructed)
}

// OrderID returns the order to revert.
func (c RefundCreditCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the staff member booking the refund.
func (c RefundCreditCommand) Actor() kernel.Actor { return c.actor }

func (c *RefundCreditCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RefundCreditCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
