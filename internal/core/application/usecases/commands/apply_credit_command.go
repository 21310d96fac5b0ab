package commands

import (
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrApplyCreditCommandIsNotConstructed = errors.New(
	"ApplyCreditCommand must be created via NewApplyCreditCommand constructor",
)

// ApplyCreditCommand represents a request to pay part or all of an order
// with the customer's store credit.
type ApplyCreditCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  float64
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewApplyCreditCommand creates a command to apply credit to an order.
// The amount must be positive; the balance check happens in the customer
// aggregate inside the transaction.
func NewApplyCreditCommand(
	orderID kernel.UUID,
	amount float64,
	actor kernel.Actor,
) (ApplyCreditCommand, error) {
	cmd := ApplyCreditCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAmount(amount),
		cmd.setActor(actor),
	); err != nil {
		return ApplyCreditCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyCreditCommand) Validate() error {
	return c.guard.Validate(ErrApplyCreditCommandIsNotConstructed)
}

// OrderID returns the order being paid.
func (c ApplyCreditCommand) OrderID() kernel.UUID { return c.orderID }

// Amount returns the credit amount to apply.
func (c ApplyCreditCommand) Amount() float64 { return c.amount }

// Actor returns the staff member booking the payment.
func (c ApplyCreditCommand) Actor() kernel.Actor { return c.actor }

func (c *ApplyCreditCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ApplyCreditCommand) setAmount(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%v is not positive", amount))
	}

	c.amount = amount
	return nil
}

func (c *ApplyCreditCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
