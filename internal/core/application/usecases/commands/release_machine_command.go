package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrReleaseMachineCommandIsNotConstructed = errors.New(
	"ReleaseMachineCommand must be created via NewReleaseMachineCommand constructor",
)

// ReleaseMachineCommand represents a request to free a machine from an
// order, making it available to other orders.
type ReleaseMachineCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	machineID string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewReleaseMachineCommand creates a command to release a machine.
func NewReleaseMachineCommand(
	orderID kernel.UUID,
	machineID string,
	actor kernel.Actor,
) (ReleaseMachineCommand, error) {
	cmd := ReleaseMachineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMachineID(machineID),
		cmd.setActor(actor),
	); err != nil {
		return ReleaseMachineCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseMachineCommand) Validate() error {
	return c.guard.Validate(ErrReleaseMachineCommandIsNotConstructed)
}

// OrderID returns the order holding the machine.
func (c ReleaseMachineCommand) OrderID() kernel.UUID { return c.orderID }

// MachineID returns the machine to free.
func (c ReleaseMachineCommand) MachineID() string { return c.machineID }

// Actor returns the staff member releasing the machine.
func (c ReleaseMachineCommand) Actor() kernel.Actor { return c.actor }

func (c *ReleaseMachineCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReleaseMachineCommand) setMachineID(machineID string) error {
	if machineID == "" {
		return errs.NewValueIsRequiredError("machineID")
	}

	c.machineID = machineID
	return nil
}

func (c *ReleaseMachineCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
