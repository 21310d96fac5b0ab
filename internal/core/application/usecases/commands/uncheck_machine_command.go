package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrUncheckMachineCommandIsNotConstructed = errors.New(
	"UncheckMachineCommand must be created via NewUncheckMachineCommand constructor",
)

// UncheckMachineCommand represents a request to clear a machine
// assignment's verification. Always permitted as a corrective action.
type UncheckMachineCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	machineID string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewUncheckMachineCommand creates a command to uncheck a machine assignment.
func NewUncheckMachineCommand(
	orderID kernel.UUID,
	machineID string,
	actor kernel.Actor,
) (UncheckMachineCommand, error) {
	cmd := UncheckMachineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMachineID(machineID),
		cmd.setActor(actor),
	); err != nil {
		return UncheckMachineCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UncheckMachineCommand) Validate() error {
	return c.guard.Validate(ErrUncheckMachineCommandIsNotConstructed)
}

// OrderID returns the order holding the assignment.
func (c UncheckMachineCommand) OrderID() kernel.UUID { return c.orderID }

// MachineID returns the machine to uncheck.
func (c UncheckMachineCommand) MachineID() string { return c.machineID }

// Actor returns the staff member performing the correction.
func (c UncheckMachineCommand) Actor() kernel.Actor { return c.actor }

func (c *UncheckMachineCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UncheckMachineCommand) setMachineID(machineID string) error {
	if machineID == "" {
		return errs.NewValueIsRequiredError("machineID")
	}

	c.machineID = machineID
	return nil
}

func (c *UncheckMachineCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
