package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrCheckMachineCommandIsNotConstructed = errors.New(
	"CheckMachineCommand must be created via NewCheckMachineCommand constructor",
)

// CheckMachineCommand represents a request to verify a machine assignment.
// ForceSamePerson is set only after the client showed the confirmation
// prompt and the staff member explicitly accepted it.
type CheckMachineCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	machineID       string
	actor           kernel.Actor
	forceSamePerson bool

	guard guard.ConstructorGuard
}

// NewCheckMachineCommand creates a command to verify a machine assignment.
func NewCheckMachineCommand(
	orderID kernel.UUID,
	machineID string,
	actor kernel.Actor,
	forceSamePerson bool,
) (CheckMachineCommand, error) {
	cmd := CheckMachineCommand{
		forceSamePerson: forceSamePerson,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMachineID(machineID),
		cmd.setActor(actor),
	); err != nil {
		return CheckMachineCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckMachineCommand) Validate() error {
	return c.guard.Validate(ErrCheckMachineCommandIsNotConstructed)
}

// OrderID returns the order holding the assignment.
func (c CheckMachineCommand) OrderID() kernel.UUID { return c.orderID }

// MachineID returns the machine to check.
func (c CheckMachineCommand) MachineID() string { return c.machineID }

// Actor returns the verifying staff member.
func (c CheckMachineCommand) Actor() kernel.Actor { return c.actor }

// ForceSamePerson reports whether the same-person override was confirmed.
func (c CheckMachineCommand) ForceSamePerson() bool { return c.forceSamePerson }

func (c *CheckMachineCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CheckMachineCommand) setMachineID(machineID string) error {
	if machineID == "" {
		return errs.NewValueIsRequiredError("machineID")
	}

	c.machineID = machineID
	return nil
}

func (c *CheckMachineCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
