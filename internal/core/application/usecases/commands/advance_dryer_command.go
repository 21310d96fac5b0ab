package commands

import (
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrAdvanceDryerCommandIsNotConstructed = errors.New(
	"AdvanceDryerCommand must be created via NewAdvanceDryerCommand constructor",
)

// DryerStep is one of the per-dryer sub-steps between unloading and the
// folded state. Steps are strictly ordered per dryer; different dryers on
// the same order progress independently.
type DryerStep string

const (
	DryerStepUnload       DryerStep = "unload"
	DryerStepCheckUnload  DryerStep = "checkUnload"
	DryerStepStartFolding DryerStep = "startFolding"
	DryerStepMarkFolded   DryerStep = "markFolded"
)

// Validate checks the step is one of the four sub-steps.
func (s DryerStep) Validate() error {
	switch s {
	case DryerStepUnload, DryerStepCheckUnload, DryerStepStartFolding, DryerStepMarkFolded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("dryerStep",
			fmt.Errorf("%q is not a valid dryer step", string(s)))
	}
}

// AdvanceDryerCommand represents a request to advance one dryer assignment
// through its sub-step sequence. ForceSamePerson applies only to the
// checkUnload step, which carries the two-person policy.
type AdvanceDryerCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	machineID       string
	step            DryerStep
	actor           kernel.Actor
	forceSamePerson bool

	guard guard.ConstructorGuard
}

// NewAdvanceDryerCommand creates a command for a dryer sub-step.
func NewAdvanceDryerCommand(
	orderID kernel.UUID,
	machineID string,
	step DryerStep,
	actor kernel.Actor,
	forceSamePerson bool,
) (AdvanceDryerCommand, error) {
	cmd := AdvanceDryerCommand{
		forceSamePerson: forceSamePerson,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMachineID(machineID),
		cmd.setStep(step),
		cmd.setActor(actor),
	); err != nil {
		return AdvanceDryerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceDryerCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDryerCommandIsNotConstructed)
}

// OrderID returns the order holding the dryer assignment.
func (c AdvanceDryerCommand) OrderID() kernel.UUID { return c.orderID }

// MachineID returns the dryer to advance.
func (c AdvanceDryerCommand) MachineID() string { return c.machineID }

// Step returns the requested sub-step.
func (c AdvanceDryerCommand) Step() DryerStep { return c.step }

// Actor returns the performing staff member.
func (c AdvanceDryerCommand) Actor() kernel.Actor { return c.actor }

// ForceSamePerson reports whether the same-person override was confirmed.
func (c AdvanceDryerCommand) ForceSamePerson() bool { return c.forceSamePerson }

func (c *AdvanceDryerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AdvanceDryerCommand) setMachineID(machineID string) error {
	if machineID == "" {
		return errs.NewValueIsRequiredError("machineID")
	}

	c.machineID = machineID
	return nil
}

func (c *AdvanceDryerCommand) setStep(step DryerStep) error {
	if err := step.Validate(); err != nil {
		return err
	}

	c.step = step
	return nil
}

func (c *AdvanceDryerCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
