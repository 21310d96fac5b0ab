package commands

import (
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrVerifyOrderStepCommandIsNotConstructed = errors.New(
	"VerifyOrderStepCommand must be created via NewVerifyOrderStepCommand constructor",
)

// VerifyStep names the order-level verification steps that carry the
// two-person policy.
type VerifyStep string

const (
	// VerifyStepTransfer confirms the washer-to-dryer transfer.
	VerifyStepTransfer VerifyStep = "transfer"

	// VerifyStepFoldingComplete confirms that order-level folding finished.
	VerifyStepFoldingComplete VerifyStep = "foldingComplete"

	// VerifyStepFinalCheck is the last verification before the order
	// becomes ready for pickup or delivery.
	VerifyStepFinalCheck VerifyStep = "finalCheck"
)

// Validate checks the step is one of the three verifications.
func (s VerifyStep) Validate() error {
	switch s {
	case VerifyStepTransfer, VerifyStepFoldingComplete, VerifyStepFinalCheck:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("verifyStep",
			fmt.Errorf("%q is not a valid verification step", string(s)))
	}
}

// VerifyOrderStepCommand represents an order-level verification request.
// ForceOverride is set only after the client showed the same-person
// confirmation prompt and the staff member explicitly accepted it.
type VerifyOrderStepCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	step          VerifyStep
	actor         kernel.Actor
	forceOverride bool

	guard guard.ConstructorGuard
}

// NewVerifyOrderStepCommand creates a command for an order-level verification.
func NewVerifyOrderStepCommand(
	orderID kernel.UUID,
	step VerifyStep,
	actor kernel.Actor,
	forceOverride bool,
) (VerifyOrderStepCommand, error) {
	cmd := VerifyOrderStepCommand{
		forceOverride: forceOverride,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStep(step),
		cmd.setActor(actor),
	); err != nil {
		return VerifyOrderStepCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOrderStepCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOrderStepCommandIsNotConstructed)
}

// OrderID returns the order to verify.
func (c VerifyOrderStepCommand) OrderID() kernel.UUID { return c.orderID }

// Step returns the requested verification step.
func (c VerifyOrderStepCommand) Step() VerifyStep { return c.step }

// Actor returns the verifying staff member.
func (c VerifyOrderStepCommand) Actor() kernel.Actor { return c.actor }

// ForceOverride reports whether the same-person override was confirmed.
func (c VerifyOrderStepCommand) ForceOverride() bool { return c.forceOverride }

func (c *VerifyOrderStepCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *VerifyOrderStepCommand) setStep(step VerifyStep) error {
	if err := step.Validate(); err != nil {
		return err
	}

	c.step = step
	return nil
}

func (c *VerifyOrderStepCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
