package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var ErrScanMachineCommandIsNotConstructed = errors.New(
	"ScanMachineCommand must be created via NewScanMachineCommand constructor",
)

// ScanMachineCommand represents a machine barcode scan against an order.
// The bag identifier is empty on the first scan; keep-separated orders with
// several candidate bags get the bag-selection branch back and repeat the
// scan with the chosen bag.
type ScanMachineCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	descriptor    order.MachineDescriptor
	bagIdentifier string
	actor         kernel.Actor

	guard guard.ConstructorGuard
}

// NewScanMachineCommand creates a command from a raw scanned barcode in
// "type:id" form.
func NewScanMachineCommand(
	orderID kernel.UUID,
	scannedCode string,
	bagIdentifier string,
	actor kernel.Actor,
) (ScanMachineCommand, error) {
	cmd := ScanMachineCommand{
		bagIdentifier: bagIdentifier,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDescriptor(scannedCode),
		cmd.setActor(actor),
	); err != nil {
		return ScanMachineCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ScanMachineCommand) Validate() error {
	return c.guard.Validate(ErrScanMachineCommandIsNotConstructed)
}

// OrderID returns the scanned order's identifier.
func (c ScanMachineCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Descriptor returns the parsed machine descriptor.
func (c ScanMachineCommand) Descriptor() order.MachineDescriptor {
	return c.descriptor
}

// BagIdentifier returns the chosen bag, empty on a first scan.
func (c ScanMachineCommand) BagIdentifier() string {
	return c.bagIdentifier
}

// Actor returns the scanning staff member.
func (c ScanMachineCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *ScanMachineCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ScanMachineCommand) setDescriptor(scannedCode string) error {
	descriptor, err := order.ParseMachineDescriptor(scannedCode)
	if err != nil {
		return err
	}

	c.descriptor = descriptor
	return nil
}

func (c *ScanMachineCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
