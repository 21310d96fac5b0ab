package commands

import (
	"errors"

	"laundry/internal/pkg/guard"
)

var ErrReleaseStaleReservationsCommandIsNotConstructed = errors.New(
	"ReleaseStaleReservationsCommand must be created via NewReleaseStaleReservationsCommand constructor",
)

// ReleaseStaleReservationsCommand triggers a sweep over machine reservations
// whose orders reached a terminal status without releasing their machines.
// Run periodically so a crashed terminal cannot hold a machine forever.
//
// Example:
//
//	cmd := NewReleaseStaleReservationsCommand()
//	handler := NewReleaseStaleReservationsCommandHandler(uowFactory)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Reservation sweep failed: %v", err)
//	}
type ReleaseStaleReservationsCommand struct {
	guard guard.ConstructorGuard
}

// NewReleaseStaleReservationsCommand creates a parameterless sweep command.
func NewReleaseStaleReservationsCommand() ReleaseStaleReservationsCommand {
	return ReleaseStaleReservationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ReleaseStaleReservationsCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStaleReservationsCommandIsNotConstructed)
}
