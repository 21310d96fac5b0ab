package commands

import (
	"errors"

	"laundry/internal/pkg/guard"
)

var ErrRemindReadyOrdersCommandIsNotConstructed = errors.New(
	"RemindReadyOrdersCommand must be created via NewRemindReadyOrdersCommand constructor",
)

// RemindReadyOrdersCommand triggers reminder events for orders that have
// been sitting in a ready status longer than the configured age.
//
// Example:
//
//	cmd := NewRemindReadyOrdersCommand()
//	handler := NewRemindReadyOrdersCommandHandler(uowFactory, publisher, 2*time.Hour)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Ready reminder run failed: %v", err)
//	}
type RemindReadyOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewRemindReadyOrdersCommand creates a parameterless reminder command.
func NewRemindReadyOrdersCommand() RemindReadyOrdersCommand {
	return RemindReadyOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RemindReadyOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRemindReadyOrdersCommandIsNotConstructed)
}
