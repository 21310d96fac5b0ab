package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// RemindReadyOrdersCommandHandler re-emits the ready event for orders that
// stayed ready past the configured age, so the notification consumer can
// nudge the customer again. Read-only on the order side.
type RemindReadyOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	maxAge     time.Duration
}

// NewRemindReadyOrdersCommandHandler creates a handler for ready reminders.
func NewRemindReadyOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	maxAge time.Duration,
) RemindReadyOrdersCommandHandler {
	return RemindReadyOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		maxAge:     maxAge,
	}
}

// Handle processes the reminder command.
func (h *RemindReadyOrdersCommandHandler) Handle(ctx context.Context, cmd RemindReadyOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	stale, err := uow.OrderRepository().GetAllReadyBefore(ctx, now.Add(-h.maxAge))
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, aggregate := range stale {
		h.publisher.Publish(ctx,
			order.NewDeliveryReadyEvent(aggregate.ID(), aggregate.DisplayNumber(), now))
	}

	return nil
}
