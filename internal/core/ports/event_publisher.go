package ports

import (
	"context"

	"laundry/internal/core/domain/model/order"
)

// EventPublisher pushes domain events to the message broker after a
// successful commit. Publishing is fire-and-forget: implementations log
// failures and never propagate them, so a broker outage cannot fail a
// completed workflow action.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.DomainEvent)
}
