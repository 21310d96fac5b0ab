package order

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// DomainEvent is a fact about an order that already happened. Events are
// collected on the aggregate while a command executes and published to the
// notification dispatcher only after the surrounding transaction commits;
// delivery failure never rolls back or retries the state mutation.
type DomainEvent interface {
	// Kind is the routing key used by the event publisher.
	Kind() string

	// OccurredAt is when the change was applied to the aggregate.
	OccurredAt() time.Time
}

// StatusChangedEvent signals that the order moved to a new process status.
type StatusChangedEvent struct {
	OrderID    kernel.UUID
	From       Status
	To         Status
	ActorID    string
	occurredAt time.Time
}

func (e StatusChangedEvent) Kind() string          { return "order.status_changed" }
func (e StatusChangedEvent) OccurredAt() time.Time { return e.occurredAt }

// MachineCheckedEvent signals that a machine assignment passed verification.
type MachineCheckedEvent struct {
	OrderID    kernel.UUID
	MachineID  string
	CheckedBy  string
	occurredAt time.Time
}

func (e MachineCheckedEvent) Kind() string          { return "order.machine_checked" }
func (e MachineCheckedEvent) OccurredAt() time.Time { return e.occurredAt }

// PaymentReceivedEvent signals that the order became fully paid.
type PaymentReceivedEvent struct {
	OrderID    kernel.UUID
	Amount     float64
	Method     string
	occurredAt time.Time
}

func (e PaymentReceivedEvent) Kind() string          { return "order.payment_received" }
func (e PaymentReceivedEvent) OccurredAt() time.Time { return e.occurredAt }

// DeliveryReadyEvent signals that the order is waiting for handoff, either
// at the counter or on the delivery rack.
type DeliveryReadyEvent struct {
	OrderID       kernel.UUID
	DisplayNumber int64
	occurredAt    time.Time
}

func (e DeliveryReadyEvent) Kind() string          { return "order.delivery_ready" }
func (e DeliveryReadyEvent) OccurredAt() time.Time { return e.occurredAt }

// OrderPickedUpEvent signals that a delivery order was collected from the
// customer's address.
type OrderPickedUpEvent struct {
	OrderID    kernel.UUID
	ActorID    string
	occurredAt time.Time
}

func (e OrderPickedUpEvent) Kind() string          { return "order.picked_up" }
func (e OrderPickedUpEvent) OccurredAt() time.Time { return e.occurredAt }

// NewDeliveryReadyEvent creates a delivery-ready reminder event. The
// ready-order reminder job emits these outside the aggregate.
func NewDeliveryReadyEvent(orderID kernel.UUID, displayNumber int64, at time.Time) DeliveryReadyEvent {
	return DeliveryReadyEvent{OrderID: orderID, DisplayNumber: displayNumber, occurredAt: at}
}
