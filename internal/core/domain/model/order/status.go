package order

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// OrderType distinguishes the two fulfillment flows an order can follow.
type OrderType string

const (
	// StorePickup orders are dropped off and collected at the counter.
	StorePickup OrderType = "storePickup"

	// Delivery orders are picked up from and returned to the customer.
	Delivery OrderType = "delivery"
)

// Validate checks that the order type is one of the known flows.
func (t OrderType) Validate() error {
	switch t {
	case StorePickup, Delivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%q is not a valid order type", string(t)))
	}
}

// Status represents the top-level process state of an order. The allowed
// transitions form a single data-driven table rather than per-screen
// conditionals, so the graph and its per-order-type filtering are
// centralized and independently testable.
//
// Superset graph (order-type filtered):
//
//	new_order → received → [scheduled_pickup → picked_up] → in_washer
//	  → [transferred → transfer_checked] → in_dryer → on_cart → folding
//	  → folded → (ready_for_pickup | ready_for_delivery) → completed
//
// scheduled_pickup, picked_up and ready_for_delivery exist only for
// delivery orders; ready_for_pickup only for store-pickup orders.
// completed is terminal.
type Status string

const (
	StatusNewOrder         Status = "new_order"
	StatusReceived         Status = "received"
	StatusScheduledPickup  Status = "scheduled_pickup"
	StatusPickedUp         Status = "picked_up"
	StatusInWasher         Status = "in_washer"
	StatusTransferred      Status = "transferred"
	StatusTransferChecked  Status = "transfer_checked"
	StatusInDryer          Status = "in_dryer"
	StatusOnCart           Status = "on_cart"
	StatusFolding          Status = "folding"
	StatusFolded           Status = "folded"
	StatusReadyForPickup   Status = "ready_for_pickup"
	StatusReadyForDelivery Status = "ready_for_delivery"
	StatusCompleted        Status = "completed"
)

// transitionTable holds the allowed successor set for each status before
// order-type filtering. Optional segments (cart staging, transfer
// verification, scheduled pickup) appear as alternative successors.
func transitionTable() map[Status][]Status {
	return map[Status][]Status{
		StatusNewOrder:         {StatusReceived},
		StatusReceived:         {StatusScheduledPickup, StatusInWasher},
		StatusScheduledPickup:  {StatusPickedUp},
		StatusPickedUp:         {StatusInWasher},
		StatusInWasher:         {StatusTransferred, StatusInDryer},
		StatusTransferred:      {StatusTransferChecked},
		StatusTransferChecked:  {StatusInDryer},
		StatusInDryer:          {StatusOnCart, StatusFolding},
		StatusOnCart:           {StatusFolding},
		StatusFolding:          {StatusFolded},
		StatusFolded:           {StatusReadyForPickup, StatusReadyForDelivery},
		StatusReadyForPickup:   {StatusCompleted},
		StatusReadyForDelivery: {StatusCompleted},
		StatusCompleted:        {},
	}
}

// deliveryOnlyStatuses are reachable only by delivery orders;
// storePickupOnlyStatuses only by store-pickup orders.
var (
	deliveryOnlyStatuses = map[Status]bool{
		StatusScheduledPickup:  true,
		StatusPickedUp:         true,
		StatusReadyForDelivery: true,
	}
	storePickupOnlyStatuses = map[Status]bool{
		StatusReadyForPickup: true,
	}
)

// Validate checks the status is a member of the graph.
func (s Status) Validate() error {
	if _, ok := transitionTable()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer using the persisted representation.
func (s Status) String() string {
	return string(s)
}

// AllowedFor reports whether the status exists in the given order type's flow.
func (s Status) AllowedFor(orderType OrderType) bool {
	if deliveryOnlyStatuses[s] {
		return orderType == Delivery
	}
	if storePickupOnlyStatuses[s] {
		return orderType == StorePickup
	}
	return true
}

// CanTransitionTo reports whether target is an allowed successor of s for
// the given order type. It validates graph membership and type filtering
// but not aggregate-level preconditions (see Order.Transition).
func (s Status) CanTransitionTo(target Status, orderType OrderType) bool {
	if !target.AllowedFor(orderType) {
		return false
	}

	for _, next := range transitionTable()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// requiresCheckedMachines lists the targets gated on every active machine
// assignment being checked.
func (s Status) requiresCheckedMachines() bool {
	return s == StatusFolding || s == StatusOnCart || s == StatusFolded
}
