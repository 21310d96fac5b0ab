package order

import (
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// PaymentStatus is the coarse payment state persisted on the order.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// ExtraUsage is an extra catalog item applied to the order, with the
// staff-entered quantity and optional override total.
type ExtraUsage struct {
	ItemID        string
	Quantity      float64
	OverrideTotal *float64
}

// ScanOutcome is the result of a machine scan. It is either a created
// assignment or the RequiresBagSelection branch signal for keep-separated
// orders with more than one candidate bag; the follow-up scan carries the
// chosen bag identifier. The branch signal is not an error.
type ScanOutcome struct {
	Assignment           *MachineAssignment
	RequiresBagSelection bool
	MachineType          MachineType
}

// Order is the aggregate root tracking a physical laundry order from intake
// through machine processing to fulfillment. It owns the bags, the machine
// assignments and the financial fields, and enforces the ordering,
// verification and resource invariants of the workflow.
//
// Invariants:
//   - status transitions follow the order-type-filtered transition table
//   - folding-stage transitions require every active machine assignment to
//     be checked
//   - totalAmount is always derivable from bags/extras/settings via the
//     pricing engine; it is cached for audit but never silently drifts
//   - an active assignment is unique per machine within the order (global
//     uniqueness across orders is enforced by the reservation index)
type Order struct {
	id            kernel.UUID
	displayNumber int64
	customerID    kernel.UUID
	orderType     OrderType
	status        Status
	keepSeparated bool
	isSameDay     bool

	bags     []*Bag
	machines []*MachineAssignment
	extras   []ExtraUsage

	// financial fields; dollars
	subtotal      float64
	deliveryFee   float64
	sameDayFee    float64
	totalAmount   float64
	creditApplied float64
	amountPaid    float64
	paymentStatus PaymentStatus
	isPaid        bool
	paymentMethod string

	// process tracking: who performed each workflow step and when
	transferredBy     *kernel.Actor
	transferredAt     *time.Time
	layeredBy         *kernel.Actor
	layeredAt         *time.Time
	foldingStartedBy  *kernel.Actor
	foldingStartedAt  *time.Time
	foldingFinishedBy *kernel.Actor
	foldingFinishedAt *time.Time
	finalCheckedBy    *kernel.Actor
	finalCheckedAt    *time.Time

	events []DomainEvent

	guard guard.ConstructorGuard
}

// NewOrder creates an order at intake in new_order status.
func NewOrder(
	id kernel.UUID,
	displayNumber int64,
	customerID kernel.UUID,
	orderType OrderType,
	keepSeparated bool,
	isSameDay bool,
) (*Order, error) {
	o := &Order{
		status:        StatusNewOrder,
		paymentStatus: PaymentUnpaid,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDisplayNumber(displayNumber),
		o.setCustomerID(customerID),
		o.setOrderType(orderType),
	); err != nil {
		return nil, err
	}

	o.keepSeparated = keepSeparated
	o.isSameDay = isSameDay
	return o, nil
}

// RestoredOrderState carries the persisted mutable fields into RestoreOrder.
type RestoredOrderState struct {
	Status        Status
	KeepSeparated bool
	IsSameDay     bool
	Bags          []*Bag
	Machines      []*MachineAssignment
	Extras        []ExtraUsage

	Subtotal      float64
	DeliveryFee   float64
	SameDayFee    float64
	TotalAmount   float64
	CreditApplied float64
	AmountPaid    float64
	PaymentStatus PaymentStatus
	IsPaid        bool
	PaymentMethod string

	TransferredBy     *kernel.Actor
	TransferredAt     *time.Time
	LayeredBy         *kernel.Actor
	LayeredAt         *time.Time
	FoldingStartedBy  *kernel.Actor
	FoldingStartedAt  *time.Time
	FoldingFinishedBy *kernel.Actor
	FoldingFinishedAt *time.Time
	FinalCheckedBy    *kernel.Actor
	FinalCheckedAt    *time.Time
}

// RestoreOrder reconstructs an order aggregate from persistence.
func RestoreOrder(
	id kernel.UUID,
	displayNumber int64,
	customerID kernel.UUID,
	orderType OrderType,
	state RestoredOrderState,
) (*Order, error) {
	o, err := NewOrder(id, displayNumber, customerID, orderType, state.KeepSeparated, state.IsSameDay)
	if err != nil {
		return nil, err
	}

	if err = state.Status.Validate(); err != nil {
		return nil, err
	}

	o.status = state.Status
	o.bags = state.Bags
	o.machines = state.Machines
	o.extras = state.Extras
	o.subtotal = state.Subtotal
	o.deliveryFee = state.DeliveryFee
	o.sameDayFee = state.SameDayFee
	o.totalAmount = state.TotalAmount
	o.creditApplied = state.CreditApplied
	o.amountPaid = state.AmountPaid
	o.paymentStatus = state.PaymentStatus
	if o.paymentStatus == "" {
		o.paymentStatus = PaymentUnpaid
	}
	o.isPaid = state.IsPaid
	o.paymentMethod = state.PaymentMethod
	o.transferredBy = state.TransferredBy
	o.transferredAt = state.TransferredAt
	o.layeredBy = state.LayeredBy
	o.layeredAt = state.LayeredAt
	o.foldingStartedBy = state.FoldingStartedBy
	o.foldingStartedAt = state.FoldingStartedAt
	o.foldingFinishedBy = state.FoldingFinishedBy
	o.foldingFinishedAt = state.FoldingFinishedAt
	o.finalCheckedBy = state.FinalCheckedBy
	o.finalCheckedAt = state.FinalCheckedAt
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's internal identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// DisplayNumber returns the sequential number printed on tags and receipts.
func (o *Order) DisplayNumber() int64 { return o.displayNumber }

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// OrderType returns the fulfillment flow of the order.
func (o *Order) OrderType() OrderType { return o.orderType }

// Status returns the current process status.
func (o *Order) Status() Status { return o.status }

// KeepSeparated reports whether the order's bags must be processed in
// physically distinct machines.
func (o *Order) KeepSeparated() bool { return o.keepSeparated }

// IsSameDay reports whether the order is on the expedited tier.
func (o *Order) IsSameDay() bool { return o.isSameDay }

// Bags returns the ordered bag list.
func (o *Order) Bags() []*Bag { return o.bags }

// Machines returns all machine assignments, including released ones.
func (o *Order) Machines() []*MachineAssignment { return o.machines }

// Extras returns the applied extra-item usages.
func (o *Order) Extras() []ExtraUsage { return o.extras }

// Subtotal returns the laundry subtotal.
func (o *Order) Subtotal() float64 { return o.subtotal }

// DeliveryFee returns the delivery fee, zero for store-pickup orders.
func (o *Order) DeliveryFee() float64 { return o.deliveryFee }

// SameDayFee returns the expedite surcharge.
func (o *Order) SameDayFee() float64 { return o.sameDayFee }

// TotalAmount returns the cached order total.
func (o *Order) TotalAmount() float64 { return o.totalAmount }

// CreditApplied returns the customer credit consumed by this order.
func (o *Order) CreditApplied() float64 { return o.creditApplied }

// AmountPaid returns all payments received for this order.
func (o *Order) AmountPaid() float64 { return o.amountPaid }

// PaymentStatus returns the coarse payment state.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// IsPaid reports whether the order is fully paid.
func (o *Order) IsPaid() bool { return o.isPaid }

// PaymentMethod returns how the order was paid ("credit", "mixed", ...).
func (o *Order) PaymentMethod() string { return o.paymentMethod }

// TransferredBy returns who moved the laundry from washers to dryers.
func (o *Order) TransferredBy() *kernel.Actor { return o.transferredBy }

// TransferredAt returns when the washer-to-dryer transfer happened.
func (o *Order) TransferredAt() *time.Time { return o.transferredAt }

// LayeredBy returns who layered the laundry on the cart.
func (o *Order) LayeredBy() *kernel.Actor { return o.layeredBy }

// LayeredAt returns when the laundry was layered on the cart.
func (o *Order) LayeredAt() *time.Time { return o.layeredAt }

// FoldingStartedBy returns who started order-level folding.
func (o *Order) FoldingStartedBy() *kernel.Actor { return o.foldingStartedBy }

// FoldingStartedAt returns when order-level folding started.
func (o *Order) FoldingStartedAt() *time.Time { return o.foldingStartedAt }

// FoldingFinishedBy returns who finished order-level folding.
func (o *Order) FoldingFinishedBy() *kernel.Actor { return o.foldingFinishedBy }

// FoldingFinishedAt returns when order-level folding finished.
func (o *Order) FoldingFinishedAt() *time.Time { return o.foldingFinishedAt }

// FinalCheckedBy returns who performed the final check.
func (o *Order) FinalCheckedBy() *kernel.Actor { return o.finalCheckedBy }

// FinalCheckedAt returns when the final check happened.
func (o *Order) FinalCheckedAt() *time.Time { return o.finalCheckedAt }

// Events returns the domain events collected since the aggregate was loaded.
func (o *Order) Events() []DomainEvent { return o.events }

// DrainEvents returns the collected events and clears the buffer. Handlers
// call this after a successful commit.
func (o *Order) DrainEvents() []DomainEvent {
	drained := o.events
	o.events = nil
	return drained
}

// AddBag appends a bag to the order.
func (o *Order) AddBag(bag *Bag) error {
	if err := bag.Validate(); err != nil {
		return err
	}
	for _, existing := range o.bags {
		if existing.Identifier() == bag.Identifier() {
			return errs.NewValueIsInvalidErrorWithCause("bag",
				fmt.Errorf("bag %s already exists on this order", bag.Identifier()))
		}
	}
	o.bags = append(o.bags, bag)
	return nil
}

// RemoveBag removes a bag by its identifier.
func (o *Order) RemoveBag(identifier string) error {
	for i, bag := range o.bags {
		if bag.Identifier() == identifier {
			o.bags = append(o.bags[:i], o.bags[i+1:]...)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("bag", identifier)
}

// SetExtras replaces the order's extra-item usages.
func (o *Order) SetExtras(extras []ExtraUsage) {
	o.extras = extras
}

// Transition moves the order to the target status. It fails with
// InvalidTransitionError when the target is not an allowed successor for the
// order's type, and with PreconditionError (naming the offending machines)
// when a folding-stage target is requested while unchecked assignments
// remain. On success it mutates only the status and the process-tracking
// field for the reached step; machine and financial state are untouched.
func (o *Order) Transition(target Status, actor kernel.Actor, at time.Time) error {
	if err := errors.Join(target.Validate(), actor.Validate()); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(target, o.orderType) {
		return NewInvalidTransitionError(o.status, target, o.orderType)
	}

	if target.requiresCheckedMachines() {
		if unchecked := o.uncheckedActiveMachines(); len(unchecked) > 0 {
			return NewPreconditionError("unchecked machines block this step", unchecked)
		}
	}

	from := o.status
	o.status = target

	switch target {
	case StatusTransferred:
		o.transferredBy = &actor
		o.transferredAt = &at
	case StatusOnCart:
		o.layeredBy = &actor
		o.layeredAt = &at
	case StatusFolding:
		o.foldingStartedBy = &actor
		o.foldingStartedAt = &at
	case StatusFolded:
		o.foldingFinishedBy = &actor
		o.foldingFinishedAt = &at
	}

	o.record(StatusChangedEvent{
		OrderID: o.id, From: from, To: target, ActorID: actor.ID(), occurredAt: at,
	})

	switch target {
	case StatusPickedUp:
		o.record(OrderPickedUpEvent{OrderID: o.id, ActorID: actor.ID(), occurredAt: at})
	case StatusReadyForPickup, StatusReadyForDelivery:
		o.record(DeliveryReadyEvent{OrderID: o.id, DisplayNumber: o.displayNumber, occurredAt: at})
	}

	return nil
}

// AssignMachine records the result of a machine scan. For keep-separated
// orders with more than one bag still lacking an assignment of the scanned
// machine type, it returns the RequiresBagSelection branch signal instead of
// creating a record; the follow-up call carries the chosen bag identifier.
// A second active assignment of the same machine on this order is rejected
// as a duplicate-scan conflict.
func (o *Order) AssignMachine(
	descriptor MachineDescriptor,
	actor kernel.Actor,
	bagIdentifier string,
	at time.Time,
) (ScanOutcome, error) {
	if o.status.IsTerminal() {
		return ScanOutcome{}, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %d is completed", o.displayNumber))
	}

	for _, m := range o.machines {
		if m.IsActive() && m.MachineID() == descriptor.MachineID {
			return ScanOutcome{}, NewDuplicateScanError(descriptor.MachineID, o.id.String())
		}
	}

	if o.keepSeparated {
		if bagIdentifier == "" {
			unassigned := o.bagsWithoutMachine(descriptor.Type)
			switch {
			case len(unassigned) > 1:
				return ScanOutcome{RequiresBagSelection: true, MachineType: descriptor.Type}, nil
			case len(unassigned) == 1:
				bagIdentifier = unassigned[0].Identifier()
			}
		} else if o.findBag(bagIdentifier) == nil {
			return ScanOutcome{}, ErrBagSelectionIsInvalid
		}
	}

	assignment, err := newMachineAssignment(kernel.NewUUID(), descriptor, bagIdentifier, actor, at)
	if err != nil {
		return ScanOutcome{}, err
	}

	o.machines = append(o.machines, assignment)
	return ScanOutcome{Assignment: assignment}, nil
}

// CheckMachine verifies a machine assignment. The two-person policy compares
// the verifier against the assigning actor; forceSamePerson lets a lone
// staff member proceed after explicit confirmation.
func (o *Order) CheckMachine(machineID string, actor kernel.Actor, forceSamePerson bool, at time.Time) error {
	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}

	verification := services.NewVerificationPolicy().Verify(
		assignment.AssignedBy(), actor, "the machine assignment", forceSamePerson)
	if !verification.Allowed() {
		return NewConfirmationRequiredError(verification.Message)
	}

	assignment.check(actor, at)
	o.record(MachineCheckedEvent{
		OrderID: o.id, MachineID: machineID, CheckedBy: actor.ID(), occurredAt: at,
	})
	return nil
}

// UncheckMachine clears a machine assignment's verification. Always
// permitted as a corrective action.
func (o *Order) UncheckMachine(machineID string, actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}

	assignment.uncheck()
	return nil
}

// ReleaseMachine soft-deletes a machine assignment, freeing the physical
// machine for other orders. Checked assignments must be unchecked first.
func (o *Order) ReleaseMachine(machineID string, actor kernel.Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}

	return assignment.release(at)
}

// RetireMachines soft-deletes every still-active machine assignment. Used
// when an order completes: the physical machines go back into circulation
// while the assignments keep their verification history.
func (o *Order) RetireMachines(at time.Time) {
	for _, assignment := range o.machines {
		if assignment.IsActive() {
			assignment.retire(at)
		}
	}
}

// UnloadDryer records that a dryer was emptied onto the cart.
func (o *Order) UnloadDryer(machineID string, actor kernel.Actor, at time.Time) error {
	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}
	return assignment.unload(actor, at)
}

// CheckDryerUnload verifies a dryer unload with the two-person policy,
// comparing the verifier against the unloading actor.
func (o *Order) CheckDryerUnload(machineID string, actor kernel.Actor, forceSamePerson bool, at time.Time) error {
	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}

	if assignment.UnloadedBy() != nil {
		verification := services.NewVerificationPolicy().Verify(
			*assignment.UnloadedBy(), actor, "the dryer unload", forceSamePerson)
		if !verification.Allowed() {
			return NewConfirmationRequiredError(verification.Message)
		}
	}

	return assignment.checkUnload(actor, at)
}

// StartDryerFolding begins folding one dryer's load. Dryers progress
// independently; several may fold in parallel before the final check.
func (o *Order) StartDryerFolding(machineID string, actor kernel.Actor, at time.Time) error {
	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}
	return assignment.startFolding(actor, at)
}

// MarkDryerFolded finishes folding one dryer's load.
func (o *Order) MarkDryerFolded(machineID string, actor kernel.Actor, at time.Time) error {
	assignment, err := o.activeAssignment(machineID)
	if err != nil {
		return err
	}
	return assignment.markFolded(actor, at)
}

// VerifyTransfer confirms the washer-to-dryer transfer. The order must be in
// transferred status; the two-person policy compares against the actor who
// performed the transfer.
func (o *Order) VerifyTransfer(actor kernel.Actor, forceOverride bool, at time.Time) error {
	if o.status != StatusTransferred {
		return NewInvalidTransitionError(o.status, StatusTransferChecked, o.orderType)
	}

	if o.transferredBy != nil {
		verification := services.NewVerificationPolicy().Verify(
			*o.transferredBy, actor, "the transfer", forceOverride)
		if !verification.Allowed() {
			return NewConfirmationRequiredError(verification.Message)
		}
	}

	return o.Transition(StatusTransferChecked, actor, at)
}

// VerifyFoldingComplete confirms that order-level folding is finished,
// moving the order from folding to folded. The policy compares against the
// actor who started folding.
func (o *Order) VerifyFoldingComplete(actor kernel.Actor, forceOverride bool, at time.Time) error {
	if o.status != StatusFolding {
		return NewInvalidTransitionError(o.status, StatusFolded, o.orderType)
	}

	if o.foldingStartedBy != nil {
		verification := services.NewVerificationPolicy().Verify(
			*o.foldingStartedBy, actor, "the folding", forceOverride)
		if !verification.Allowed() {
			return NewConfirmationRequiredError(verification.Message)
		}
	}

	return o.Transition(StatusFolded, actor, at)
}

// FinalCheck performs the order-level final verification and moves the order
// to its ready status. Every active dryer assignment must be folded; the
// policy compares against the actor who finished folding.
func (o *Order) FinalCheck(actor kernel.Actor, forceOverride bool, at time.Time) error {
	target := StatusReadyForPickup
	if o.orderType == Delivery {
		target = StatusReadyForDelivery
	}

	if o.status != StatusFolded {
		return NewInvalidTransitionError(o.status, target, o.orderType)
	}

	if unfolded := o.unfoldedActiveDryers(); len(unfolded) > 0 {
		return NewPreconditionError("unfolded dryers block the final check", unfolded)
	}

	if o.foldingFinishedBy != nil {
		verification := services.NewVerificationPolicy().Verify(
			*o.foldingFinishedBy, actor, "the folding", forceOverride)
		if !verification.Allowed() {
			return NewConfirmationRequiredError(verification.Message)
		}
	}

	if err := o.Transition(target, actor, at); err != nil {
		return err
	}

	o.finalCheckedBy = &actor
	o.finalCheckedAt = &at
	return nil
}

// ApplyQuote caches a freshly computed pricing result on the order. The
// cached fields must always match a recomputation over the same inputs.
func (o *Order) ApplyQuote(quote services.Quote) {
	o.subtotal = quote.Subtotal
	o.deliveryFee = quote.DeliveryFee
	o.sameDayFee = quote.SameDayFee
	o.totalAmount = quote.Total
}

// QuoteInput composes the pricing engine's input from the order's current
// bags, extras and flags.
func (o *Order) QuoteInput(customerDeliveryFee *float64, manualDeliveryFee float64) services.QuoteInput {
	weights := make([]float64, 0, len(o.bags))
	for _, bag := range o.bags {
		weights = append(weights, bag.Weight())
	}

	extras := make([]services.ExtraSelection, 0, len(o.extras))
	for _, extra := range o.extras {
		extras = append(extras, services.ExtraSelection{
			ItemID:        extra.ItemID,
			Quantity:      extra.Quantity,
			OverrideTotal: extra.OverrideTotal,
		})
	}

	return services.QuoteInput{
		BagWeights:          weights,
		Extras:              extras,
		IsSameDay:           o.isSameDay,
		IsDelivery:          o.orderType == Delivery,
		CustomerDeliveryFee: customerDeliveryFee,
		ManualDeliveryFee:   manualDeliveryFee,
	}
}

// ApplyCreditPayment books applied customer credit against the order. When
// the applied amount covers the remaining balance due the order is marked
// paid. The caller is responsible for the matching ledger mutation on the
// customer aggregate within the same transaction.
func (o *Order) ApplyCreditPayment(amount float64, at time.Time) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("credit amount",
			fmt.Errorf("%v is not positive", amount))
	}

	o.creditApplied += amount
	o.amountPaid += amount

	if o.amountPaid >= o.totalAmount {
		o.isPaid = true
		o.paymentStatus = PaymentPaid
		if o.amountPaid == o.creditApplied {
			o.paymentMethod = "credit"
		} else {
			o.paymentMethod = "mixed"
		}
		o.record(PaymentReceivedEvent{
			OrderID: o.id, Amount: amount, Method: o.paymentMethod, occurredAt: at,
		})
	} else {
		o.paymentStatus = PaymentPartiallyPaid
	}

	return nil
}

// RevertToUnpaid undoes the paid state of an order that consumed credit and
// returns the amount to refund to the customer's ledger. The refund equals
// the recorded creditApplied, not the full order total, so mixed cash+credit
// payments refund correctly.
func (o *Order) RevertToUnpaid() (float64, error) {
	if !o.isPaid {
		return 0, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %d is not paid", o.displayNumber))
	}

	refund := o.creditApplied
	o.amountPaid -= o.creditApplied
	o.creditApplied = 0
	o.isPaid = false
	o.paymentMethod = ""
	if o.amountPaid > 0 {
		o.paymentStatus = PaymentPartiallyPaid
	} else {
		o.paymentStatus = PaymentUnpaid
	}

	return refund, nil
}

// activeAssignment finds the non-released assignment for a machine.
func (o *Order) activeAssignment(machineID string) (*MachineAssignment, error) {
	for _, m := range o.machines {
		if m.IsActive() && m.MachineID() == machineID {
			return m, nil
		}
	}
	return nil, ErrAssignmentNotFound
}

// uncheckedActiveMachines lists active assignments that have not passed
// their two-person check.
func (o *Order) uncheckedActiveMachines() []string {
	var ids []string
	for _, m := range o.machines {
		if m.IsActive() && !m.IsChecked() {
			ids = append(ids, m.MachineID())
		}
	}
	return ids
}

// unfoldedActiveDryers lists active dryer assignments not yet folded.
func (o *Order) unfoldedActiveDryers() []string {
	var ids []string
	for _, m := range o.machines {
		if m.IsActive() && m.MachineType() == Dryer && !m.IsFolded() {
			ids = append(ids, m.MachineID())
		}
	}
	return ids
}

// bagsWithoutMachine lists bags lacking an active assignment of the given
// machine type.
func (o *Order) bagsWithoutMachine(machineType MachineType) []*Bag {
	assigned := make(map[string]bool)
	for _, m := range o.machines {
		if m.IsActive() && m.MachineType() == machineType && m.BagIdentifier() != "" {
			assigned[m.BagIdentifier()] = true
		}
	}

	var unassigned []*Bag
	for _, bag := range o.bags {
		if !assigned[bag.Identifier()] {
			unassigned = append(unassigned, bag)
		}
	}
	return unassigned
}

// findBag returns the bag with the given identifier, nil if absent.
func (o *Order) findBag(identifier string) *Bag {
	for _, bag := range o.bags {
		if bag.Identifier() == identifier {
			return bag
		}
	}
	return nil
}

func (o *Order) record(event DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDisplayNumber(displayNumber int64) error {
	if displayNumber <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("display number",
			fmt.Errorf("%d is not greater than 0", displayNumber))
	}
	o.displayNumber = displayNumber
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setOrderType(orderType OrderType) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	o.orderType = orderType
	return nil
}
