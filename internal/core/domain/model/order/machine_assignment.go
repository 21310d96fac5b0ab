package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

// MachineType distinguishes the two machine classes on the floor.
type MachineType string

const (
	Washer MachineType = "washer"
	Dryer  MachineType = "dryer"
)

// Validate checks the machine type is known.
func (t MachineType) Validate() error {
	switch t {
	case Washer, Dryer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("machineType",
			fmt.Errorf("%q is not a valid machine type", string(t)))
	}
}

// MachineDescriptor is the decoded form of a scanned machine label. The
// capture collaborator decodes the QR image; the core only consumes the
// resulting "type:id" string, e.g. "washer:W3" or "dryer:D12".
type MachineDescriptor struct {
	MachineID string
	Type      MachineType
}

// ParseMachineDescriptor parses a decoded scan string into a descriptor.
func ParseMachineDescriptor(decoded string) (MachineDescriptor, error) {
	parts := strings.SplitN(strings.TrimSpace(decoded), ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return MachineDescriptor{}, errs.NewValueIsInvalidErrorWithCause("machine descriptor",
			fmt.Errorf("%q is not in type:id form", decoded))
	}

	machineType := MachineType(strings.ToLower(parts[0]))
	if err := machineType.Validate(); err != nil {
		return MachineDescriptor{}, err
	}

	return MachineDescriptor{MachineID: parts[1], Type: machineType}, nil
}

// ErrMachineAssignmentIsNotConstructed is returned when a MachineAssignment
// was not created via newMachineAssignment or RestoreMachineAssignment.
var ErrMachineAssignmentIsNotConstructed = errors.New(
	"MachineAssignment must be created via the order's AssignMachine or RestoreMachineAssignment")

// MachineAssignment records that a physical machine serves (part of) an
// order. It is created by a scan, mutated by check/uncheck and the dryer
// sub-steps, and soft-deleted by release. An assignment with a nil removedAt
// is "active"; at most one active assignment may reference a machine across
// all orders (enforced globally by the reservation index, and locally here
// for same-order duplicates).
type MachineAssignment struct {
	id          kernel.UUID
	machineID   string
	machineType MachineType

	// bagIdentifier links the assignment to a specific bag; set only for
	// keep-separated orders.
	bagIdentifier string

	assignedBy kernel.Actor
	assignedAt time.Time

	isChecked bool
	checkedBy *kernel.Actor
	checkedAt *time.Time

	removedAt *time.Time

	// Dryer-only sub-steps. Several dryers can progress through unload and
	// folding in parallel before the order-level final check.
	unloadedBy       *kernel.Actor
	unloadedAt       *time.Time
	isUnloadChecked  bool
	unloadCheckedBy  *kernel.Actor
	unloadCheckedAt  *time.Time
	isFolding        bool
	foldingStartedBy *kernel.Actor
	foldingStartedAt *time.Time
	isFolded         bool
	foldedBy         *kernel.Actor
	foldedAt         *time.Time

	guard guard.ConstructorGuard
}

// newMachineAssignment creates an active assignment from a scan.
// Only the owning order creates assignments.
func newMachineAssignment(
	id kernel.UUID,
	descriptor MachineDescriptor,
	bagIdentifier string,
	assignedBy kernel.Actor,
	assignedAt time.Time,
) (*MachineAssignment, error) {
	if err := errors.Join(id.Validate(), descriptor.Type.Validate(), assignedBy.Validate()); err != nil {
		return nil, err
	}
	if descriptor.MachineID == "" {
		return nil, errs.NewValueIsRequiredError("machine id")
	}

	return &MachineAssignment{
		id:            id,
		machineID:     descriptor.MachineID,
		machineType:   descriptor.Type,
		bagIdentifier: bagIdentifier,
		assignedBy:    assignedBy,
		assignedAt:    assignedAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreMachineAssignment reconstructs an assignment from persistence with
// its full sub-step state.
func RestoreMachineAssignment(
	id kernel.UUID,
	machineID string,
	machineType MachineType,
	bagIdentifier string,
	assignedBy kernel.Actor,
	assignedAt time.Time,
	state RestoredAssignmentState,
) (*MachineAssignment, error) {
	assignment, err := newMachineAssignment(id,
		MachineDescriptor{MachineID: machineID, Type: machineType},
		bagIdentifier, assignedBy, assignedAt)
	if err != nil {
		return nil, err
	}

	assignment.isChecked = state.IsChecked
	assignment.checkedBy = state.CheckedBy
	assignment.checkedAt = state.CheckedAt
	assignment.removedAt = state.RemovedAt
	assignment.unloadedBy = state.UnloadedBy
	assignment.unloadedAt = state.UnloadedAt
	assignment.isUnloadChecked = state.IsUnloadChecked
	assignment.unloadCheckedBy = state.UnloadCheckedBy
	assignment.unloadCheckedAt = state.UnloadCheckedAt
	assignment.isFolding = state.IsFolding
	assignment.foldingStartedBy = state.FoldingStartedBy
	assignment.foldingStartedAt = state.FoldingStartedAt
	assignment.isFolded = state.IsFolded
	assignment.foldedBy = state.FoldedBy
	assignment.foldedAt = state.FoldedAt
	return assignment, nil
}

// RestoredAssignmentState carries the mutable fields of a persisted
// assignment into RestoreMachineAssignment.
type RestoredAssignmentState struct {
	IsChecked        bool
	CheckedBy        *kernel.Actor
	CheckedAt        *time.Time
	RemovedAt        *time.Time
	UnloadedBy       *kernel.Actor
	UnloadedAt       *time.Time
	IsUnloadChecked  bool
	UnloadCheckedBy  *kernel.Actor
	UnloadCheckedAt  *time.Time
	IsFolding        bool
	FoldingStartedBy *kernel.Actor
	FoldingStartedAt *time.Time
	IsFolded         bool
	FoldedBy         *kernel.Actor
	FoldedAt         *time.Time
}

// Validate ensures the assignment was created through a constructor.
func (m *MachineAssignment) Validate() error {
	if m == nil {
		return ErrMachineAssignmentIsNotConstructed
	}
	return m.guard.Validate(ErrMachineAssignmentIsNotConstructed)
}

// ID returns the assignment's unique identifier.
func (m *MachineAssignment) ID() kernel.UUID { return m.id }

// MachineID returns the physical machine's identifier.
func (m *MachineAssignment) MachineID() string { return m.machineID }

// MachineType returns whether the assignment is a washer or a dryer.
func (m *MachineAssignment) MachineType() MachineType { return m.machineType }

// BagIdentifier returns the bag label for keep-separated orders, or "".
func (m *MachineAssignment) BagIdentifier() string { return m.bagIdentifier }

// AssignedBy returns the actor who scanned the machine.
func (m *MachineAssignment) AssignedBy() kernel.Actor { return m.assignedBy }

// AssignedAt returns the scan time.
func (m *MachineAssignment) AssignedAt() time.Time { return m.assignedAt }

// IsChecked reports whether the assignment passed its two-person check.
func (m *MachineAssignment) IsChecked() bool { return m.isChecked }

// CheckedBy returns the verifying actor, nil while unchecked.
func (m *MachineAssignment) CheckedBy() *kernel.Actor { return m.checkedBy }

// CheckedAt returns the verification time, nil while unchecked.
func (m *MachineAssignment) CheckedAt() *time.Time { return m.checkedAt }

// RemovedAt returns the soft-release time, nil while active.
func (m *MachineAssignment) RemovedAt() *time.Time { return m.removedAt }

// IsActive reports whether the assignment has not been released.
func (m *MachineAssignment) IsActive() bool { return m.removedAt == nil }

// UnloadedBy returns the actor who emptied the dryer, nil before unload.
func (m *MachineAssignment) UnloadedBy() *kernel.Actor { return m.unloadedBy }

// UnloadedAt returns the unload time, nil before unload.
func (m *MachineAssignment) UnloadedAt() *time.Time { return m.unloadedAt }

// IsUnloadChecked reports whether the unload passed its two-person check.
func (m *MachineAssignment) IsUnloadChecked() bool { return m.isUnloadChecked }

// UnloadCheckedBy returns the unload verifier, nil while unchecked.
func (m *MachineAssignment) UnloadCheckedBy() *kernel.Actor { return m.unloadCheckedBy }

// UnloadCheckedAt returns the unload verification time.
func (m *MachineAssignment) UnloadCheckedAt() *time.Time { return m.unloadCheckedAt }

// IsFolding reports whether folding is in progress for this dryer's load.
func (m *MachineAssignment) IsFolding() bool { return m.isFolding }

// FoldingStartedBy returns who started folding this dryer's load.
func (m *MachineAssignment) FoldingStartedBy() *kernel.Actor { return m.foldingStartedBy }

// FoldingStartedAt returns when folding started for this dryer's load.
func (m *MachineAssignment) FoldingStartedAt() *time.Time { return m.foldingStartedAt }

// IsFolded reports whether this dryer's load has been folded.
func (m *MachineAssignment) IsFolded() bool { return m.isFolded }

// FoldedBy returns who folded this dryer's load.
func (m *MachineAssignment) FoldedBy() *kernel.Actor { return m.foldedBy }

// FoldedAt returns when this dryer's load was folded.
func (m *MachineAssignment) FoldedAt() *time.Time { return m.foldedAt }

// check marks the assignment verified. Mutation happens through the order.
func (m *MachineAssignment) check(by kernel.Actor, at time.Time) {
	m.isChecked = true
	m.checkedBy = &by
	m.checkedAt = &at
}

// uncheck clears the verification fields. Always permitted as a corrective action.
func (m *MachineAssignment) uncheck() {
	m.isChecked = false
	m.checkedBy = nil
	m.checkedAt = nil
}

// release soft-deletes the assignment. Fails while the assignment is checked:
// the verification has to be explicitly undone first.
func (m *MachineAssignment) release(at time.Time) error {
	if m.isChecked {
		return ErrMachineStillChecked
	}
	m.removedAt = &at
	return nil
}

// retire soft-deletes the assignment when the order completes. Unlike
// release it leaves the verification fields untouched, so the completed
// order keeps its full who-did-what history.
func (m *MachineAssignment) retire(at time.Time) {
	m.removedAt = &at
}

// unload records that the dryer was emptied.
func (m *MachineAssignment) unload(by kernel.Actor, at time.Time) error {
	if m.machineType != Dryer {
		return errs.NewValueIsInvalidErrorWithCause("machine",
			fmt.Errorf("machine %s is not a dryer", m.machineID))
	}
	m.unloadedBy = &by
	m.unloadedAt = &at
	return nil
}

// checkUnload marks the unload verified.
func (m *MachineAssignment) checkUnload(by kernel.Actor, at time.Time) error {
	if m.unloadedBy == nil {
		return errs.NewValueIsInvalidErrorWithCause("machine",
			fmt.Errorf("dryer %s has not been unloaded", m.machineID))
	}
	m.isUnloadChecked = true
	m.unloadCheckedBy = &by
	m.unloadCheckedAt = &at
	return nil
}

// startFolding begins folding this dryer's load. The unload check must have
// passed so that the contents are confirmed out of the drum.
func (m *MachineAssignment) startFolding(by kernel.Actor, at time.Time) error {
	if !m.isUnloadChecked {
		return errs.NewValueIsInvalidErrorWithCause("machine",
			fmt.Errorf("dryer %s unload has not been checked", m.machineID))
	}
	m.isFolding = true
	m.foldingStartedBy = &by
	m.foldingStartedAt = &at
	return nil
}

// markFolded finishes folding this dryer's load.
func (m *MachineAssignment) markFolded(by kernel.Actor, at time.Time) error {
	if !m.isFolding {
		return errs.NewValueIsInvalidErrorWithCause("machine",
			fmt.Errorf("folding has not been started for dryer %s", m.machineID))
	}
	m.isFolding = false
	m.isFolded = true
	m.foldedBy = &by
	m.foldedAt = &at
	return nil
}
