package order

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the workflow failure taxonomy. Every domain error
// leaves aggregate state unmodified; handlers map these to response codes
// and messages are shown to the actor verbatim.
var (
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrMachineBusy           = errors.New("machine busy")
	ErrDuplicateScan         = errors.New("duplicate scan")
	ErrConfirmationRequired  = errors.New("confirmation required")
	ErrMachineStillChecked   = errors.New("must uncheck first")
	ErrAssignmentNotFound    = errors.New("machine assignment not found")
	ErrBagSelectionIsInvalid = errors.New("bag selection is invalid")
)

// InvalidTransitionError reports that the target status is not an allowed
// successor of the order's current status for its order type.
type InvalidTransitionError struct {
	From      Status
	To        Status
	OrderType OrderType
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(from, to Status, orderType OrderType) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, OrderType: orderType}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s cannot move to %s for %s orders",
		e.From, e.To, e.OrderType)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PreconditionError reports that unchecked (or unfolded) machines block a
// folding-stage transition or the final check. MachineIDs names the
// offending machines so staff know exactly what to fix.
type PreconditionError struct {
	Reason     string
	MachineIDs []string
}

// NewPreconditionError creates a PreconditionError naming the blocking machines.
func NewPreconditionError(reason string, machineIDs []string) *PreconditionError {
	return &PreconditionError{Reason: reason, MachineIDs: machineIDs}
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.MachineIDs, ", "))
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionFailed
}

// MachineBusyError reports that a physical machine already serves another
// order. The first writer wins; the loser receives this error instead of a
// silently dropped record.
type MachineBusyError struct {
	MachineID    string
	HolderOrder  string
	AttemptOrder string
}

// NewMachineBusyError creates a MachineBusyError.
func NewMachineBusyError(machineID, holderOrder, attemptOrder string) *MachineBusyError {
	return &MachineBusyError{MachineID: machineID, HolderOrder: holderOrder, AttemptOrder: attemptOrder}
}

func (e *MachineBusyError) Error() string {
	return fmt.Sprintf("machine %s is busy with another order", e.MachineID)
}

func (e *MachineBusyError) Unwrap() error {
	return ErrMachineBusy
}

// DuplicateScanError reports that the same machine was scanned again for the
// same order within the idempotency window. The duplicate is rejected as a
// no-op conflict; no second record is created.
type DuplicateScanError struct {
	MachineID string
	OrderID   string
}

// NewDuplicateScanError creates a DuplicateScanError.
func NewDuplicateScanError(machineID, orderID string) *DuplicateScanError {
	return &DuplicateScanError{MachineID: machineID, OrderID: orderID}
}

func (e *DuplicateScanError) Error() string {
	return fmt.Sprintf("machine %s was already scanned for this order", e.MachineID)
}

func (e *DuplicateScanError) Unwrap() error {
	return ErrDuplicateScan
}

// ConfirmationRequiredError is a soft block: the action is allowed but the
// actor must explicitly confirm before proceeding (two-person verification
// nudge). Callers present a confirm/cancel choice and re-invoke with the
// override flag rather than treating this as fatal.
type ConfirmationRequiredError struct {
	Message string
}

// NewConfirmationRequiredError creates a ConfirmationRequiredError carrying
// the warning shown to the actor.
func NewConfirmationRequiredError(message string) *ConfirmationRequiredError {
	return &ConfirmationRequiredError{Message: message}
}

func (e *ConfirmationRequiredError) Error() string {
	return e.Message
}

func (e *ConfirmationRequiredError) Unwrap() error {
	return ErrConfirmationRequired
}
