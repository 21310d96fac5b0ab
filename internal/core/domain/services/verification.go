package services

import (
	"fmt"

	"laundry/internal/core/domain/model/kernel"
)

// Verification is the outcome of the two-person rule. It is a result value
// carrying a confirmation flag rather than an error used for control flow,
// so any caller (API handler, batch job, interactive UI) handles the branch
// uniformly: present the warning, let the actor confirm, re-invoke with the
// override flag.
type Verification struct {
	// NeedsConfirmation is true when the verifying actor is the same person
	// who performed the step and no override was given.
	NeedsConfirmation bool

	// Message is the human-readable warning shown to the actor verbatim.
	Message string
}

// Allowed reports whether the verification may proceed immediately.
func (v Verification) Allowed() bool {
	return !v.NeedsConfirmation
}

// VerificationPolicy implements the compliance nudge that the staff member
// who performed a step should not be the sole verifier of that step. It is
// deliberately a soft rule: a lone on-duty staff member must still be able
// to proceed after explicit confirmation, so forceOverride always wins.
//
// The same contract backs machine checks, dryer unload checks, transfer
// verification and the order-level folding/final verification.
type VerificationPolicy struct{}

// NewVerificationPolicy creates a VerificationPolicy.
func NewVerificationPolicy() VerificationPolicy {
	return VerificationPolicy{}
}

// Verify compares the performing and attempting actors. Identity comparison
// is case-insensitive. stepName names the performed step in the warning
// message, e.g. "the machine check".
func (VerificationPolicy) Verify(
	performedBy kernel.Actor,
	attemptedBy kernel.Actor,
	stepName string,
	forceOverride bool,
) Verification {
	if forceOverride {
		return Verification{}
	}

	if performedBy.SameAs(attemptedBy) {
		return Verification{
			NeedsConfirmation: true,
			Message:           fmt.Sprintf("the same person who performed %s should not verify it", stepName),
		}
	}

	return Verification{}
}
