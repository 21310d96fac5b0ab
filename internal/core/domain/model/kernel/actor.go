package kernel

import (
	"errors"
	"strings"

	"laundry/internal/pkg/errs"
)

var (
	// ErrActorIsNotConstructed indicates an Actor was not created via NewActor.
	ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")
)

// Actor is a value object representing a resolved staff identity. The session
// collaborator authenticates the person and hands the core their stable
// identifier plus the initials shown on checked items and receipts.
//
// Identity comparison is case-insensitive: "maria" and "Maria" are the same
// person for two-person verification purposes.
//
// Example:
//
//	actor, err := kernel.NewActor("maria.lopez", "ML")
//	if err != nil {
//	    // handle invalid identity
//	}
type Actor struct {
	id       string
	initials string

	isConstructed bool
}

// NewActor creates an Actor from a resolved identity and display initials.
// The identity must not be empty; initials default to the identity's first
// two characters (upper-cased) when blank.
func NewActor(id string, initials string) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}

	initials = strings.TrimSpace(initials)
	if initials == "" {
		runes := []rune(id)
		if len(runes) > 2 {
			runes = runes[:2]
		}
		initials = strings.ToUpper(string(runes))
	}

	return Actor{
		id:            id,
		initials:      initials,
		isConstructed: true,
	}, nil
}

// RestoreActor reconstructs an Actor from persisted fields.
func RestoreActor(id string, initials string) (Actor, error) {
	return NewActor(id, initials)
}

// ID returns the actor's stable identity string.
func (a Actor) ID() string {
	return a.id
}

// Initials returns the actor's display initials.
func (a Actor) Initials() string {
	return a.initials
}

// SameAs reports whether both actors are the same person.
// Comparison is case-insensitive on the identity.
func (a Actor) SameAs(other Actor) bool {
	return strings.EqualFold(a.id, other.id)
}

// Validate ensures the Actor instance was created through NewActor.
func (a Actor) Validate() error {
	if !a.isConstructed {
		return ErrActorIsNotConstructed
	}
	return nil
}
