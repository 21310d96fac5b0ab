package order

import (
	"errors"
	"fmt"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

// ErrBagIsNotConstructed is returned when a Bag was not created via NewBag.
var ErrBagIsNotConstructed = errors.New("Bag must be created via NewBag constructor")

// Bag is a physically separable unit of laundry within an order, weighed and
// tracked individually. Bags are owned exclusively by one order and are
// created or removed only through the order's bag list.
type Bag struct {
	// identifier is the ordinal label printed on the bag tag ("1", "2", ...)
	identifier string

	// weight in pounds, zero allowed for bags not yet weighed
	weight float64

	// color is an optional visual marker used to tell bags apart
	color string

	// description is free text entered at intake
	description string

	guard guard.ConstructorGuard
}

// NewBag creates a Bag with the given ordinal identifier and weight.
// Weight must be zero or positive; the identifier must not be empty.
func NewBag(identifier string, weight float64, color, description string) (*Bag, error) {
	bag := &Bag{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		bag.setIdentifier(identifier),
		bag.setWeight(weight),
	); err != nil {
		return nil, err
	}

	bag.color = color
	bag.description = description
	return bag, nil
}

// RestoreBag reconstructs a Bag from persisted fields.
func RestoreBag(identifier string, weight float64, color, description string) (*Bag, error) {
	return NewBag(identifier, weight, color, description)
}

// Validate ensures the Bag was created through NewBag.
func (b *Bag) Validate() error {
	if b == nil {
		return ErrBagIsNotConstructed
	}
	return b.guard.Validate(ErrBagIsNotConstructed)
}

// Identifier returns the bag's ordinal label.
func (b *Bag) Identifier() string {
	return b.identifier
}

// Weight returns the bag's weight in pounds.
func (b *Bag) Weight() float64 {
	return b.weight
}

// Color returns the optional visual marker.
func (b *Bag) Color() string {
	return b.color
}

// Description returns the free-text description.
func (b *Bag) Description() string {
	return b.description
}

// SetWeight updates the bag's weight, e.g. after re-weighing at the scale.
func (b *Bag) SetWeight(weight float64) error {
	return b.setWeight(weight)
}

func (b *Bag) setIdentifier(identifier string) error {
	if identifier == "" {
		return errs.NewValueIsRequiredError("bag identifier")
	}
	b.identifier = identifier
	return nil
}

func (b *Bag) setWeight(weight float64) error {
	if weight < 0 {
		return errs.NewValueIsInvalidErrorWithCause("bag weight",
			fmt.Errorf("%v is negative", weight))
	}
	b.weight = weight
	return nil
}
