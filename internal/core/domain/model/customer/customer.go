package customer

import (
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through NewCustomer or RestoreCustomer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// EntryType marks the direction of a credit ledger entry.
type EntryType string

const (
	// EntryAdd increases the balance (refunds, goodwill, prepayments).
	EntryAdd EntryType = "add"

	// EntryUse decreases the balance (applied to an order).
	EntryUse EntryType = "use"
)

// Validate checks the entry type is one of the two directions.
func (t EntryType) Validate() error {
	switch t {
	case EntryAdd, EntryUse:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("entryType",
			fmt.Errorf("%q is not a valid credit entry type", string(t)))
	}
}

// CreditEntry is one immutable row of a customer's credit ledger. Entries
// are never edited or deleted; corrections are new entries.
type CreditEntry struct {
	id          kernel.UUID
	amount      float64
	entryType   EntryType
	description string
	occurredAt  time.Time
}

// RestoreCreditEntry reconstructs a ledger entry from persistence.
func RestoreCreditEntry(
	id kernel.UUID,
	amount float64,
	entryType EntryType,
	description string,
	occurredAt time.Time,
) (CreditEntry, error) {
	if err := errors.Join(id.Validate(), entryType.Validate()); err != nil {
		return CreditEntry{}, err
	}
	if amount <= 0 {
		return CreditEntry{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%v is not positive", amount))
	}

	return CreditEntry{
		id:          id,
		amount:      amount,
		entryType:   entryType,
		description: description,
		occurredAt:  occurredAt,
	}, nil
}

// ID returns the entry identifier.
func (e CreditEntry) ID() kernel.UUID { return e.id }

// Amount returns the entry's positive dollar amount.
func (e CreditEntry) Amount() float64 { return e.amount }

// EntryType returns the entry direction.
func (e CreditEntry) EntryType() EntryType { return e.entryType }

// Description returns the human-readable reason for the entry.
func (e CreditEntry) Description() string { return e.description }

// OccurredAt returns when the entry was booked.
func (e CreditEntry) OccurredAt() time.Time { return e.occurredAt }

// Signed returns the entry's contribution to the balance.
func (e CreditEntry) Signed() float64 {
	if e.entryType == EntryUse {
		return -e.amount
	}
	return e.amount
}

// Customer is the aggregate owning the store-credit balance and its
// append-only ledger.
//
// Invariant: the cached balance always equals the signed sum of the ledger
// and never goes negative. Both mutations append an entry and adjust the
// balance in the same step, so the conservation holds under any
// interleaving of adds and uses.
type Customer struct {
	id          kernel.UUID
	name        string
	phone       string
	deliveryFee *float64

	creditBalance float64
	ledger        []CreditEntry

	guard guard.ConstructorGuard
}

// NewCustomer creates a customer with an empty ledger.
func NewCustomer(id kernel.UUID, name, phone string) (*Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Customer{
		id:    id,
		name:  name,
		phone: phone,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// RestoreCustomer reconstructs a customer aggregate from persistence. The
// ledger must arrive in booking order and its signed sum must equal the
// stored balance.
func RestoreCustomer(
	id kernel.UUID,
	name, phone string,
	deliveryFee *float64,
	creditBalance float64,
	ledger []CreditEntry,
) (*Customer, error) {
	c, err := NewCustomer(id, name, phone)
	if err != nil {
		return nil, err
	}

	c.deliveryFee = deliveryFee
	c.creditBalance = creditBalance
	c.ledger = ledger

	if sum := c.LedgerBalance(); !almostEqual(sum, creditBalance) {
		return nil, errs.NewValueIsInvalidErrorWithCause("creditBalance",
			fmt.Errorf("stored balance %.2f does not match ledger sum %.2f", creditBalance, sum))
	}

	return c, nil
}

// Validate ensures the Customer was created through a constructor.
func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// ID returns the customer identifier.
func (c *Customer) ID() kernel.UUID { return c.id }

// Name returns the customer's display name.
func (c *Customer) Name() string { return c.name }

// Phone returns the customer's contact phone.
func (c *Customer) Phone() string { return c.phone }

// DeliveryFee returns the negotiated per-order delivery fee, nil when the
// customer uses the manually entered fee.
func (c *Customer) DeliveryFee() *float64 { return c.deliveryFee }

// SetDeliveryFee sets or clears the negotiated delivery fee.
func (c *Customer) SetDeliveryFee(fee *float64) {
	c.deliveryFee = fee
}

// CreditBalance returns the cached balance.
func (c *Customer) CreditBalance() float64 { return c.creditBalance }

// Ledger returns the full ledger in booking order.
func (c *Customer) Ledger() []CreditEntry { return c.ledger }

// LedgerBalance recomputes the balance as the signed sum of the ledger.
func (c *Customer) LedgerBalance() float64 {
	var sum float64
	for _, entry := range c.ledger {
		sum += entry.Signed()
	}
	return sum
}

// AddCredit books a positive credit onto the ledger and the balance.
func (c *Customer) AddCredit(amount float64, description string, at time.Time) error {
	entry, err := RestoreCreditEntry(kernel.NewUUID(), amount, EntryAdd, description, at)
	if err != nil {
		return err
	}

	c.ledger = append(c.ledger, entry)
	c.creditBalance += amount
	return nil
}

// UseCredit books a credit usage. It fails with InsufficientCreditError
// when the requested amount exceeds the available balance, leaving the
// ledger untouched.
func (c *Customer) UseCredit(amount float64, description string, at time.Time) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%v is not positive", amount))
	}
	if amount > c.creditBalance && !almostEqual(amount, c.creditBalance) {
		return NewInsufficientCreditError(amount, c.creditBalance)
	}

	entry, err := RestoreCreditEntry(kernel.NewUUID(), amount, EntryUse, description, at)
	if err != nil {
		return err
	}

	c.ledger = append(c.ledger, entry)
	c.creditBalance -= amount
	return nil
}

// almostEqual absorbs float accumulation noise in dollar amounts.
func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-6 && diff > -1e-6
}
