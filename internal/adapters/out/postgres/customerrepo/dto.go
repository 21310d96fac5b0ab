// Package customerrepo provides data transfer objects and mapping functions
// for customer persistence, including the append-only credit ledger.
package customerrepo

import (
	"time"

	"github.com/google/uuid"

	"laundry/internal/core/domain/model/customer"
	"laundry/internal/core/domain/model/kernel"
)

// CustomerDTO represents the database structure for persisting customers.
type CustomerDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	Phone         string `gorm:"index"`
	DeliveryFee   *float64
	CreditBalance float64

	Entries []CreditEntryDTO `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for customer entities.
func (CustomerDTO) TableName() string {
	return "customers"
}

// CreditEntryDTO represents one immutable ledger row. Rows are only ever
// inserted, never updated or deleted.
type CreditEntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index"`
	Amount      float64
	EntryType   string
	Description string
	OccurredAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for credit ledger rows.
func (CreditEntryDTO) TableName() string {
	return "credit_entries"
}

// fromDomain converts a customer aggregate to its database representation.
func fromDomain(aggregate *customer.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:            aggregate.ID().Bytes(),
		Name:          aggregate.Name(),
		Phone:         aggregate.Phone(),
		DeliveryFee:   aggregate.DeliveryFee(),
		CreditBalance: aggregate.CreditBalance(),
	}

	for _, entry := range aggregate.Ledger() {
		dto.Entries = append(dto.Entries, CreditEntryDTO{
			ID:          entry.ID().Bytes(),
			CustomerID:  dto.ID,
			Amount:      entry.Amount(),
			EntryType:   string(entry.EntryType()),
			Description: entry.Description(),
			OccurredAt:  entry.OccurredAt(),
		})
	}

	return dto
}

// toDomain converts a database DTO back to a customer aggregate. The ledger
// is validated against the stored balance during restoration.
func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	ledger := make([]customer.CreditEntry, 0, len(dto.Entries))
	for _, entryDTO := range dto.Entries {
		entryID, entryErr := kernel.UUIDFromBytes(entryDTO.ID[:])
		if entryErr != nil {
			return nil, entryErr
		}

		entry, entryErr := customer.RestoreCreditEntry(
			entryID,
			entryDTO.Amount,
			customer.EntryType(entryDTO.EntryType),
			entryDTO.Description,
			entryDTO.OccurredAt,
		)
		if entryErr != nil {
			return nil, entryErr
		}
		ledger = append(ledger, entry)
	}

	return customer.RestoreCustomer(id, dto.Name, dto.Phone, dto.DeliveryFee, dto.CreditBalance, ledger)
}
