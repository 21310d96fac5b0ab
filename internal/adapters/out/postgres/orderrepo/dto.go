// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling the conversion between domain entities and database
// representations, including the bag and machine assignment child tables.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Bags, machine assignments and extras live in child tables loaded with the
// aggregate.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayNumber int64     `gorm:"uniqueIndex"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index"`
	OrderType     string
	Status        string `gorm:"index"`
	KeepSeparated bool
	IsSameDay     bool

	Subtotal      float64
	DeliveryFee   float64
	SameDayFee    float64
	TotalAmount   float64
	CreditApplied float64
	AmountPaid    float64
	PaymentStatus string
	IsPaid        bool
	PaymentMethod string

	TransferredBy     ActorDTO `gorm:"embedded;embeddedPrefix:transferred_by_"`
	TransferredAt     *time.Time
	LayeredBy         ActorDTO `gorm:"embedded;embeddedPrefix:layered_by_"`
	LayeredAt         *time.Time
	FoldingStartedBy  ActorDTO `gorm:"embedded;embeddedPrefix:folding_started_by_"`
	FoldingStartedAt  *time.Time
	FoldingFinishedBy ActorDTO `gorm:"embedded;embeddedPrefix:folding_finished_by_"`
	FoldingFinishedAt *time.Time
	FinalCheckedBy    ActorDTO `gorm:"embedded;embeddedPrefix:final_checked_by_"`
	FinalCheckedAt    *time.Time

	Bags     []BagDTO               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Machines []MachineAssignmentDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Extras   []ExtraUsageDTO        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ActorDTO is the embedded two-column representation of an optional actor.
// Both columns are null when the step has not happened yet.
type ActorDTO struct {
	ID       *string
	Initials *string
}

func actorFromDomain(actor *kernel.Actor) ActorDTO {
	if actor == nil {
		return ActorDTO{}
	}
	id := actor.ID()
	initials := actor.Initials()
	return ActorDTO{ID: &id, Initials: &initials}
}

func actorToDomain(dto ActorDTO) (*kernel.Actor, error) {
	if dto.ID == nil {
		return nil, nil
	}
	var initials string
	if dto.Initials != nil {
		initials = *dto.Initials
	}
	actor, err := kernel.RestoreActor(*dto.ID, initials)
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// BagDTO represents one physical bag row.
type BagDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Identifier  string    `gorm:"primaryKey"`
	Weight      float64
	Color       string
	Description string
}

// TableName specifies the database table name for bag rows.
func (BagDTO) TableName() string {
	return "bags"
}

// MachineAssignmentDTO represents one machine assignment row, including the
// dryer sub-step columns.
type MachineAssignmentDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	MachineID     string    `gorm:"index"`
	MachineType   string
	BagIdentifier string

	AssignedBy ActorDTO `gorm:"embedded;embeddedPrefix:assigned_by_"`
	AssignedAt time.Time

	IsChecked bool
	CheckedBy ActorDTO `gorm:"embedded;embeddedPrefix:checked_by_"`
	CheckedAt *time.Time

	RemovedAt *time.Time `gorm:"index"`

	UnloadedBy      ActorDTO `gorm:"embedded;embeddedPrefix:unloaded_by_"`
	UnloadedAt      *time.Time
	IsUnloadChecked bool
	UnloadCheckedBy ActorDTO `gorm:"embedded;embeddedPrefix:unload_checked_by_"`
	UnloadCheckedAt *time.Time

	IsFolding        bool
	FoldingStartedBy ActorDTO `gorm:"embedded;embeddedPrefix:folding_started_by_"`
	FoldingStartedAt *time.Time
	IsFolded         bool
	FoldedBy         ActorDTO `gorm:"embedded;embeddedPrefix:folded_by_"`
	FoldedAt         *time.Time
}

// TableName specifies the database table name for machine assignment rows.
func (MachineAssignmentDTO) TableName() string {
	return "machine_assignments"
}

// ExtraUsageDTO represents one applied extra item row.
type ExtraUsageDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID        string    `gorm:"primaryKey"`
	Quantity      float64
	OverrideTotal *float64
}

// TableName specifies the database table name for extra usage rows.
func (ExtraUsageDTO) TableName() string {
	return "order_extras"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		DisplayNumber: aggregate.DisplayNumber(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		OrderType:     string(aggregate.OrderType()),
		Status:        string(aggregate.Status()),
		KeepSeparated: aggregate.KeepSeparated(),
		IsSameDay:     aggregate.IsSameDay(),

		Subtotal:      aggregate.Subtotal(),
		DeliveryFee:   aggregate.DeliveryFee(),
		SameDayFee:    aggregate.SameDayFee(),
		TotalAmount:   aggregate.TotalAmount(),
		CreditApplied: aggregate.CreditApplied(),
		AmountPaid:    aggregate.AmountPaid(),
		PaymentStatus: string(aggregate.PaymentStatus()),
		IsPaid:        aggregate.IsPaid(),
		PaymentMethod: aggregate.PaymentMethod(),

		TransferredBy:     actorFromDomain(aggregate.TransferredBy()),
		TransferredAt:     aggregate.TransferredAt(),
		LayeredBy:         actorFromDomain(aggregate.LayeredBy()),
		LayeredAt:         aggregate.LayeredAt(),
		FoldingStartedBy:  actorFromDomain(aggregate.FoldingStartedBy()),
		FoldingStartedAt:  aggregate.FoldingStartedAt(),
		FoldingFinishedBy: actorFromDomain(aggregate.FoldingFinishedBy()),
		FoldingFinishedAt: aggregate.FoldingFinishedAt(),
		FinalCheckedBy:    actorFromDomain(aggregate.FinalCheckedBy()),
		FinalCheckedAt:    aggregate.FinalCheckedAt(),
	}

	for _, bag := range aggregate.Bags() {
		dto.Bags = append(dto.Bags, BagDTO{
			OrderID:     dto.ID,
			Identifier:  bag.Identifier(),
			Weight:      bag.Weight(),
			Color:       bag.Color(),
			Description: bag.Description(),
		})
	}

	for _, m := range aggregate.Machines() {
		dto.Machines = append(dto.Machines, MachineAssignmentDTO{
			ID:            m.ID().Bytes(),
			OrderID:       dto.ID,
			MachineID:     m.MachineID(),
			MachineType:   string(m.MachineType()),
			BagIdentifier: m.BagIdentifier(),

			AssignedBy: actorFromDomain(ptrTo(m.AssignedBy())),
			AssignedAt: m.AssignedAt(),

			IsChecked: m.IsChecked(),
			CheckedBy: actorFromDomain(m.CheckedBy()),
			CheckedAt: m.CheckedAt(),

			RemovedAt: m.RemovedAt(),

			UnloadedBy:      actorFromDomain(m.UnloadedBy()),
			UnloadedAt:      m.UnloadedAt(),
			IsUnloadChecked: m.IsUnloadChecked(),
			UnloadCheckedBy: actorFromDomain(m.UnloadCheckedBy()),
			UnloadCheckedAt: m.UnloadCheckedAt(),

			IsFolding:        m.IsFolding(),
			FoldingStartedBy: actorFromDomain(m.FoldingStartedBy()),
			FoldingStartedAt: m.FoldingStartedAt(),
			IsFolded:         m.IsFolded(),
			FoldedBy:         actorFromDomain(m.FoldedBy()),
			FoldedAt:         m.FoldedAt(),
		})
	}

	for _, extra := range aggregate.Extras() {
		dto.Extras = append(dto.Extras, ExtraUsageDTO{
			OrderID:       dto.ID,
			ItemID:        extra.ItemID,
			Quantity:      extra.Quantity,
			OverrideTotal: extra.OverrideTotal,
		})
	}

	return dto
}

func ptrTo(actor kernel.Actor) *kernel.Actor {
	return &actor
}

// toDomain converts a database DTO tree back to an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	bags := make([]*order.Bag, 0, len(dto.Bags))
	for _, bagDTO := range dto.Bags {
		bag, bagErr := order.RestoreBag(bagDTO.Identifier, bagDTO.Weight, bagDTO.Color, bagDTO.Description)
		if bagErr != nil {
			return nil, bagErr
		}
		bags = append(bags, bag)
	}

	machines := make([]*order.MachineAssignment, 0, len(dto.Machines))
	for _, machineDTO := range dto.Machines {
		assignment, machineErr := assignmentToDomain(machineDTO)
		if machineErr != nil {
			return nil, machineErr
		}
		machines = append(machines, assignment)
	}

	extras := make([]order.ExtraUsage, 0, len(dto.Extras))
	for _, extraDTO := range dto.Extras {
		extras = append(extras, order.ExtraUsage{
			ItemID:        extraDTO.ItemID,
			Quantity:      extraDTO.Quantity,
			OverrideTotal: extraDTO.OverrideTotal,
		})
	}

	transferredBy, err := actorToDomain(dto.TransferredBy)
	if err != nil {
		return nil, err
	}
	layeredBy, err := actorToDomain(dto.LayeredBy)
	if err != nil {
		return nil, err
	}
	foldingStartedBy, err := actorToDomain(dto.FoldingStartedBy)
	if err != nil {
		return nil, err
	}
	foldingFinishedBy, err := actorToDomain(dto.FoldingFinishedBy)
	if err != nil {
		return nil, err
	}
	finalCheckedBy, err := actorToDomain(dto.FinalCheckedBy)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, dto.DisplayNumber, customerID, order.OrderType(dto.OrderType),
		order.RestoredOrderState{
			Status:        order.Status(dto.Status),
			KeepSeparated: dto.KeepSeparated,
			IsSameDay:     dto.IsSameDay,
			Bags:          bags,
			Machines:      machines,
			Extras:        extras,

			Subtotal:      dto.Subtotal,
			DeliveryFee:   dto.DeliveryFee,
			SameDayFee:    dto.SameDayFee,
			TotalAmount:   dto.TotalAmount,
			CreditApplied: dto.CreditApplied,
			AmountPaid:    dto.AmountPaid,
			PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
			IsPaid:        dto.IsPaid,
			PaymentMethod: dto.PaymentMethod,

			TransferredBy:     transferredBy,
			TransferredAt:     dto.TransferredAt,
			LayeredBy:         layeredBy,
			LayeredAt:         dto.LayeredAt,
			FoldingStartedBy:  foldingStartedBy,
			FoldingStartedAt:  dto.FoldingStartedAt,
			FoldingFinishedBy: foldingFinishedBy,
			FoldingFinishedAt: dto.FoldingFinishedAt,
			FinalCheckedBy:    finalCheckedBy,
			FinalCheckedAt:    dto.FinalCheckedAt,
		})
}

func assignmentToDomain(dto MachineAssignmentDTO) (*order.MachineAssignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	assignedBy, err := actorToDomain(dto.AssignedBy)
	if err != nil {
		return nil, err
	}
	if assignedBy == nil {
		return nil, errs.NewValueIsRequiredError("assignedBy")
	}

	checkedBy, err := actorToDomain(dto.CheckedBy)
	if err != nil {
		return nil, err
	}
	unloadedBy, err := actorToDomain(dto.UnloadedBy)
	if err != nil {
		return nil, err
	}
	unloadCheckedBy, err := actorToDomain(dto.UnloadCheckedBy)
	if err != nil {
		return nil, err
	}
	foldingStartedBy, err := actorToDomain(dto.FoldingStartedBy)
	if err != nil {
		return nil, err
	}
	foldedBy, err := actorToDomain(dto.FoldedBy)
	if err != nil {
		return nil, err
	}

	return order.RestoreMachineAssignment(
		id,
		dto.MachineID,
		order.MachineType(dto.MachineType),
		dto.BagIdentifier,
		*assignedBy,
		dto.AssignedAt,
		order.RestoredAssignmentState{
			IsChecked:        dto.IsChecked,
			CheckedBy:        checkedBy,
			CheckedAt:        dto.CheckedAt,
			RemovedAt:        dto.RemovedAt,
			UnloadedBy:       unloadedBy,
			UnloadedAt:       dto.UnloadedAt,
			IsUnloadChecked:  dto.IsUnloadChecked,
			UnloadCheckedBy:  unloadCheckedBy,
			UnloadCheckedAt:  dto.UnloadCheckedAt,
			IsFolding:        dto.IsFolding,
			FoldingStartedBy: foldingStartedBy,
			FoldingStartedAt: dto.FoldingStartedAt,
			IsFolded:         dto.IsFolded,
			FoldedBy:         foldedBy,
			FoldedAt:         dto.FoldedAt,
		},
	)
}
