// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"laundry/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest interface covering the aggregates it
// touches, so tests mock only what the handler really uses.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CustomerRepoFactory provides access to the customer repository within a transaction.
	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	// ReservationsFactory provides access to the machine reservation store
	// within a transaction.
	ReservationsFactory interface {
		MachineReservations() ports.MachineReservations
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ScanUoW manages transactions for operations that touch an order and
	// the machine reservation table together.
	ScanUoW interface {
		TxManager
		OrderRepoFactory
		ReservationsFactory
	}

	// ScanUoWFactory creates new scan unit of work instances.
	ScanUoWFactory interface {
		Create() ScanUoW
	}

	// ReservationsUoW manages transactions for reservation-only maintenance.
	ReservationsUoW interface {
		TxManager
		ReservationsFactory
	}

	// ReservationsUoWFactory creates new reservation unit of work instances.
	ReservationsUoWFactory interface {
		Create() ReservationsUoW
	}

	// UoW manages transactions across the order and customer aggregates.
	// Used for payment commands that mutate an order and the customer's
	// credit ledger atomically.
	UoW interface {
		TxManager
		OrderRepoFactory
		CustomerRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
