// Package customer contains the Customer aggregate: contact data, the
// negotiated delivery fee and the append-only store-credit ledger whose
// signed sum always equals the cached balance.
package customer
