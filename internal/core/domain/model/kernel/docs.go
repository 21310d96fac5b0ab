// Package kernel provides core domain primitives for the laundry system.
// It implements the fundamental building blocks shared by every aggregate.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Actor: a resolved staff identity with display initials, used for
//     assignment attribution and two-person verification
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are immutable and thread-safe.
package kernel
