// Package order contains the Order aggregate and its workflow rules: the
// status state machine filtered by order type, machine assignments with
// their two-person verification and dryer sub-steps, bags, and the financial
// fields derived from the pricing engine.
package order
