// Package services holds stateless domain services: the pricing engine that
// derives an order's total from weights, extras and store settings, and the
// two-person verification policy shared by all check steps.
package services
