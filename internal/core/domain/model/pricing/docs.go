// Package pricing is the pricing and commission calculator. Every function is
// pure: configuration (tariffs, fee rules, promotions) is passed in per call
// and all arithmetic is done in kernel.Money minor units, rounding half-up.
package pricing
