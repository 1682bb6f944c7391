// Package order implements the Order aggregate root: the single document that
// carries an order from placement to delivery or cancellation.
//
// The package includes:
//   - Order: identity, parties, items, derived amounts, tracking log, settlement
//   - Status: the lifecycle enum and the one transition table
//   - TrackingLog: the append-only history, exposed as lazy iter.Seq sequences
//   - Snapshot / RestoreOrder: the persisted document shape
//
// Key business rules:
//   - Amounts are derived by the pricing package and never authored directly
//   - Statuses only move forward along the transition table; delivered and
//     cancelled are terminal
//   - The settlement is computed once, by the delivered transition, and never changes
//   - Every transition appends exactly one tracking entry and raises StatusChanged
//   - A failed mutation leaves the order exactly as it was
package order
