// Package kernel provides the value objects shared by the order engine's domain model.
//
// The package includes:
//   - UUID: identifiers for orders and every referenced party
//   - Money: amounts in integer minor units, converted to decimals only at the boundary
//   - Rate: validated fractions used for taxes and commissions
//   - GeoPoint and Address: delivery destination and tracking locations
//
// Values are immutable and validated at construction; zero values fail Validate.
package kernel
