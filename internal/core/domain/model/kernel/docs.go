// Package kernel provides core domain primitives shared by every aggregate in
// the escrow system. It implements fundamental building blocks following
// Domain-Driven Design principles.
//
// The package contains two value objects:
//   - UUID: identity for aggregates and entities, wrapping github.com/google/uuid
//   - Money: an amount in minor currency units paired with its ISO currency code
//
// Both are immutable, validate themselves on construction, and expose Validate
// methods for use when reconstructing state from persistence.
package kernel
