// Package order provides the Order aggregate root and the escrow lifecycle
// state machine. An order is created together with its escrow hold: the buyer's
// funds are debited in the same atomic unit as the order row, and released,
// refunded, or split only through the transitions this package permits.
//
// The state machine:
//
//	pending_vendor_confirmation ──> escrow_funded ──> shipped ──> delivered ──> completed
//	            │                        │               │            │
//	            └──────> cancelled <─────┘               └─> disputed <┘
//	                                                          │
//	                                                          ├──> completed
//	                                                          └──> refunded
//
// Transitions are driven by a precomputed transition table; arbitrary jumps
// are rejected as conflicts. The escrow amount is immutable once funds are held.
package order
