// Package errs provides standardized error types for the escrow application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - InsufficientFundsError: For when a wallet cannot cover a debit
//   - PermissionDeniedError: For when an actor is not authorized to act
//   - ConflictError: For idempotency and state-machine violations
//   - UnavailableError: For transient storage failures that exhausted retries
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The first five kinds are surfaced to callers directly with no internal retry;
// UnavailableError is produced only after the bounded retry policy has given up
// on a transient storage error. Raw storage errors never cross the transport
// boundary.
package errs
