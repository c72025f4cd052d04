// Package wallet provides the Wallet aggregate and its append-only transaction
// ledger. The wallet's materialized balance is derived from, and must always
// equal, the sum of its transaction amounts; the ledger is the source of truth.
//
// Balance mutations happen only through the aggregate's Debit and Credit
// methods, which return the transaction entity to be appended alongside the
// updated balance. Each logical operation carries an idempotency key so a
// retried or concurrently-duplicated call never produces a second mutation.
package wallet
