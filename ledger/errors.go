package ledger

import "errors"

var (
	// ErrUnauthorized indicates the caller is not the ledger authority.
	ErrUnauthorized = errors.New("ledger: caller is not the authority")

	// ErrPaused indicates the emergency pause gate is active.
	ErrPaused = errors.New("ledger: distribution is paused")

	// ErrAlreadyClaimed indicates the address has already been paid.
	ErrAlreadyClaimed = errors.New("ledger: address already claimed")

	// ErrZeroAmount indicates a payout amount of zero.
	ErrZeroAmount = errors.New("ledger: zero amount")

	// ErrInvalidProof indicates the membership proof does not reduce to the
	// current root.
	ErrInvalidProof = errors.New("ledger: invalid claim proof")

	// ErrNoRoot indicates no snapshot root has been committed yet.
	ErrNoRoot = errors.New("ledger: no root committed")

	// ErrInvalidRoot indicates a root of the wrong size.
	ErrInvalidRoot = errors.New("ledger: invalid root")

	// ErrInsufficientReserved indicates the reserved pool cannot cover the
	// payout.
	ErrInsufficientReserved = errors.New("ledger: insufficient reserved pool")

	// ErrInsufficientBalance indicates the vault balance cannot cover the
	// payout.
	ErrInsufficientBalance = errors.New("ledger: insufficient vault balance")

	// ErrLengthMismatch indicates recipient and amount slices of different
	// lengths.
	ErrLengthMismatch = errors.New("ledger: recipients and amounts length mismatch")

	// ErrEmptyBatch indicates a push round with no recipients.
	ErrEmptyBatch = errors.New("ledger: empty batch")

	// ErrAmountOverflow indicates the batch total overflows uint64.
	ErrAmountOverflow = errors.New("ledger: batch total overflows")

	// ErrCooldownActive indicates the inter-round cooldown has not elapsed.
	ErrCooldownActive = errors.New("ledger: round cooldown active")

	// ErrReentrantCall indicates a value-moving operation was entered while
	// another one was in flight.
	ErrReentrantCall = errors.New("ledger: reentrant call rejected")

	// ErrTransferFailed indicates the external token transfer failed; the
	// ledger mutation was rolled back.
	ErrTransferFailed = errors.New("ledger: token transfer failed")

	// ErrVaultInsufficientFunds indicates the vault cannot fund a transfer.
	ErrVaultInsufficientFunds = errors.New("ledger: vault has insufficient funds")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")
)
