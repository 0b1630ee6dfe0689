package payout

import "errors"

var (
	// ErrInsufficientFunds indicates the tracked UTXOs cannot cover the
	// pending payouts plus fee.
	ErrInsufficientFunds = errors.New("payout: insufficient funds")

	// ErrDustOutput indicates a payout below the dust limit.
	ErrDustOutput = errors.New("payout: amount below dust limit")

	// ErrNothingPending indicates a flush with no pending payouts.
	ErrNothingPending = errors.New("payout: nothing pending")

	// ErrScriptBuild indicates a locking script could not be constructed.
	ErrScriptBuild = errors.New("payout: script build failed")

	// ErrSigningFailed indicates the settlement transaction could not be
	// signed.
	ErrSigningFailed = errors.New("payout: signing failed")

	// ErrBroadcastFailed indicates the node rejected the settlement
	// transaction.
	ErrBroadcastFailed = errors.New("payout: broadcast failed")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("payout: required parameter is nil")
)
