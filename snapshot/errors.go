package snapshot

import "errors"

var (
	// ErrEnumerationFailed indicates a ledger read kept failing after all
	// retry attempts; no partial snapshot is produced.
	ErrEnumerationFailed = errors.New("snapshot: enumeration failed")

	// ErrEmptySnapshot indicates the item ledger holds no live items.
	ErrEmptySnapshot = errors.New("snapshot: no items in snapshot")

	// ErrEntitlementNotFound indicates the address has no entitlement in
	// the stored commitment.
	ErrEntitlementNotFound = errors.New("snapshot: entitlement not found")

	// ErrNoCommitment indicates the proof store holds no commitment yet.
	ErrNoCommitment = errors.New("snapshot: no commitment stored")

	// ErrAmountOverflow indicates an owner's aggregated entitlement does
	// not fit in uint64.
	ErrAmountOverflow = errors.New("snapshot: entitlement amount overflow")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("snapshot: required parameter is nil")
)
