package ledger

import "time"

// EventType identifies the kind of committed ledger event.
type EventType string

const (
	// EventRootUpdated records an atomic root replacement.
	EventRootUpdated EventType = "root_updated"
	// EventClaimed records a successful pull-path payout.
	EventClaimed EventType = "claimed"
	// EventPaid records a successful push-path payout.
	EventPaid EventType = "paid"
	// EventReservedAdded records funding of the reserved pool.
	EventReservedAdded EventType = "reserved_added"
	// EventPaused records activation of the emergency pause gate.
	EventPaused EventType = "paused"
	// EventResumed records deactivation of the emergency pause gate.
	EventResumed EventType = "resumed"
	// EventRoundCompleted records completion of a push-distribution round.
	EventRoundCompleted EventType = "round_completed"
	// EventEmergencyWithdrawal records a direct authority withdrawal.
	EventEmergencyWithdrawal EventType = "emergency_withdrawal"
	// EventTransferFailed records a payout whose token transfer failed and
	// was rolled back.
	EventTransferFailed EventType = "transfer_failed"
)

// Event is one committed, auditable ledger mutation. Every externally
// visible state change appends exactly one event to the journal.
type Event struct {
	Type   EventType
	Time   time.Time
	Addr   [20]byte // affected address (zero when not applicable)
	Amount uint64   // satoshis moved or reserved
	Root   []byte   // new root (EventRootUpdated only)
}

// Payout records one successful transfer within a push round.
type Payout struct {
	Recipient [20]byte
	Amount    uint64
}

// FailedTransfer records a recipient whose token transfer failed. The
// recipient is rolled back to unclaimed and may be retried in a later
// batch.
type FailedTransfer struct {
	Recipient [20]byte
	Amount    uint64
	Err       error
}

// BatchResult summarizes a push-distribution round.
type BatchResult struct {
	Paid      []Payout         // transfers that completed
	Skipped   [][20]byte       // recipients already claimed, left untouched
	Failed    []FailedTransfer // transfers that failed and were rolled back
	TotalPaid uint64           // amount actually deducted from the pool
}

// PersistedState is the durable portion of the ledger, excluding the
// claimed set which is stored per address.
type PersistedState struct {
	Root      []byte
	Reserved  uint64
	Paused    bool
	LastRound int64 // unix seconds, 0 = no round yet
}

// StateStore persists ledger state across process restarts so a restarted
// operator cannot double-pay. Claimed marks are written only after the
// corresponding transfer has completed.
type StateStore interface {
	// Load returns the persisted state and claimed set, or (nil, nil, nil)
	// when the store is empty.
	Load() (*PersistedState, map[[20]byte]bool, error)

	// SaveState overwrites the persisted scalar state.
	SaveState(st *PersistedState) error

	// MarkClaimed durably records that addr has been paid.
	MarkClaimed(addr [20]byte) error

	// AppendEvent appends ev to the durable event journal.
	AppendEvent(ev Event) error

	// Close releases the underlying resources.
	Close() error
}
