package ledger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitfsorg/libairdrop-go/merkle"
)

// Ledger is the authoritative distribution state: the committed snapshot
// root, the reserved token pool, the per-address claimed set, the pause
// flag and the last push-round timestamp. It is the only writer of that
// state; the pull path (Claim) and the push path (Distribute) both funnel
// through its guard so the no-double-pay and solvency invariants are
// enforced in exactly one place.
//
// Every state-mutating operation executes as one serialized unit. A
// nested call re-entering a value-moving operation while a transfer is in
// flight is rejected with ErrReentrantCall.
type Ledger struct {
	mu   sync.RWMutex
	busy atomic.Bool // set while a value-moving operation is in flight

	authority [20]byte
	vault     TokenVault
	store     StateStore // optional durable backing
	cooldown  time.Duration
	now       func() time.Time

	root      []byte
	reserved  uint64
	claimed   map[[20]byte]bool
	paused    bool
	lastRound time.Time

	journal []Event
}

// Params configures a new Ledger.
type Params struct {
	Authority [20]byte      // only this address may call gated operations
	Vault     TokenVault    // token balance and transfer provider
	Cooldown  time.Duration // minimum time between push rounds
	Store     StateStore    // optional; nil keeps state in memory only
	Clock     func() time.Time
}

// NewLedger creates a distribution ledger. When a StateStore is given,
// previously persisted state (root, reserved pool, claimed set, pause
// flag, last round) is loaded so a restarted process cannot double-pay.
func NewLedger(p Params) (*Ledger, error) {
	if p.Vault == nil {
		return nil, fmt.Errorf("%w: vault", ErrNilParam)
	}
	l := &Ledger{
		authority: p.Authority,
		vault:     p.Vault,
		store:     p.Store,
		cooldown:  p.Cooldown,
		now:       p.Clock,
		claimed:   make(map[[20]byte]bool),
	}
	if l.now == nil {
		l.now = time.Now
	}

	if p.Store != nil {
		st, claimed, err := p.Store.Load()
		if err != nil {
			return nil, fmt.Errorf("ledger: load state: %w", err)
		}
		if st != nil {
			l.root = st.Root
			l.reserved = st.Reserved
			l.paused = st.Paused
			if st.LastRound != 0 {
				l.lastRound = time.Unix(st.LastRound, 0)
			}
		}
		for addr := range claimed {
			l.claimed[addr] = true
		}
	}

	return l, nil
}

// enterTransfer marks a value-moving operation as in flight. It must be
// released with leaveTransfer. Failing the swap means another value-moving
// operation is active, either concurrently or through reentrancy.
func (l *Ledger) enterTransfer() error {
	if !l.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (l *Ledger) leaveTransfer() {
	l.busy.Store(false)
}

// requireAuthority rejects any caller other than the configured authority.
func (l *Ledger) requireAuthority(caller [20]byte) error {
	if caller != l.authority {
		return ErrUnauthorized
	}
	return nil
}

// guard is the shared precondition for both payout paths. Callers hold mu.
func (l *Ledger) guard(amount uint64) error {
	if l.paused {
		return ErrPaused
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if l.reserved < amount {
		return ErrInsufficientReserved
	}
	if l.vault.Balance() < amount {
		return ErrInsufficientBalance
	}
	return nil
}

// emit appends ev to the in-memory journal and, when a store is attached,
// to the durable journal. Callers hold mu.
func (l *Ledger) emit(ev Event) {
	ev.Time = l.now()
	l.journal = append(l.journal, ev)
	if l.store != nil {
		// Journal persistence is best-effort; the in-memory journal stays
		// authoritative for the running process.
		_ = l.store.AppendEvent(ev)
	}
}

// persist writes the scalar state through to the store. Callers hold mu.
func (l *Ledger) persist() error {
	if l.store == nil {
		return nil
	}
	st := &PersistedState{
		Root:     l.root,
		Reserved: l.reserved,
		Paused:   l.paused,
	}
	if !l.lastRound.IsZero() {
		st.LastRound = l.lastRound.Unix()
	}
	if err := l.store.SaveState(st); err != nil {
		return fmt.Errorf("ledger: persist state: %w", err)
	}
	return nil
}

// --- Read-only accessors ---

// Root returns the currently committed snapshot root, or nil if none.
func (l *Ledger) Root() []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.root == nil {
		return nil
	}
	out := make([]byte, len(l.root))
	copy(out, l.root)
	return out
}

// Reserved returns the current reserved pool.
func (l *Ledger) Reserved() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reserved
}

// Balance returns the vault's current token balance.
func (l *Ledger) Balance() uint64 {
	return l.vault.Balance()
}

// Paused reports whether the emergency pause gate is active.
func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}

// IsClaimed reports whether addr has already been paid through either path.
func (l *Ledger) IsClaimed(addr [20]byte) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.claimed[addr]
}

// LastRound returns the completion time of the last push round, or the
// zero time if no round has completed.
func (l *Ledger) LastRound() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRound
}

// Cooldown returns the configured minimum inter-round interval.
func (l *Ledger) Cooldown() time.Duration { return l.cooldown }

// Authority returns the address allowed to call gated operations.
func (l *Ledger) Authority() [20]byte { return l.authority }

// IsRoundDue reports whether a push round may run now: the ledger is not
// paused and the cooldown since the last round has elapsed. It is
// side-effect free and intended for scheduler polling.
func (l *Ledger) IsRoundDue() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.roundDue()
}

// roundDue implements IsRoundDue. Callers hold mu.
func (l *Ledger) roundDue() bool {
	if l.paused {
		return false
	}
	if l.lastRound.IsZero() {
		return true
	}
	return !l.now().Before(l.lastRound.Add(l.cooldown))
}

// Events returns a copy of the committed event journal, oldest first.
func (l *Ledger) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.journal))
	copy(out, l.journal)
	return out
}

// verifyProof checks a membership proof against the committed root.
// Callers hold mu.
func (l *Ledger) verifyProof(owner [20]byte, amount uint64, proof *merkle.Proof) error {
	if l.root == nil {
		return ErrNoRoot
	}
	leaf := merkle.Leaf{Owner: owner, Amount: amount}
	ok, err := merkle.VerifyProof(leaf, proof, l.root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if !ok {
		return ErrInvalidProof
	}
	return nil
}
