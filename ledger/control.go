package ledger

import (
	"fmt"

	"github.com/bitfsorg/libairdrop-go/merkle"
)

// UpdateRoot atomically replaces the committed snapshot root. All proofs
// against the previous root become invalid the instant the new root is
// installed; there is no transitional state where both verify.
//
// Authority-only, but deliberately not pause-gated: root rotation must
// remain available while an emergency is being remediated.
func (l *Ledger) UpdateRoot(caller [20]byte, root []byte) error {
	if err := l.requireAuthority(caller); err != nil {
		return err
	}
	if len(root) != merkle.HashSize {
		return fmt.Errorf("%w: root must be %d bytes", ErrInvalidRoot, merkle.HashSize)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	newRoot := make([]byte, merkle.HashSize)
	copy(newRoot, root)
	l.root = newRoot

	if err := l.persist(); err != nil {
		return err
	}
	l.emit(Event{Type: EventRootUpdated, Root: newRoot})
	return nil
}

// AddReserved earmarks amount for payouts. The tokens must already sit in
// the vault: the call proves balance >= reserved + amount before
// incrementing, which keeps reserved <= balance at all times.
func (l *Ledger) AddReserved(caller [20]byte, amount uint64) error {
	if err := l.requireAuthority(caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	newReserved := l.reserved + amount
	if newReserved < l.reserved {
		return ErrAmountOverflow
	}
	if l.vault.Balance() < newReserved {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, newReserved, l.vault.Balance())
	}
	l.reserved = newReserved

	if err := l.persist(); err != nil {
		return err
	}
	l.emit(Event{Type: EventReservedAdded, Amount: amount})
	return nil
}

// EmergencyWithdraw transfers up to the full vault balance directly to the
// authority. It is an escape hatch, not an accounted payout: it bypasses
// the reserved pool and touches neither the claimed set nor reserved.
// Authority-only and not pause-gated.
func (l *Ledger) EmergencyWithdraw(caller [20]byte, amount uint64) error {
	if err := l.requireAuthority(caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if err := l.enterTransfer(); err != nil {
		return err
	}
	defer l.leaveTransfer()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.vault.Balance() < amount {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, amount, l.vault.Balance())
	}
	if err := l.vault.Transfer(l.authority, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	l.emit(Event{Type: EventEmergencyWithdrawal, Addr: l.authority, Amount: amount})
	return nil
}

// Pause activates the emergency gate. Both payout paths fail with
// ErrPaused until Resume is called. Idempotent; every call emits a status
// event.
func (l *Ledger) Pause(caller [20]byte) error {
	if err := l.requireAuthority(caller); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.paused = true
	if err := l.persist(); err != nil {
		return err
	}
	l.emit(Event{Type: EventPaused})
	return nil
}

// Resume deactivates the emergency gate. Idempotent; every call emits a
// status event.
func (l *Ledger) Resume(caller [20]byte) error {
	if err := l.requireAuthority(caller); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.paused = false
	if err := l.persist(); err != nil {
		return err
	}
	l.emit(Event{Type: EventResumed})
	return nil
}
