package ledger

import (
	"fmt"

	"github.com/bitfsorg/libairdrop-go/merkle"
)

// Claim executes the pull path: the caller proves membership of the
// (caller, amount) leaf in the committed snapshot and is paid once.
//
// Validation order, with no state mutated on any failure:
//  1. caller not yet claimed
//  2. amount non-zero
//  3. proof reduces to the current root
//  4. shared payout guard (not paused, pool and balance solvent)
//
// On success the caller is marked claimed and the pool decremented before
// the external transfer is performed, so a reentrant call cannot repeat
// the state transition. A failed transfer rolls the mutation back and
// returns ErrTransferFailed.
func (l *Ledger) Claim(caller [20]byte, proof *merkle.Proof, amount uint64) error {
	if proof == nil {
		return fmt.Errorf("%w: proof", ErrNilParam)
	}
	if err := l.enterTransfer(); err != nil {
		return err
	}
	defer l.leaveTransfer()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.claimed[caller] {
		return ErrAlreadyClaimed
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if err := l.verifyProof(caller, amount, proof); err != nil {
		return err
	}
	if err := l.guard(amount); err != nil {
		return err
	}

	// Ledger mutation precedes the external call.
	l.claimed[caller] = true
	l.reserved -= amount

	if err := l.vault.Transfer(caller, amount); err != nil {
		delete(l.claimed, caller)
		l.reserved += amount
		l.emit(Event{Type: EventTransferFailed, Addr: caller, Amount: amount})
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	if l.store != nil {
		if err := l.store.MarkClaimed(caller); err != nil {
			return fmt.Errorf("ledger: persist claim: %w", err)
		}
	}
	if err := l.persist(); err != nil {
		return err
	}
	l.emit(Event{Type: EventClaimed, Addr: caller, Amount: amount})
	return nil
}
