package ledger

import "fmt"

// Distribute executes the push path over an explicit recipient list. Both
// payout paths share the same claimed set, so an address paid through
// Claim is skipped here and vice versa.
//
// The whole batch is checked for solvency once, upfront, against the sum
// of all amounts. The loop then skips recipients that are already claimed
// rather than aborting, and checks every transfer's result: a failed
// transfer rolls that recipient back to unclaimed and is reported in the
// result's Failed list for a later retry, while the batch continues. The
// reserved pool is deducted per successful transfer, before the external
// call, so reserved never exceeds the vault balance even when the batch
// stops early. A durable-store failure after a transfer returns the
// partial result alongside the error so the caller knows who was paid.
//
// Preconditions: caller is the authority, the ledger is not paused, the
// inter-round cooldown has elapsed, and the slices have equal length with
// no zero amount.
func (l *Ledger) Distribute(caller [20]byte, recipients [][20]byte, amounts []uint64) (*BatchResult, error) {
	if err := l.requireAuthority(caller); err != nil {
		return nil, err
	}
	if len(recipients) != len(amounts) {
		return nil, fmt.Errorf("%w: %d recipients, %d amounts", ErrLengthMismatch, len(recipients), len(amounts))
	}
	if len(recipients) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := l.enterTransfer(); err != nil {
		return nil, err
	}
	defer l.leaveTransfer()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused {
		return nil, ErrPaused
	}
	if !l.roundDue() {
		return nil, ErrCooldownActive
	}

	var total uint64
	for i, amount := range amounts {
		if amount == 0 {
			return nil, fmt.Errorf("%w: recipient %d", ErrZeroAmount, i)
		}
		if total+amount < total {
			return nil, ErrAmountOverflow
		}
		total += amount
	}
	if l.reserved < total {
		return nil, fmt.Errorf("%w: need %d, reserved %d", ErrInsufficientReserved, total, l.reserved)
	}
	if l.vault.Balance() < total {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, total, l.vault.Balance())
	}

	result := &BatchResult{}
	for i, recipient := range recipients {
		if l.claimed[recipient] {
			result.Skipped = append(result.Skipped, recipient)
			continue
		}
		amount := amounts[i]

		// Mark and deduct before the external call, roll back on failure,
		// so reserved never exceeds balance no matter where the loop stops.
		l.claimed[recipient] = true
		l.reserved -= amount
		if err := l.vault.Transfer(recipient, amount); err != nil {
			delete(l.claimed, recipient)
			l.reserved += amount
			result.Failed = append(result.Failed, FailedTransfer{
				Recipient: recipient,
				Amount:    amount,
				Err:       err,
			})
			l.emit(Event{Type: EventTransferFailed, Addr: recipient, Amount: amount})
			continue
		}
		result.Paid = append(result.Paid, Payout{Recipient: recipient, Amount: amount})
		result.TotalPaid += amount
		l.emit(Event{Type: EventPaid, Addr: recipient, Amount: amount})

		if l.store != nil {
			if err := l.store.MarkClaimed(recipient); err != nil {
				// The transfer already happened; the accounting above
				// stands. Surface what was actually paid with the error.
				l.lastRound = l.now()
				return result, fmt.Errorf("ledger: persist claim: %w", err)
			}
		}
	}

	l.lastRound = l.now()
	if err := l.persist(); err != nil {
		return result, err
	}
	l.emit(Event{Type: EventRoundCompleted, Amount: result.TotalPaid})
	return result, nil
}
