package distributor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	airdrop "github.com/bitfsorg/libairdrop-go"
	"github.com/bitfsorg/libairdrop-go/ledger"
	"github.com/bitfsorg/libairdrop-go/network"
)

// Distributor drives the push path: operator- or scheduler-initiated
// payouts over explicit recipient lists or item-ID ranges. All ledger
// invariants (pause gate, cooldown, solvency, exactly-once) are enforced
// by the ledger itself; the distributor only resolves recipients and
// reports outcomes.
type Distributor struct {
	ledger        *ledger.Ledger
	items         network.ItemLedgerService
	authority     [20]byte
	rewardPerItem uint64
	log           zerolog.Logger
}

// New creates a push distributor acting as the given authority.
func New(l *ledger.Ledger, items network.ItemLedgerService, authority [20]byte, rewardPerItem uint64) (*Distributor, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: item ledger", ErrNilParam)
	}
	if rewardPerItem == 0 {
		return nil, fmt.Errorf("distributor: zero reward per item")
	}
	return &Distributor{
		ledger:        l,
		items:         items,
		authority:     authority,
		rewardPerItem: rewardPerItem,
		log:           airdrop.Logger.With().Str("component", "distributor").Logger(),
	}, nil
}

// DistributeBatch pays an explicit recipient list through the shared
// ledger mutation path.
func (d *Distributor) DistributeBatch(recipients [][20]byte, amounts []uint64) (*ledger.BatchResult, error) {
	result, err := d.ledger.Distribute(d.authority, recipients, amounts)
	if err != nil {
		return nil, err
	}
	d.logResult(result)
	return result, nil
}

// DistributeRange resolves the owners of items start..end (inclusive)
// through the item ledger and pays each holder rewardPerItem per item
// held. Burned or never-issued IDs are skipped, not errors. Holders of
// several items in the range receive one aggregated payout, matching the
// pull path's per-owner aggregation.
func (d *Distributor) DistributeRange(ctx context.Context, start, end uint64) (*ledger.BatchResult, error) {
	recipients, amounts, err := d.resolveRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	result, err := d.ledger.Distribute(d.authority, recipients, amounts)
	if err != nil {
		return nil, err
	}
	d.logResult(result)
	return result, nil
}

// IsRoundDue reports whether a scheduled round may run now. It is
// side-effect free; an external scheduler polls it before spending
// resources on PerformRound.
func (d *Distributor) IsRoundDue() bool {
	return d.ledger.IsRoundDue()
}

// PerformRound executes one full push round over every item currently on
// the ledger. It re-checks the due predicate so a stale scheduler cannot
// bypass the cooldown.
func (d *Distributor) PerformRound(ctx context.Context) (*ledger.BatchResult, error) {
	if !d.ledger.IsRoundDue() {
		return nil, ErrRoundNotDue
	}

	total, err := d.items.TotalItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("distributor: total items: %w", err)
	}
	if total == 0 {
		return nil, ErrEmptyRange
	}
	return d.DistributeRange(ctx, 1, total)
}

// RetryFailed re-attempts the failed transfers of a previous round as a
// fresh batch. The recipients were rolled back to unclaimed when they
// failed, so the ledger accepts them again.
func (d *Distributor) RetryFailed(result *ledger.BatchResult) (*ledger.BatchResult, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: result", ErrNilParam)
	}
	if len(result.Failed) == 0 {
		return nil, ErrNoFailures
	}

	recipients := make([][20]byte, len(result.Failed))
	amounts := make([]uint64, len(result.Failed))
	for i, f := range result.Failed {
		recipients[i] = f.Recipient
		amounts[i] = f.Amount
	}
	return d.DistributeBatch(recipients, amounts)
}

// resolveRange turns an item-ID range into an aggregated per-owner
// recipient list, ordered by each owner's first item in the range.
func (d *Distributor) resolveRange(ctx context.Context, start, end uint64) ([][20]byte, []uint64, error) {
	if start == 0 || start > end {
		return nil, nil, fmt.Errorf("%w: %d..%d", ErrInvalidRange, start, end)
	}

	var (
		order  [][20]byte
		counts = make(map[[20]byte]uint64)
		missed int
	)
	for id := start; id <= end; id++ {
		owner, err := d.items.OwnerOf(ctx, id)
		if errors.Is(err, network.ErrItemNotFound) {
			missed++
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("distributor: owner of item %d: %w", id, err)
		}
		if counts[owner] == 0 {
			order = append(order, owner)
		}
		counts[owner] += d.rewardPerItem
	}
	if len(order) == 0 {
		return nil, nil, ErrEmptyRange
	}

	amounts := make([]uint64, len(order))
	for i, owner := range order {
		amounts[i] = counts[owner]
	}
	d.log.Debug().
		Uint64("from", start).
		Uint64("to", end).
		Int("recipients", len(order)).
		Int("skipped", missed).
		Msg("range resolved")
	return order, amounts, nil
}

func (d *Distributor) logResult(result *ledger.BatchResult) {
	ev := d.log.Info().
		Int("paid", len(result.Paid)).
		Int("skipped", len(result.Skipped)).
		Uint64("total", result.TotalPaid)
	if len(result.Failed) > 0 {
		ev = d.log.Warn().
			Int("paid", len(result.Paid)).
			Int("failed", len(result.Failed)).
			Uint64("total", result.TotalPaid)
	}
	ev.Msg("round complete")
}
