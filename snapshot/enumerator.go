package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	airdrop "github.com/bitfsorg/libairdrop-go"
	"github.com/bitfsorg/libairdrop-go/network"
)

const (
	// DefaultBatchSize bounds how many owner lookups are in flight at once.
	DefaultBatchSize = 100
	// DefaultMaxAttempts is the per-read retry budget.
	DefaultMaxAttempts = 5
	// DefaultBaseDelay is the first retry delay; it doubles per attempt.
	DefaultBaseDelay = 200 * time.Millisecond
)

// ItemOwner is one (itemId, owner) fact read from the external ledger.
type ItemOwner struct {
	ID    uint64
	Owner [20]byte
}

// OwnershipSnapshot is the complete item→owner set at a point in time,
// sorted by item ID. It is a transient off-ledger artifact; only its
// commitment root ever reaches the ledger.
type OwnershipSnapshot struct {
	Items []ItemOwner
	Taken time.Time
}

// Enumerator reads the complete ownership set from an external item
// ledger. Reads run in fixed-size batches, parallel within a batch and
// sequential across batches, so an unreliable or rate-limited node is not
// overwhelmed. Every read retries with exponentially doubling delay;
// exhausting the budget aborts the whole enumeration so no partial
// snapshot can ever be committed.
type Enumerator struct {
	items       network.ItemLedgerService
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	log         zerolog.Logger
}

// EnumeratorOption adjusts an Enumerator.
type EnumeratorOption func(*Enumerator)

// WithBatchSize sets the per-batch lookup fan-out.
func WithBatchSize(n int) EnumeratorOption {
	return func(e *Enumerator) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithRetry sets the per-read attempt budget and base delay.
func WithRetry(attempts int, base time.Duration) EnumeratorOption {
	return func(e *Enumerator) {
		if attempts > 0 {
			e.maxAttempts = attempts
		}
		if base > 0 {
			e.baseDelay = base
		}
	}
}

// WithLogger overrides the progress logger.
func WithLogger(log zerolog.Logger) EnumeratorOption {
	return func(e *Enumerator) { e.log = log }
}

// NewEnumerator creates an enumerator over the given item ledger.
func NewEnumerator(items network.ItemLedgerService, opts ...EnumeratorOption) (*Enumerator, error) {
	if items == nil {
		return nil, fmt.Errorf("%w: item ledger", ErrNilParam)
	}
	e := &Enumerator{
		items:       items,
		batchSize:   DefaultBatchSize,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		log:         airdrop.Logger.With().Str("component", "enumerator").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Enumerate reads the full {itemId → owner} set. Burned items (not-found
// reads) are skipped; any other persistent failure aborts the run. The
// result is aggregated deterministically, sorted by item ID, regardless
// of network response ordering.
func (e *Enumerator) Enumerate(ctx context.Context) (*OwnershipSnapshot, error) {
	start := time.Now()

	var total uint64
	err := e.withRetry(ctx, "total items", func() error {
		var err error
		total, err = e.items.TotalItems(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Uint64("total", total).Msg("enumerating item owners")

	var (
		mu    sync.Mutex
		items []ItemOwner
	)
	for batchStart := uint64(1); batchStart <= total; batchStart += uint64(e.batchSize) {
		batchEnd := batchStart + uint64(e.batchSize) - 1
		if batchEnd > total {
			batchEnd = total
		}

		g, gctx := errgroup.WithContext(ctx)
		for id := batchStart; id <= batchEnd; id++ {
			g.Go(func() error {
				var owner [20]byte
				err := e.withRetry(gctx, fmt.Sprintf("owner of item %d", id), func() error {
					var err error
					owner, err = e.items.OwnerOf(gctx, id)
					return err
				})
				if errors.Is(err, network.ErrItemNotFound) {
					// Burned item: not part of the snapshot.
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				items = append(items, ItemOwner{ID: id, Owner: owner})
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		e.log.Debug().
			Uint64("from", batchStart).
			Uint64("to", batchEnd).
			Int("collected", len(items)).
			Msg("batch complete")
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	e.log.Info().
		Int("items", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("enumeration complete")
	return &OwnershipSnapshot{Items: items, Taken: start}, nil
}

// withRetry runs fn up to the attempt budget, doubling the delay between
// attempts starting from the base delay. Not-found reads and context
// cancellation are surfaced immediately; only transient failures retry.
func (e *Enumerator) withRetry(ctx context.Context, op string, fn func() error) error {
	delay := e.baseDelay
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, network.ErrItemNotFound) || ctx.Err() != nil {
			return lastErr
		}
		if attempt == e.maxAttempts {
			break
		}
		e.log.Warn().
			Err(lastErr).
			Str("op", op).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("read failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%w: %s after %d attempts: %w", ErrEnumerationFailed, op, e.maxAttempts, lastErr)
}
