package distributor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	airdrop "github.com/bitfsorg/libairdrop-go"
)

// Poller is the concrete shape of the external scheduler boundary: it
// polls the side-effect-free due predicate on an interval and invokes a
// round only when the predicate holds, so idle polls stay cheap.
type Poller struct {
	dist     *Distributor
	interval time.Duration
	log      zerolog.Logger
}

// NewPoller creates a round poller checking every interval.
func NewPoller(d *Distributor, interval time.Duration) (*Poller, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: distributor", ErrNilParam)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("distributor: poll interval must be positive")
	}
	return &Poller{
		dist:     d,
		interval: interval,
		log:      airdrop.Logger.With().Str("component", "poller").Logger(),
	}, nil
}

// Run polls until ctx is cancelled. Round failures are logged and polling
// continues; a paused ledger simply makes the predicate false until the
// operator resumes.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info().Dur("interval", p.interval).Msg("round poller started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("round poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if !p.dist.IsRoundDue() {
				continue
			}
			result, err := p.dist.PerformRound(ctx)
			if err != nil {
				// Lost the race with a manual round, or a real failure.
				if errors.Is(err, ErrRoundNotDue) {
					continue
				}
				p.log.Error().Err(err).Msg("scheduled round failed")
				continue
			}
			p.log.Info().
				Int("paid", len(result.Paid)).
				Uint64("total", result.TotalPaid).
				Msg("scheduled round complete")
		}
	}
}
