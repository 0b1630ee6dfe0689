// Package airdrop distributes a fixed per-item reward from a reserved
// token pool to the holders of uniquely identified items.
//
// Two authorization paths share one ledger: a pull path where a holder
// claims with a Merkle proof against a committed ownership snapshot, and
// a push path where the operator enumerates holders and pays them
// directly, optionally on a cooldown-gated schedule. The ledger enforces
// exactly-once payout and pool solvency for both paths.
//
// Package layout:
//
//	merkle      - sorted-pair Merkle commitment builder and proof verifier
//	ledger      - reserved-pool ledger, claim path, pause gate, event journal
//	distributor - push-path batch and range payouts, round scheduling
//	snapshot    - batched ownership enumerator and off-ledger proof store
//	network     - JSON-RPC client for the external item ledger
//	payout      - batch P2PKH settlement transaction builder
//	config      - runtime configuration and validation
package airdrop

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. Components that report
// progress (the enumerator, the round poller) derive their loggers from it.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	Level(zerolog.InfoLevel)

// SetLogLevel adjusts the global logger level. Unknown levels are ignored.
func SetLogLevel(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		Logger = Logger.Level(lvl)
	}
}
