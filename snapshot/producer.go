package snapshot

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libairdrop-go/ledger"
)

// Producer runs the full snapshot pipeline: enumerate the ownership set,
// build the commitment, persist the proofs for recipients, and install
// the root on the ledger. Any failure aborts before the root is touched,
// so the ledger never sees a commitment whose proofs were not persisted.
type Producer struct {
	enum          *Enumerator
	ledger        *ledger.Ledger
	proofs        *BoltProofStore // optional
	authority     [20]byte
	rewardPerItem uint64
}

// NewProducer wires a snapshot producer. The proof store may be nil when
// the caller distributes entitlements through other means.
func NewProducer(enum *Enumerator, l *ledger.Ledger, proofs *BoltProofStore, authority [20]byte, rewardPerItem uint64) (*Producer, error) {
	if enum == nil {
		return nil, fmt.Errorf("%w: enumerator", ErrNilParam)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	if rewardPerItem == 0 {
		return nil, fmt.Errorf("snapshot: zero reward per item")
	}
	return &Producer{
		enum:          enum,
		ledger:        l,
		proofs:        proofs,
		authority:     authority,
		rewardPerItem: rewardPerItem,
	}, nil
}

// Run captures a snapshot and commits its root, returning the commitment
// so the caller can inspect or re-publish the entitlements.
func (p *Producer) Run(ctx context.Context) (*Commitment, error) {
	snap, err := p.enum.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	commitment, err := BuildCommitment(snap, p.rewardPerItem)
	if err != nil {
		return nil, err
	}

	// Proofs are persisted before the root goes live: a recipient must
	// never face a root they cannot fetch a proof for.
	if p.proofs != nil {
		if err := p.proofs.SaveCommitment(commitment); err != nil {
			return nil, err
		}
	}

	if err := p.ledger.UpdateRoot(p.authority, commitment.Root); err != nil {
		return nil, fmt.Errorf("snapshot: install root: %w", err)
	}
	return commitment, nil
}
