package snapshot

import (
	"fmt"

	"github.com/bitfsorg/libairdrop-go/merkle"
)

// Entitlement is one recipient's claim material: the committed amount and
// the proof reducing its leaf to the commitment root. Recipients retrieve
// this off-ledger and submit it to the ledger's claim entry point.
type Entitlement struct {
	Owner  [20]byte
	Amount uint64
	Proof  *merkle.Proof
}

// Commitment is the tamper-evident result of a snapshot build: the root
// to install on the ledger and the per-recipient proofs.
type Commitment struct {
	Root         []byte
	Entitlements map[[20]byte]*Entitlement
}

// BuildCommitment turns an ownership snapshot into a commitment. Each
// owner gets a single leaf whose amount is rewardPerItem times the number
// of items they hold, so a holder of several items claims once for the
// full sum. The same aggregation is used by the push path, keeping the
// two paths consistent for multi-item holders.
func BuildCommitment(snap *OwnershipSnapshot, rewardPerItem uint64) (*Commitment, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: snapshot", ErrNilParam)
	}
	if rewardPerItem == 0 {
		return nil, fmt.Errorf("snapshot: zero reward per item")
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmptySnapshot
	}

	counts := make(map[[20]byte]uint64)
	for _, item := range snap.Items {
		counts[item.Owner]++
	}

	leaves := make([]merkle.Leaf, 0, len(counts))
	for owner, n := range counts {
		amount := n * rewardPerItem
		if amount/rewardPerItem != n {
			return nil, fmt.Errorf("%w: owner %x holds %d items at %d per item",
				ErrAmountOverflow, owner, n, rewardPerItem)
		}
		leaves = append(leaves, merkle.Leaf{Owner: owner, Amount: amount})
	}

	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return nil, fmt.Errorf("snapshot: build tree: %w", err)
	}

	commitment := &Commitment{
		Root:         tree.Root(),
		Entitlements: make(map[[20]byte]*Entitlement, len(leaves)),
	}
	for _, leaf := range leaves {
		proof, err := tree.ProofFor(leaf)
		if err != nil {
			return nil, fmt.Errorf("snapshot: proof for %x: %w", leaf.Owner, err)
		}
		commitment.Entitlements[leaf.Owner] = &Entitlement{
			Owner:  leaf.Owner,
			Amount: leaf.Amount,
			Proof:  proof,
		}
	}

	return commitment, nil
}

// TotalCommitted returns the sum of all committed amounts, the reserved
// pool required to cover the full snapshot.
func (c *Commitment) TotalCommitted() uint64 {
	var total uint64
	for _, e := range c.Entitlements {
		total += e.Amount
	}
	return total
}
