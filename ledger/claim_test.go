package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libairdrop-go/merkle"
)

// claimFixture commits a two-leaf snapshot: (0xAA, 100) and (0xBB, 50),
// with 150 reserved out of a 1000 satoshi vault.
func claimFixture(t *testing.T) (*Ledger, *MemoryVault, *merkle.Tree, []merkle.Leaf) {
	t.Helper()
	l, vault, _ := newTestLedger(t, 1000, 150)
	leaves := []merkle.Leaf{
		{Owner: makeAddr(0xAA), Amount: 100},
		{Owner: makeAddr(0xBB), Amount: 50},
	}
	tree := commitLeaves(t, l, leaves)
	return l, vault, tree, leaves
}

func TestClaim(t *testing.T) {
	l, vault, tree, leaves := claimFixture(t)
	owner := leaves[0].Owner

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)

	require.NoError(t, l.Claim(owner, proof, 100))
	assert.True(t, l.IsClaimed(owner))
	assert.Equal(t, uint64(50), l.Reserved())
	assert.Equal(t, uint64(900), vault.Balance())
	assert.Equal(t, uint64(100), vault.PaidTo(owner))

	events := l.Events()
	last := events[len(events)-1]
	assert.Equal(t, EventClaimed, last.Type)
	assert.Equal(t, owner, last.Addr)
	assert.Equal(t, uint64(100), last.Amount)
}

func TestClaim_Replay(t *testing.T) {
	l, vault, tree, leaves := claimFixture(t)
	owner := leaves[0].Owner

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)
	require.NoError(t, l.Claim(owner, proof, 100))

	// A second claim with the same proof fails and changes nothing.
	err = l.Claim(owner, proof, 100)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, uint64(50), l.Reserved())
	assert.Equal(t, uint64(900), vault.Balance())

	// Same with a different (even valid-looking) amount.
	err = l.Claim(owner, proof, 1)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestClaim_ZeroAmount(t *testing.T) {
	l, _, tree, leaves := claimFixture(t)
	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)

	err = l.Claim(leaves[0].Owner, proof, 0)
	assert.ErrorIs(t, err, ErrZeroAmount)
	assert.Equal(t, uint64(150), l.Reserved())
}

func TestClaim_InvalidProof(t *testing.T) {
	l, _, tree, leaves := claimFixture(t)

	tests := []struct {
		name   string
		caller [20]byte
		amount uint64
	}{
		{"wrong amount", leaves[0].Owner, 999},
		{"wrong caller", makeAddr(0xEE), 100},
	}

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Claim(tt.caller, proof, tt.amount)
			assert.ErrorIs(t, err, ErrInvalidProof)
			assert.False(t, l.IsClaimed(tt.caller))
			assert.Equal(t, uint64(150), l.Reserved())
		})
	}
}

func TestClaim_NilProof(t *testing.T) {
	l, _, _, leaves := claimFixture(t)
	err := l.Claim(leaves[0].Owner, nil, 100)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestClaim_NoRoot(t *testing.T) {
	l, _, _ := newTestLedger(t, 1000, 150)
	err := l.Claim(makeAddr(0xAA), &merkle.Proof{}, 100)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestClaim_Paused(t *testing.T) {
	l, _, tree, leaves := claimFixture(t)
	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)

	require.NoError(t, l.Pause(testAuthority))
	err = l.Claim(leaves[0].Owner, proof, 100)
	assert.ErrorIs(t, err, ErrPaused)
	assert.False(t, l.IsClaimed(leaves[0].Owner))

	require.NoError(t, l.Resume(testAuthority))
	assert.NoError(t, l.Claim(leaves[0].Owner, proof, 100))
}

func TestClaim_InsufficientReserved(t *testing.T) {
	// Pool holds 60: enough for the 50 leaf, not the 100 one.
	l, _, _ := newTestLedger(t, 1000, 60)
	leaves := []merkle.Leaf{
		{Owner: makeAddr(0xAA), Amount: 100},
		{Owner: makeAddr(0xBB), Amount: 50},
	}
	tree := commitLeaves(t, l, leaves)

	proofA, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)
	err = l.Claim(leaves[0].Owner, proofA, 100)
	assert.ErrorIs(t, err, ErrInsufficientReserved)
	assert.False(t, l.IsClaimed(leaves[0].Owner))

	proofB, err := tree.ProofFor(leaves[1])
	require.NoError(t, err)
	assert.NoError(t, l.Claim(leaves[1].Owner, proofB, 50))
}

func TestClaim_InsufficientBalance(t *testing.T) {
	// Reserved was funded, then the balance was drained via the escape
	// hatch: the guard must catch the underfunded vault.
	l, _, _ := newTestLedger(t, 1000, 150)
	leaves := []merkle.Leaf{
		{Owner: makeAddr(0xAA), Amount: 100},
		{Owner: makeAddr(0xBB), Amount: 50},
	}
	tree := commitLeaves(t, l, leaves)
	require.NoError(t, l.EmergencyWithdraw(testAuthority, 950))

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)
	err = l.Claim(leaves[0].Owner, proof, 100)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestClaim_ThenPushSkips(t *testing.T) {
	// An address paid through the pull path must not be paid again by a
	// push round against the same address.
	l, vault, tree, leaves := claimFixture(t)
	owner := leaves[0].Owner

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)
	require.NoError(t, l.Claim(owner, proof, 100))

	// Top the pool back up: the batch is solvency-checked against its full
	// total, skips included.
	require.NoError(t, l.AddReserved(testAuthority, 100))

	result, err := l.Distribute(testAuthority, [][20]byte{owner, leaves[1].Owner}, []uint64{100, 50})
	require.NoError(t, err)
	assert.Equal(t, [][20]byte{owner}, result.Skipped)
	assert.Equal(t, uint64(50), result.TotalPaid)
	assert.Equal(t, uint64(100), vault.PaidTo(owner))
}
