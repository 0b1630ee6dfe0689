package merkle

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helper functions ---

func makeOwner(seed byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

func makeLeaves(n int) []Leaf {
	leaves := make([]Leaf, n)
	for i := range leaves {
		leaves[i] = Leaf{Owner: makeOwner(byte(i + 1)), Amount: uint64(i+1) * 100}
	}
	return leaves
}

// --- Leaf hashing ---

func TestLeafHash(t *testing.T) {
	leaf := Leaf{Owner: makeOwner(0xAA), Amount: 100}

	// Verify manually: DoubleHash(owner || amount BE).
	buf := make([]byte, 28)
	copy(buf[:20], leaf.Owner[:])
	binary.BigEndian.PutUint64(buf[20:], 100)
	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])

	assert.Equal(t, second[:], leaf.Hash())
}

func TestLeafHash_AmountMatters(t *testing.T) {
	a := Leaf{Owner: makeOwner(0xAA), Amount: 100}
	b := Leaf{Owner: makeOwner(0xAA), Amount: 101}
	assert.NotEqual(t, a.Hash(), b.Hash())
}

// --- BuildTree ---

func TestBuildTree_EmptySet(t *testing.T) {
	_, err := BuildTree(nil)
	assert.ErrorIs(t, err, ErrEmptyLeafSet)

	_, err = BuildTree([]Leaf{})
	assert.ErrorIs(t, err, ErrEmptyLeafSet)
}

func TestBuildTree_SingleLeaf(t *testing.T) {
	leaf := Leaf{Owner: makeOwner(0x01), Amount: 42}
	tree, err := BuildTree([]Leaf{leaf})
	require.NoError(t, err)

	// A single leaf's hash is the root.
	assert.Equal(t, leaf.Hash(), tree.Root())

	proof, err := tree.ProofFor(leaf)
	require.NoError(t, err)
	assert.Empty(t, proof.Siblings)

	ok, err := VerifyProof(leaf, proof, tree.Root())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBuildTree_DuplicateLeaf(t *testing.T) {
	leaf := Leaf{Owner: makeOwner(0x01), Amount: 42}
	_, err := BuildTree([]Leaf{leaf, leaf})
	assert.ErrorIs(t, err, ErrDuplicateLeaf)
}

func TestBuildTree_Deterministic(t *testing.T) {
	for _, n := range []int{2, 3, 7, 16, 33, 100} {
		leaves := makeLeaves(n)

		tree, err := BuildTree(leaves)
		require.NoError(t, err)

		// Permute the input and rebuild: the root must not change.
		rng := rand.New(rand.NewSource(int64(n)))
		shuffled := make([]Leaf, n)
		copy(shuffled, leaves)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		tree2, err := BuildTree(shuffled)
		require.NoError(t, err)
		assert.Equal(t, tree.Root(), tree2.Root(), "size %d", n)
	}
}

func TestBuildTree_RootDependsOnContent(t *testing.T) {
	treeA, err := BuildTree(makeLeaves(4))
	require.NoError(t, err)

	changed := makeLeaves(4)
	changed[2].Amount++
	treeB, err := BuildTree(changed)
	require.NoError(t, err)

	assert.NotEqual(t, treeA.Root(), treeB.Root())
}

// --- Proof round-trip ---

func TestProofRoundTrip(t *testing.T) {
	// Odd and even sizes exercise the promotion path.
	for _, n := range []int{1, 2, 3, 5, 8, 13, 100} {
		leaves := makeLeaves(n)
		tree, err := BuildTree(leaves)
		require.NoError(t, err)

		for _, leaf := range leaves {
			proof, err := tree.ProofFor(leaf)
			require.NoError(t, err)

			ok, err := VerifyProof(leaf, proof, tree.Root())
			require.NoError(t, err)
			assert.True(t, ok, "size %d owner %x", n, leaf.Owner[0])
		}
	}
}

func TestProofFor_UnknownLeaf(t *testing.T) {
	tree, err := BuildTree(makeLeaves(4))
	require.NoError(t, err)

	_, err = tree.ProofFor(Leaf{Owner: makeOwner(0xEE), Amount: 1})
	assert.ErrorIs(t, err, ErrLeafNotFound)
}

// --- VerifyProof failure paths ---

func TestVerifyProof_WrongAmount(t *testing.T) {
	leaves := makeLeaves(4)
	tree, err := BuildTree(leaves)
	require.NoError(t, err)

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)

	tampered := leaves[0]
	tampered.Amount *= 2
	ok, err := VerifyProof(tampered, proof, tree.Root())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyProof_WrongRoot(t *testing.T) {
	leaves := makeLeaves(4)
	tree, err := BuildTree(leaves)
	require.NoError(t, err)

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)

	other, err := BuildTree(makeLeaves(5))
	require.NoError(t, err)

	ok, err := VerifyProof(leaves[0], proof, other.Root())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyProof_MalformedInput(t *testing.T) {
	leaves := makeLeaves(2)
	tree, err := BuildTree(leaves)
	require.NoError(t, err)

	_, err = VerifyProof(leaves[0], nil, tree.Root())
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = VerifyProof(leaves[0], &Proof{}, []byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidRoot)

	_, err = VerifyProof(leaves[0], &Proof{Siblings: [][]byte{{0x01}}}, tree.Root())
	assert.ErrorIs(t, err, ErrInvalidProof)
}

func TestVerifyProof_SwappedSiblingOrderFails(t *testing.T) {
	leaves := makeLeaves(8)
	tree, err := BuildTree(leaves)
	require.NoError(t, err)

	proof, err := tree.ProofFor(leaves[0])
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(proof.Siblings), 2)

	proof.Siblings[0], proof.Siblings[1] = proof.Siblings[1], proof.Siblings[0]
	ok, err := VerifyProof(leaves[0], proof, tree.Root())
	require.NoError(t, err)
	assert.False(t, ok)
}
