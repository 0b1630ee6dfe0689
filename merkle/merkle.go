package merkle

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
)

// HashSize is the size in bytes of every node hash in the tree.
const HashSize = 32

// Leaf is a single committed (owner, amount) fact.
type Leaf struct {
	Owner  [20]byte // P2PKH address hash
	Amount uint64   // payout in satoshis
}

// Hash computes the leaf hash: DoubleHash(owner || amount), with the
// amount encoded as 8 bytes big-endian.
func (l Leaf) Hash() []byte {
	buf := make([]byte, 28)
	copy(buf[:20], l.Owner[:])
	binary.BigEndian.PutUint64(buf[20:], l.Amount)
	return DoubleHash(buf)
}

// Proof is the ordered list of sibling hashes that reduces a leaf hash to
// the tree root. Because pairs are sorted before hashing, the proof does
// not carry left/right position bits.
type Proof struct {
	Siblings [][]byte
}

// DoubleHash computes SHA256(SHA256(data)), matching Bitcoin's hash function.
func DoubleHash(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// hashSortedPair concatenates the lexicographically smaller hash first and
// double-hashes the pair. Sorting here is what frees proofs from tracking
// left/right position.
func hashSortedPair(a, b []byte) []byte {
	combined := make([]byte, 2*HashSize)
	if bytes.Compare(a, b) <= 0 {
		copy(combined[:HashSize], a)
		copy(combined[HashSize:], b)
	} else {
		copy(combined[:HashSize], b)
		copy(combined[HashSize:], a)
	}
	return DoubleHash(combined)
}

// Tree is a sorted-pair Merkle tree over a leaf set.
//
// Construction: leaf hashes are sorted, then adjacent hashes are paired at
// each level with each pair sorted before concatenation. An odd hash at
// any level is promoted unchanged to the next level. Sorting level zero
// makes the root a function of the leaf set's content, not its input order.
type Tree struct {
	levels [][][]byte       // levels[0] = sorted leaf hashes, last = root
	index  map[[HashSize]byte]int // leaf hash -> position in levels[0]
}

// BuildTree constructs the tree for the given leaf set. The input order is
// irrelevant; identical sets always yield the same root. An empty set is
// rejected with ErrEmptyLeafSet rather than producing a degenerate root.
func BuildTree(leaves []Leaf) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeafSet
	}

	hashes := make([][]byte, len(leaves))
	for i, l := range leaves {
		hashes[i] = l.Hash()
	}
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i], hashes[j]) < 0
	})

	t := &Tree{
		levels: [][][]byte{hashes},
		index:  make(map[[HashSize]byte]int, len(hashes)),
	}
	for i, h := range hashes {
		var key [HashSize]byte
		copy(key[:], h)
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: leaf %x", ErrDuplicateLeaf, h)
		}
		t.index[key] = i
	}

	level := hashes
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, hashSortedPair(level[i], level[i+1]))
		}
		if len(level)%2 != 0 {
			// Odd node is promoted unchanged, never duplicated.
			next = append(next, level[len(level)-1])
		}
		t.levels = append(t.levels, next)
		level = next
	}

	return t, nil
}

// Root returns the single hash committing to the entire leaf set.
func (t *Tree) Root() []byte {
	root := t.levels[len(t.levels)-1][0]
	out := make([]byte, HashSize)
	copy(out, root)
	return out
}

// Len returns the number of leaves in the tree.
func (t *Tree) Len() int { return len(t.levels[0]) }

// ProofFor returns the sibling path proving that leaf belongs to the tree.
// The leaf must match a committed (owner, amount) pair exactly.
func (t *Tree) ProofFor(leaf Leaf) (*Proof, error) {
	var key [HashSize]byte
	copy(key[:], leaf.Hash())
	pos, ok := t.index[key]
	if !ok {
		return nil, ErrLeafNotFound
	}

	proof := &Proof{}
	for _, level := range t.levels[:len(t.levels)-1] {
		if pos == len(level)-1 && len(level)%2 != 0 {
			// Promoted node: no sibling at this level.
			pos = len(level) / 2
			continue
		}
		sibling := make([]byte, HashSize)
		copy(sibling, level[pos^1])
		proof.Siblings = append(proof.Siblings, sibling)
		pos /= 2
	}
	return proof, nil
}
