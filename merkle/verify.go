package merkle

import "fmt"

// ComputeRoot reduces a leaf hash through the proof's sibling path,
// hashing the sorted pair of (current, sibling) at each step, and returns
// the resulting candidate root.
func ComputeRoot(leafHash []byte, proof *Proof) ([]byte, error) {
	if len(leafHash) != HashSize {
		return nil, fmt.Errorf("%w: leaf hash must be %d bytes", ErrInvalidProof, HashSize)
	}
	hash := make([]byte, HashSize)
	copy(hash, leafHash)

	for i, sibling := range proof.Siblings {
		if len(sibling) != HashSize {
			return nil, fmt.Errorf("%w: sibling %d must be %d bytes", ErrInvalidProof, i, HashSize)
		}
		hash = hashSortedPair(hash, sibling)
	}
	return hash, nil
}

// VerifyProof checks that the (owner, amount) leaf belongs to the set
// committed by root. It mirrors BuildTree's construction: the leaf hash is
// reduced through the sibling path and compared against root.
func VerifyProof(leaf Leaf, proof *Proof, root []byte) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: proof", ErrNilParam)
	}
	if len(root) != HashSize {
		return false, fmt.Errorf("%w: root must be %d bytes", ErrInvalidRoot, HashSize)
	}

	computed, err := ComputeRoot(leaf.Hash(), proof)
	if err != nil {
		return false, err
	}

	for i := 0; i < HashSize; i++ {
		if computed[i] != root[i] {
			return false, nil
		}
	}
	return true, nil
}
