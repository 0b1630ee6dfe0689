package merkle

import "errors"

var (
	// ErrEmptyLeafSet indicates a tree build was attempted over zero leaves.
	ErrEmptyLeafSet = errors.New("merkle: empty leaf set")

	// ErrDuplicateLeaf indicates two identical leaves in the input set.
	ErrDuplicateLeaf = errors.New("merkle: duplicate leaf")

	// ErrLeafNotFound indicates the leaf is not part of the tree.
	ErrLeafNotFound = errors.New("merkle: leaf not found in tree")

	// ErrInvalidProof indicates a malformed proof element.
	ErrInvalidProof = errors.New("merkle: invalid proof")

	// ErrInvalidRoot indicates the root is not a valid node hash.
	ErrInvalidRoot = errors.New("merkle: invalid root")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("merkle: required parameter is nil")
)
