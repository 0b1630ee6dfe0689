package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketEntitlements = []byte("entitlements")
	bucketMeta         = []byte("meta")

	keyRoot = []byte("root")
)

// BoltProofStore persists a commitment's entitlements so recipients can
// retrieve their claim material after the snapshot producer has moved on.
// Saving a new commitment replaces the previous one entirely, mirroring
// the ledger's atomic root replacement.
type BoltProofStore struct {
	db *bbolt.DB
}

// OpenBoltProofStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltProofStore(dbPath string) (*BoltProofStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("snapshot: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketEntitlements, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("proofstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshot: create buckets: %w", err)
	}

	return &BoltProofStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltProofStore) Close() error { return s.db.Close() }

// SaveCommitment replaces the stored commitment with c in one transaction.
func (s *BoltProofStore) SaveCommitment(c *Commitment) error {
	if c == nil {
		return fmt.Errorf("%w: commitment", ErrNilParam)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Drop the previous commitment: old proofs are invalid the moment
		// the new root is installed.
		if err := tx.DeleteBucket(bucketEntitlements); err != nil {
			return fmt.Errorf("proofstore: drop entitlements: %w", err)
		}
		eb, err := tx.CreateBucket(bucketEntitlements)
		if err != nil {
			return fmt.Errorf("proofstore: recreate entitlements: %w", err)
		}

		for owner, ent := range c.Entitlements {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(ent); err != nil {
				return fmt.Errorf("proofstore: encode entitlement: %w", err)
			}
			if err := eb.Put(owner[:], buf.Bytes()); err != nil {
				return fmt.Errorf("proofstore: put entitlement: %w", err)
			}
		}
		return tx.Bucket(bucketMeta).Put(keyRoot, c.Root)
	})
}

// Root returns the root of the stored commitment.
func (s *BoltProofStore) Root() ([]byte, error) {
	var root []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyRoot)
		if data == nil {
			return ErrNoCommitment
		}
		root = make([]byte, len(data))
		copy(root, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Entitlement returns the stored claim material for owner.
func (s *BoltProofStore) Entitlement(owner [20]byte) (*Entitlement, error) {
	var ent Entitlement
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEntitlements).Get(owner[:])
		if data == nil {
			return ErrEntitlementNotFound
		}
		return gob.NewDecoder(bytes.NewReader(data)).Decode(&ent)
	})
	if err != nil {
		return nil, err
	}
	return &ent, nil
}
