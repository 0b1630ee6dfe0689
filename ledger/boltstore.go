package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketState   = []byte("state")
	bucketClaimed = []byte("claimed")
	bucketEvents  = []byte("events")

	keyState = []byte("current")
)

// BoltStateStore persists ledger state in a bbolt database. The claimed
// set lives in its own bucket keyed by address so restarts never forget a
// payout, and the event journal is kept append-only under a sequence key.
type BoltStateStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ StateStore = (*BoltStateStore)(nil)

// OpenBoltStateStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStateStore(dbPath string) (*BoltStateStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketState, bucketClaimed, bucketEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStateStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStateStore) Close() error { return s.db.Close() }

// Load returns the persisted state and claimed set. An empty store yields
// (nil, nil, nil).
func (s *BoltStateStore) Load() (*PersistedState, map[[20]byte]bool, error) {
	var st *PersistedState
	claimed := make(map[[20]byte]bool)

	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketState).Get(keyState); data != nil {
			st = &PersistedState{}
			if err := decodeGob(data, st); err != nil {
				return fmt.Errorf("decode state: %w", err)
			}
		}
		return tx.Bucket(bucketClaimed).ForEach(func(k, _ []byte) error {
			if len(k) != 20 {
				return fmt.Errorf("claimed key length %d", len(k))
			}
			var addr [20]byte
			copy(addr[:], k)
			claimed[addr] = true
			return nil
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("ledger: load: %w", err)
	}
	if st == nil && len(claimed) == 0 {
		return nil, nil, nil
	}
	return st, claimed, nil
}

// SaveState overwrites the persisted scalar state.
func (s *BoltStateStore) SaveState(st *PersistedState) error {
	if st == nil {
		return fmt.Errorf("%w: state", ErrNilParam)
	}
	data, err := encodeGob(st)
	if err != nil {
		return fmt.Errorf("ledger: encode state: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put(keyState, data)
	})
}

// MarkClaimed durably records that addr has been paid. Marks are never
// removed; replay stays impossible even across root updates.
func (s *BoltStateStore) MarkClaimed(addr [20]byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketClaimed).Put(addr[:], []byte{1})
	})
}

// AppendEvent appends ev under the next sequence number.
func (s *BoltStateStore) AppendEvent(ev Event) error {
	data, err := encodeGob(&ev)
	if err != nil {
		return fmt.Errorf("ledger: encode event: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEvents)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
}

// Events returns the durable journal, oldest first.
func (s *BoltStateStore) Events() ([]Event, error) {
	var events []Event
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(_, v []byte) error {
			var ev Event
			if err := decodeGob(v, &ev); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}
			events = append(events, ev)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: read events: %w", err)
	}
	return events, nil
}

// seqKey encodes a sequence number as an 8-byte big-endian key so events
// iterate in append order.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
