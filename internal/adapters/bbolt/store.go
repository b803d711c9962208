// Package bbolt implements the ports.UsageStore interface using bbolt (embedded B+ tree).
// The whole usage state is one JSON blob under the "usage" bucket. Writes are
// transactional, so a crash mid-write cannot corrupt previously committed data.
//
// The database is opened for each Load and Save and closed right after, so
// short-lived CLI invocations never hold the file lock for their whole
// lifetime. Two invocations that interleave Load and Save race: the last Save
// wins.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/corey/slc/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Ensure Store implements the interface.
var _ ports.UsageStore = (*Store)(nil)

// Bucket keys
var (
	bucketUsage = []byte("usage")
	keyState    = []byte("state")
)

// DefaultTimeout bounds how long Load and Save wait for the file lock.
const DefaultTimeout = 1 * time.Second

// Store implements ports.UsageStore backed by a single bbolt file.
type Store struct {
	path    string
	timeout time.Duration
}

// NewStore returns a store for the bbolt file at path. The file is created on
// the first Save; nothing is opened here.
func NewStore(path string) *Store {
	return &Store{path: path, timeout: DefaultTimeout}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) open(readOnly bool) (*bolt.DB, error) {
	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: s.timeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return db, nil
}

// Load retrieves the usage state.
// Returns nil, nil if the file or the state does not exist (fresh store).
func (s *Store) Load() (*ports.UsageState, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := s.open(true)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var data []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsage)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyState); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var state ports.UsageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal usage state: %w", err)
	}
	return &state, nil
}

// Save persists the full usage state, overwriting the previous one.
func (s *Store) Save(state *ports.UsageState) error {
	if state == nil {
		return fmt.Errorf("nil usage state")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal usage state: %w", err)
	}

	db, err := s.open(false)
	if err != nil && isCorrupt(err) {
		// Unreadable file: start over with an empty database.
		if rerr := os.Remove(s.path); rerr != nil {
			return err
		}
		db, err = s.open(false)
	}
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketUsage)
		if err != nil {
			return err
		}
		return b.Put(keyState, data)
	})
	if cerr := db.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("bbolt close: %w", cerr)
	}
	return err
}

// isCorrupt reports whether an open error means the file is not a usable
// bbolt database (as opposed to a lock timeout or a permission problem).
func isCorrupt(err error) bool {
	return errors.Is(err, bolt.ErrInvalid) ||
		errors.Is(err, bolt.ErrVersionMismatch) ||
		errors.Is(err, bolt.ErrChecksum)
}

// Reset removes the persisted usage state. Idempotent: resetting a store that
// was never written is not an error.
func (s *Store) Reset() error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketUsage); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}
