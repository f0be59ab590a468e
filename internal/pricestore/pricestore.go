// Package pricestore persists the last good quote per coin, so the
// command can fall back to a recent price when the live fetch fails.
package pricestore

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/hostfns/hosthttp/internal/coins"
)

const (
	quoteBucket      = "quotes"
	expiryValueBytes = 8
)

// Store is a BoltDB-backed quote cache with per-entry TTL.
type Store struct {
	db  *bolt.DB
	ttl time.Duration
}

// Open initializes the store at path, creating parent directories as
// needed.
func Open(path string, ttl time.Duration) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create cache directory")
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bbolt db")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(quoteBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init bucket")
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores q, replacing any previous quote for the same coin and
// currency.
func (s *Store) Put(q coins.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return errors.Wrap(err, "encode quote")
	}
	value := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(value, uint64(time.Now().Add(s.ttl).UnixNano()))
	value = append(value, payload...)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(quoteBucket)).Put(key(q.ID, q.Currency), value)
	})
}

// Get returns the cached quote for coin/currency if present and not
// expired. Lookups run read-only; a write transaction is taken only to
// remove an expired or undecodable entry.
func (s *Store) Get(coin, currency string) (coins.Quote, bool, error) {
	var q coins.Quote
	var ok, stale bool
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(quoteBucket)).Get(key(coin, currency))
		if len(value) < expiryValueBytes {
			return nil
		}
		expiry := time.Unix(0, int64(binary.BigEndian.Uint64(value)))
		if !expiry.After(time.Now()) || json.Unmarshal(value[expiryValueBytes:], &q) != nil {
			stale = true
			return nil
		}
		ok = true
		return nil
	})
	if err != nil {
		return coins.Quote{}, false, err
	}
	if stale {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(quoteBucket)).Delete(key(coin, currency))
		})
		return coins.Quote{}, false, err
	}
	if !ok {
		return coins.Quote{}, false, nil
	}
	return q, true, nil
}

func key(coin, currency string) []byte { return []byte(coin + "/" + currency) }
