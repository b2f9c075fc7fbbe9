// Package cache persists the most recent concert snapshot locally so the app
// can serve listings while the upstream source is unreachable. It is a
// best-effort layer: reads degrade to a miss, never to a failure.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"stagenextdoor/internal/models"
)

const (
	concertsKey  = "cached_concerts"
	fetchTimeKey = "last_concerts_fetch_time"

	// TTL after which a snapshot is considered stale. Stale data is still
	// served as a fallback; expiry only forces a remote attempt first.
	TTL = 24 * time.Hour
)

// Store is a BadgerDB-backed snapshot cache.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
	now func() time.Time
}

// New returns a Store over db. The caller owns the database lifecycle.
func New(db *badger.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// Open opens (or creates) a Badger database at dir, configured for the small
// single-snapshot workload this cache holds.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache at %s: %w", dir, err)
	}
	return db, nil
}

// Load returns the cached concert list. The second return reports whether a
// usable snapshot was present. Missing keys, unreadable values, and records
// that fail validation all count as a miss.
func (s *Store) Load() ([]models.Concert, bool) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(concertsKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("cache read failed, treating as miss")
		return nil, false
	}

	var concerts []models.Concert
	if err := json.Unmarshal(raw, &concerts); err != nil {
		s.log.Warn().Err(err).Msg("cached snapshot is corrupt, treating as miss")
		return nil, false
	}

	valid := concerts[:0]
	for _, c := range concerts {
		if c.ID == "" || c.ArtistName == "" {
			s.log.Warn().Str("concert_id", c.ID).Msg("dropping malformed cached concert")
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, false
	}
	return valid, true
}

// Save replaces the cached snapshot with concerts and records fetchedAt.
// Empty lists are not written so a transient empty response cannot wipe a
// useful snapshot.
func (s *Store) Save(concerts []models.Concert, fetchedAt time.Time) error {
	if len(concerts) == 0 {
		return nil
	}

	data, err := json.Marshal(concerts)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	ts := strconv.FormatInt(fetchedAt.UnixMilli(), 10)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(concertsKey), data); err != nil {
			return err
		}
		return txn.Set([]byte(fetchTimeKey), []byte(ts))
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.log.Debug().Int("concerts", len(concerts)).Time("fetched_at", fetchedAt).
		Msg("cached concert snapshot")
	return nil
}

// LastFetch returns the recorded fetch time of the current snapshot, if any.
func (s *Store) LastFetch() (time.Time, bool) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fetchTimeKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return time.Time{}, false
	}

	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		s.log.Warn().Err(err).Msg("cached fetch timestamp is corrupt")
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// IsExpired reports whether the snapshot is older than the TTL. A cache with
// no recorded fetch time is expired.
func (s *Store) IsExpired() bool {
	fetched, ok := s.LastFetch()
	if !ok {
		return true
	}
	return s.now().Sub(fetched) > TTL
}
