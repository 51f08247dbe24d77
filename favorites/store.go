// ABOUTME: Persistent favorites storage backed by bbolt
// ABOUTME: Round-trips favorite flags across sessions keyed by stream URL

// Package favorites persists the favorite stations list in a small bbolt
// database under the user data directory.
package favorites

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucket = []byte("favorites")

// Entry is one persisted favorite station.
type Entry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Store reads and writes favorite entries.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the favorites database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open favorites database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create favorites bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Set stores or overwrites a favorite keyed by its URL.
func (s *Store) Set(name, url string) error {
	entry := Entry{Name: name, URL: url}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode favorite: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(url), value)
	})
}

// Remove deletes a favorite by URL. Removing an unknown URL is a no-op.
func (s *Store) Remove(url string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(url))
	})
}

// All returns every persisted favorite in key order.
func (s *Store) All() ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode favorite: %w", err)
			}
			entries = append(entries, entry)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
