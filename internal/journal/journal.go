// Package journal records rendered videos in a local bolt database so that
// later commands (publish) know what the last make produced.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

// ErrEmpty is returned by Latest when nothing has been recorded yet.
var ErrEmpty = errors.New("journal is empty")

var bucketName = []byte("renders")

const openTimeout = 2 * time.Second

// Entry is one rendered video.
type Entry struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	VideoPath string    `json:"video_path"`
	Worksheet string    `json:"worksheet"`
	Row       int       `json:"row"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal wraps the bolt handle. Keys are UUIDv7 strings, so key order is
// creation order.
type Journal struct {
	db *bolt.DB
}

// Open creates the parent directory if needed and opens (or creates) the
// database at path. Only one process may hold it at a time; Open gives up
// after a short wait instead of blocking forever.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database file lock.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e, assigning ID and CreatedAt when they are unset, and
// returns the stored entry.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Entry{}, fmt.Errorf("journal id: %w", err)
		}
		e.ID = id.String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(&e)
	if err != nil {
		return Entry{}, err
	}
	err = j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(e.ID), data)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("record %s: %w", e.Slug, err)
	}
	return e, nil
}

// Latest returns the most recently recorded entry, or ErrEmpty.
func (j *Journal) Latest() (Entry, error) {
	var e Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket(bucketName).Cursor().Last()
		if k == nil {
			return ErrEmpty
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

// List returns every entry, oldest first.
func (j *Journal) List() ([]Entry, error) {
	var entries []Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}
