// Package store holds the run lock and the history of generated months.
//
// Opening the store takes an exclusive file lock, so at most one process
// can build a month at a time. Close releases it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"monthsheet/internal/timesheet"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"
)

const boltBucketMonths = "months" // key: sheet name -> Record JSON

// ErrLocked is returned when another run holds the lock past the timeout.
var ErrLocked = errors.New("another run holds the lock")

// Record is one generated month.
type Record struct {
	Summary   timesheet.MonthSummary `json:"summary"`
	CreatedAt time.Time              `json:"created_at"`
}

type Bolt struct {
	db *bbolt.DB
}

// Open acquires the lock at path, waiting at most timeout.
func Open(path string, timeout time.Duration) (*Bolt, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: timeout})
	if errors.Is(err, bolterrors.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s (waited %s): %w", ErrLocked, path, timeout, err)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketMonths))
		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Record stores s under its sheet name, replacing any earlier entry.
func (b *Bolt) Record(s timesheet.MonthSummary, at time.Time) error {
	data, err := json.Marshal(Record{Summary: s, CreatedAt: at.UTC()})
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketMonths)).Put([]byte(s.SheetName), data)
	})
}

// History returns every record, oldest first.
func (b *Bolt) History() ([]Record, error) {
	var records []Record

	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketMonths)).ForEach(func(_, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}
