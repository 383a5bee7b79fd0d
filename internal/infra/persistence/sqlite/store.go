// Package sqlite provides a SQLite-backed persistent store that snapshots
// the in-memory state to a single table as JSON blobs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hackledger/internal/infra/persistence/memory"
	"hackledger/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to SQLite as JSON blobs, one bucket
// per collection plus one for the allocation counters. It snapshots the
// full state after every successful transaction.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "hackledger.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{"members", "hackathons", "categories", "awards", "submissions", "counters"}

type counters struct {
	NextHackathonID  domain.HackathonID  `json:"next_hackathon_id"`
	NextCategoryID   domain.CategoryID   `json:"next_category_id"`
	NextAwardID      domain.AwardID      `json:"next_award_id"`
	NextSubmissionID domain.SubmissionID `json:"next_submission_id"`
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	type raw struct {
		bucket  string
		payload []byte
	}
	var raws []raw
	for rows.Next() {
		var r raw
		if err := rows.Scan(&r.bucket, &r.payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(raws) == 0 {
		return nil
	}
	snapshot := memory.Snapshot{}
	for _, r := range raws {
		switch r.bucket {
		case "members":
			if err := json.Unmarshal(r.payload, &snapshot.Members); err != nil {
				return fmt.Errorf("decode members: %w", err)
			}
		case "hackathons":
			if err := json.Unmarshal(r.payload, &snapshot.Hackathons); err != nil {
				return fmt.Errorf("decode hackathons: %w", err)
			}
		case "categories":
			if err := json.Unmarshal(r.payload, &snapshot.Categories); err != nil {
				return fmt.Errorf("decode categories: %w", err)
			}
		case "awards":
			if err := json.Unmarshal(r.payload, &snapshot.Awards); err != nil {
				return fmt.Errorf("decode awards: %w", err)
			}
		case "submissions":
			if err := json.Unmarshal(r.payload, &snapshot.Submissions); err != nil {
				return fmt.Errorf("decode submissions: %w", err)
			}
		case "counters":
			var c counters
			if err := json.Unmarshal(r.payload, &c); err != nil {
				return fmt.Errorf("decode counters: %w", err)
			}
			snapshot.NextHackathonID = c.NextHackathonID
			snapshot.NextCategoryID = c.NextCategoryID
			snapshot.NextAwardID = c.NextAwardID
			snapshot.NextSubmissionID = c.NextSubmissionID
		}
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "members":
			data, err = json.Marshal(snapshot.Members)
		case "hackathons":
			data, err = json.Marshal(snapshot.Hackathons)
		case "categories":
			data, err = json.Marshal(snapshot.Categories)
		case "awards":
			data, err = json.Marshal(snapshot.Awards)
		case "submissions":
			data, err = json.Marshal(snapshot.Submissions)
		case "counters":
			data, err = json.Marshal(counters{
				NextHackathonID:  snapshot.NextHackathonID,
				NextCategoryID:   snapshot.NextCategoryID,
				NextAwardID:      snapshot.NextAwardID,
				NextSubmissionID: snapshot.NextSubmissionID,
			})
		}
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RunInTransaction applies the provided function within a transaction, then
// snapshots state to SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
