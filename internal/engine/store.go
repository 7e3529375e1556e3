package engine

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Store persists match runs to Postgres. It is optional plumbing: runs are
// complete without it, and nothing is read back during matching.
type Store struct {
	db *sql.DB
}

// OpenStore connects to Postgres and verifies the connection.
func OpenStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect result store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the result tables when they do not exist yet.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS match_run (
			run_id         TEXT PRIMARY KEY,
			reference_rows INTEGER NOT NULL,
			target_rows    INTEGER NOT NULL,
			matched        INTEGER NOT NULL,
			lat_long       INTEGER NOT NULL,
			address_zip    INTEGER NOT NULL,
			elapsed_ms     BIGINT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS match_result (
			run_id       TEXT NOT NULL REFERENCES match_run(run_id),
			target_row   INTEGER NOT NULL,
			reference_id TEXT NOT NULL,
			best_match   TEXT NOT NULL,
			score        INTEGER NOT NULL,
			stage        TEXT NOT NULL,
			PRIMARY KEY (run_id, target_row)
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure result schema: %w", err)
	}
	return nil
}

// SaveRun writes one run summary and its match rows in a single transaction.
func (s *Store) SaveRun(res *Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO match_run (run_id, reference_rows, target_rows, matched, lat_long, address_zip, elapsed_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, res.RunID, res.Stats.ReferenceRows, res.Stats.TargetRows, res.Stats.Matched,
		res.Stats.LatLong, res.Stats.AddressZip, res.Stats.Elapsed.Milliseconds(), time.Now())
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO match_result (run_id, target_row, reference_id, best_match, score, stage)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, mt := range res.Matches {
		if _, err := stmt.Exec(res.RunID, mt.TargetRow, mt.ReferenceID, mt.BestMatch, mt.Score, mt.Stage); err != nil {
			return fmt.Errorf("save match for target row %d: %w", mt.TargetRow, err)
		}
	}

	return tx.Commit()
}
