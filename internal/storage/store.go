// Package storage archives flagging runs into a SQLite database: one row
// per run plus the per-channel statuses and flagged captures it produced.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jaycedowell/lwa-sky-survey/internal/analysis"
)

// RunMeta describes one flagging run.
type RunMeta struct {
	CaptureCount int
	ChannelCount int
	BinCount     int
	WindowLow    int
	WindowHigh   int
	Config       any // Optional run configuration, stored as JSON
}

// Store handles database operations for the run archive.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store for the given database path. The connection is opened
// and the schema initialized lazily on first use.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

// CreateRun inserts a run row and returns its ID.
func (s *Store) CreateRun(ctx context.Context, meta RunMeta) (runID int64, err error) {
	var configData sql.NullString
	if meta.Config != nil {
		var p []byte
		if p, err = json.Marshal(meta.Config); err != nil {
			err = fmt.Errorf("marshaling config: %w", err)
			return
		}
		configData.Valid = true
		configData.String = string(p)
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertRunSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx,
		meta.CaptureCount, meta.ChannelCount, meta.BinCount,
		meta.WindowLow, meta.WindowHigh, configData)
	if err != nil {
		err = fmt.Errorf("inserting run: %w", err)
		return
	}

	runID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting run ID: %w", err)
	}
	return
}

// StoreStatuses persists the final per-channel statuses of a run in a
// single batched insert.
func (s *Store) StoreStatuses(ctx context.Context, runID int64, status []analysis.Status) (err error) {
	if len(status) == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	var sb strings.Builder
	sb.WriteString(insertStatusSQL)

	values := make([]any, 0, len(status)*3)
	for i, st := range status {
		values = append(values, runID, i, int(st))
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?)")
	}

	if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting statuses: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// StoreBadCaptures persists the flagged temporal outliers of a run.
func (s *Store) StoreBadCaptures(ctx context.Context, runID int64, groups []analysis.TrendGroup) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertBadCaptureSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, group := range groups {
		for _, p := range group.Outliers() {
			if _, err = stmt.ExecContext(ctx, runID, p.DayID, p.Path, p.ZScore); err != nil {
				return fmt.Errorf("inserting bad capture '%s': %w", p.Path, err)
			}
		}
	}
	return nil
}

func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			s.closeErr = s.writeDB.Close()
			s.writeDB = nil
		}
	})
	return s.closeErr
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && *err == nil && cErr != sql.ErrTxDone {
		*err = cErr
	}
}
