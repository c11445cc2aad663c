// Package sqlite provides a SQLite-backed implementation of the storage.RecordStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/finboard/internal/models"
	"github.com/mmynk/finboard/internal/storage"
)

// Ensure SQLiteStore implements storage.RecordStore
var _ storage.RecordStore = (*SQLiteStore)(nil)

// Timestamps are stored as Unix nanoseconds, so only 1677 through 2262 fit.
var (
	minStoredTime = time.Unix(0, math.MinInt64).UTC()
	maxStoredTime = time.Unix(0, math.MaxInt64).UTC()
)

// SQLiteStore implements storage.RecordStore using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) insert(ctx context.Context, ex execer, record *models.Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if _, err := models.ParseDirection(string(record.Direction)); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	if record.OccurredAt.Before(minStoredTime) || record.OccurredAt.After(maxStoredTime) {
		return fmt.Errorf("failed to insert record: occurred_at %s out of range", record.OccurredAt.Format(time.RFC3339))
	}

	_, err := ex.ExecContext(ctx,
		"INSERT INTO records (id, name, direction, amount, category, occurred_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		record.ID, record.Name, string(record.Direction), record.Amount.String(), record.Category,
		record.OccurredAt.UnixNano(), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// CreateRecord persists a new record to the database.
func (s *SQLiteStore) CreateRecord(ctx context.Context, record *models.Record) error {
	return s.insert(ctx, s.db, record)
}

// ImportRecords inserts all records in one transaction.
func (s *SQLiteStore) ImportRecords(ctx context.Context, records []models.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range records {
		if err := s.insert(ctx, tx, &records[i]); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(records), nil
}

// ListRecords retrieves records that occurred at or after since, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context, since time.Time) ([]models.Record, error) {
	if since.After(maxStoredTime) {
		return []models.Record{}, nil
	}
	sinceNano := int64(math.MinInt64)
	if since.After(minStoredTime) {
		sinceNano = since.UnixNano()
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, direction, amount, category, occurred_at FROM records WHERE occurred_at >= ? ORDER BY occurred_at DESC, id",
		sinceNano,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var (
			r          models.Record
			direction  string
			occurredAt int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &direction, &r.Amount, &r.Category, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Direction = models.Direction(direction)
		r.OccurredAt = time.Unix(0, occurredAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}
