// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/finboard/internal/models"
)

// RecordStore defines the interface for money-flow record storage.
// This abstraction allows swapping the transactions source (SQLite, a remote
// API, etc.) without changing the service layer.
type RecordStore interface {
	// CreateRecord persists a new record.
	// The record.ID field will be populated by the store when empty.
	CreateRecord(ctx context.Context, record *models.Record) error

	// ImportRecords persists records atomically and returns how many were written.
	ImportRecords(ctx context.Context, records []models.Record) (int, error)

	// ListRecords returns records that occurred at or after since, newest first.
	// A zero since returns every record.
	ListRecords(ctx context.Context, since time.Time) ([]models.Record, error)

	// Close releases any resources held by the store.
	Close() error
}
