// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Extraction statuses.
const (
	ExtractionStatusPending  = "pending"
	ExtractionStatusRunning  = "running"
	ExtractionStatusComplete = "complete"
	ExtractionStatusFailed   = "failed"
)

// Extraction represents one report extraction: either an async job in flight
// or a finished run with its result rows stored as JSON.
type Extraction struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	TotalRows int       `json:"total_rows"`
	Result    string    `json:"result,omitempty"` // JSON-encoded rows
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExtractionStore manages extraction records in SQLite.
type ExtractionStore struct {
	db *sql.DB
}

// NewExtractionStore creates the store and its schema.
func NewExtractionStore(db *sql.DB) (*ExtractionStore, error) {
	store := &ExtractionStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize extractions schema: %w", err)
	}
	return store, nil
}

// initSchema creates the extractions table if it doesn't exist
func (s *ExtractionStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS extractions (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		status TEXT NOT NULL,
		total_rows INTEGER NOT NULL DEFAULT 0,
		result TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_status ON extractions(status);
	CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create inserts a new pending extraction.
func (s *ExtractionStore) Create(id, filename string) error {
	now := time.Now()
	_, err := s.db.Exec(
		"INSERT INTO extractions (id, filename, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, filename, ExtractionStatusPending, now, now,
	)
	return err
}

// MarkRunning transitions an extraction to running.
func (s *ExtractionStore) MarkRunning(id string) error {
	return s.setStatus(id, ExtractionStatusRunning, 0, "", "")
}

// MarkComplete stores the result JSON and row count and transitions to
// complete.
func (s *ExtractionStore) MarkComplete(id string, totalRows int, resultJSON string) error {
	return s.setStatus(id, ExtractionStatusComplete, totalRows, resultJSON, "")
}

// MarkFailed records the failure reason.
func (s *ExtractionStore) MarkFailed(id string, cause string) error {
	return s.setStatus(id, ExtractionStatusFailed, 0, "", cause)
}

func (s *ExtractionStore) setStatus(id, status string, totalRows int, resultJSON, cause string) error {
	res, err := s.db.Exec(
		"UPDATE extractions SET status = ?, total_rows = ?, result = ?, error = ?, updated_at = ? WHERE id = ?",
		status, totalRows, resultJSON, cause, time.Now(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("extraction %s not found", id)
	}
	return err
}

// Get returns one extraction by ID, or sql.ErrNoRows if it doesn't exist.
func (s *ExtractionStore) Get(id string) (*Extraction, error) {
	row := s.db.QueryRow(
		"SELECT id, filename, status, total_rows, COALESCE(result, ''), COALESCE(error, ''), created_at, updated_at FROM extractions WHERE id = ?",
		id,
	)

	var ext Extraction
	if err := row.Scan(&ext.ID, &ext.Filename, &ext.Status, &ext.TotalRows, &ext.Result, &ext.Error, &ext.CreatedAt, &ext.UpdatedAt); err != nil {
		return nil, err
	}
	return &ext, nil
}

// GetRecent returns the last N extractions, newest first.
func (s *ExtractionStore) GetRecent(limit int) ([]Extraction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		"SELECT id, filename, status, total_rows, COALESCE(error, ''), created_at, updated_at FROM extractions ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []Extraction
	for rows.Next() {
		var ext Extraction
		if err := rows.Scan(&ext.ID, &ext.Filename, &ext.Status, &ext.TotalRows, &ext.Error, &ext.CreatedAt, &ext.UpdatedAt); err != nil {
			return nil, err
		}
		extractions = append(extractions, ext)
	}
	return extractions, rows.Err()
}
