// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExtractionStore_Lifecycle(t *testing.T) {
	store, err := NewExtractionStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewExtractionStore failed: %v", err)
	}

	if err := store.Create("job-1", "daily.pdf"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ext, err := store.Get("job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ext.Status != ExtractionStatusPending {
		t.Errorf("Expected pending, got %s", ext.Status)
	}
	if ext.Filename != "daily.pdf" {
		t.Errorf("Filename mismatch: %q", ext.Filename)
	}

	if err := store.MarkRunning("job-1"); err != nil {
		t.Fatalf("MarkRunning failed: %v", err)
	}
	if err := store.MarkComplete("job-1", 3, `[{"Quote #":"1234567"}]`); err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}

	ext, err = store.Get("job-1")
	if err != nil {
		t.Fatalf("Get after complete failed: %v", err)
	}
	if ext.Status != ExtractionStatusComplete {
		t.Errorf("Expected complete, got %s", ext.Status)
	}
	if ext.TotalRows != 3 {
		t.Errorf("Expected 3 rows, got %d", ext.TotalRows)
	}
	if ext.Result == "" {
		t.Errorf("Expected stored result JSON")
	}
}

func TestExtractionStore_MarkFailed(t *testing.T) {
	store, err := NewExtractionStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewExtractionStore failed: %v", err)
	}

	if err := store.Create("job-2", "broken.pdf"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkFailed("job-2", "read report: file corrupted"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	ext, err := store.Get("job-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ext.Status != ExtractionStatusFailed {
		t.Errorf("Expected failed, got %s", ext.Status)
	}
	if ext.Error != "read report: file corrupted" {
		t.Errorf("Error mismatch: %q", ext.Error)
	}
}

func TestExtractionStore_UnknownID(t *testing.T) {
	store, err := NewExtractionStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewExtractionStore failed: %v", err)
	}

	if _, err := store.Get("missing"); err != sql.ErrNoRows {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
	if err := store.MarkRunning("missing"); err == nil {
		t.Errorf("Expected error updating unknown extraction")
	}
}

func TestAuditLogStore(t *testing.T) {
	store, err := NewAuditLogStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewAuditLogStore failed: %v", err)
	}

	if err := store.LogAction("127.0.0.1", AuditActionUpload, "file=daily.pdf rows=12"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := store.LogAction("127.0.0.1", AuditActionSearch, "column=State value=CA"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	logs, err := store.GetRecentLogs(10, "")
	if err != nil {
		t.Fatalf("GetRecentLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 logs, got %d", len(logs))
	}

	logs, err = store.GetRecentLogs(10, string(AuditActionUpload))
	if err != nil {
		t.Fatalf("GetRecentLogs with filter failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != string(AuditActionUpload) {
		t.Errorf("Action filter failed: %v", logs)
	}
}
