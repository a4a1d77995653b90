// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/quotedesk/internal/extract"
)

func TestBuildWorkbook(t *testing.T) {
	rows := []extract.Record{
		{"Quote #": "1234567", "Customer Name": "Acme Corp"},
		{"Quote #": "7654321", "Customer Name": "Globex"},
	}

	f, err := buildWorkbook([]string{"Quote #", "Customer Name"}, rows)
	if err != nil {
		t.Fatalf("buildWorkbook failed: %v", err)
	}

	// Stream-written cells only become readable after serialization.
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	f.Close()

	reopened, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer reopened.Close()

	sheet := reopened.GetSheetName(0)
	got, err := reopened.GetCellValue(sheet, "A1")
	if err != nil || got != "Quote #" {
		t.Errorf("Header cell A1 = %q, err=%v", got, err)
	}
	got, _ = reopened.GetCellValue(sheet, "B3")
	if got != "Globex" {
		t.Errorf("Cell B3 = %q, expected Globex", got)
	}
}

func TestHandleExport(t *testing.T) {
	handler := NewExportHandler(nil)

	body := `{"rows": [{"Quote #": "1234567"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleExport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Errorf("Unexpected content disposition: %s", cd)
	}

	// The body must be a readable workbook carrying the full schema header.
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a valid workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	cols, err := f.GetRows(sheet)
	if err != nil || len(cols) < 2 {
		t.Fatalf("Workbook rows unreadable: rows=%d err=%v", len(cols), err)
	}
	if len(cols[0]) != len(extract.Headers) {
		t.Errorf("Expected %d header cells, got %d", len(extract.Headers), len(cols[0]))
	}
	if cols[1][0] != "1234567" {
		t.Errorf("Expected first data cell 1234567, got %q", cols[1][0])
	}
}

func TestHandleExport_MethodNotAllowed(t *testing.T) {
	handler := NewExportHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
	w := httptest.NewRecorder()

	handler.HandleExport(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}
