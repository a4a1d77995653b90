// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quotedesk/internal/database"
	"github.com/quotedesk/internal/extract"
	"github.com/quotedesk/internal/logger"
)

// ExportRequest carries the rows to export. Headers defaults to the full
// extraction schema when omitted.
type ExportRequest struct {
	Headers []string         `json:"headers"`
	Rows    []extract.Record `json:"rows"`
}

// ExportHandler renders extracted rows as an Excel workbook. audit may be
// nil.
type ExportHandler struct {
	audit *database.AuditLogStore
}

// NewExportHandler creates the export handler.
func NewExportHandler(audit *database.AuditLogStore) *ExportHandler {
	return &ExportHandler{audit: audit}
}

// HandleExport handles POST /api/v1/export requests and streams back an
// .xlsx attachment with a header row plus one row per record.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if len(req.Headers) == 0 {
		req.Headers = extract.Headers
	}

	workbook, err := buildWorkbook(req.Headers, req.Rows)
	if err != nil {
		logger.Errorf("HandleExport: failed to build workbook: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	defer workbook.Close()

	if h.audit != nil {
		details := fmt.Sprintf("rows=%d", len(req.Rows))
		if err := h.audit.LogAction(clientIP(r), database.AuditActionExport, details); err != nil {
			logger.Warnf("HandleExport: audit log failed: %v", err)
		}
	}

	filename := fmt.Sprintf("quote-review-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(w); err != nil {
		logger.Errorf("HandleExport: failed to stream workbook: %v", err)
	}
}

// buildWorkbook writes headers and rows onto the default sheet.
func buildWorkbook(headers []string, rows []extract.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		return nil, err
	}

	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range rows {
		cells := make([]interface{}, len(headers))
		for j, h := range headers {
			cells[j] = row[h]
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
