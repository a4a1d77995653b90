// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/quotedesk/internal/database"
	"github.com/quotedesk/internal/extract"
	"github.com/quotedesk/internal/logger"
	"github.com/quotedesk/internal/pdfreport"
)

// maxUploadBytes caps report uploads at 16 MiB.
const maxUploadBytes = 16 << 20

// UploadHandler holds dependencies for the synchronous upload endpoint.
type UploadHandler struct {
	engine    *extract.Engine
	audit     *database.AuditLogStore
	wsManager *WebSocketManager
	uploadDir string
}

// NewUploadHandler creates the upload handler. audit and wsManager may be
// nil.
func NewUploadHandler(engine *extract.Engine, audit *database.AuditLogStore, wsManager *WebSocketManager, uploadDir string) *UploadHandler {
	return &UploadHandler{
		engine:    engine,
		audit:     audit,
		wsManager: wsManager,
		uploadDir: uploadDir,
	}
}

// HandleUpload handles POST /upload requests: accept one PDF report, run the
// extraction synchronously, and return the rows.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeJSONError(w, http.StatusBadRequest, "only PDF reports are supported")
		return
	}

	// The PDF reader works off a path, so stage the upload on disk under a
	// random name and remove it when done.
	tmpPath, err := h.stageUpload(file)
	if err != nil {
		logger.Errorf("HandleUpload: failed to stage %s: %v", header.Filename, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmpPath)

	doc, err := pdfreport.Open(tmpPath)
	if err != nil {
		logger.Errorf("HandleUpload: failed to read %s: %v", header.Filename, err)
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("failed to read PDF: %v", err))
		return
	}

	headers, records, err := h.engine.Extract(r.Context(), doc)
	if err != nil {
		logger.Errorf("HandleUpload: extraction failed for %s: %v", header.Filename, err)
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("extraction failed: %v", err))
		return
	}

	logger.Printf("HandleUpload: %s extracted rows=%d pages=%d", header.Filename, len(records), len(doc.Pages))

	if h.audit != nil {
		details := fmt.Sprintf("file=%s rows=%d", header.Filename, len(records))
		if err := h.audit.LogAction(clientIP(r), database.AuditActionUpload, details); err != nil {
			logger.Warnf("HandleUpload: audit log failed: %v", err)
		}
	}
	if h.wsManager != nil {
		h.wsManager.Broadcast("EXTRACTION_COMPLETE",
			fmt.Sprintf("%s: %d rows extracted", header.Filename, len(records)), "info")
	}

	// Rows are empty maps, never null, when nothing was found.
	if records == nil {
		records = []extract.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"headers":    headers,
		"rows":       records,
		"total_rows": len(records),
	})
}

// stageUpload copies the uploaded stream to a uniquely named file in the
// upload directory and returns its path.
func (h *UploadHandler) stageUpload(src io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(h.uploadDir, uuid.New().String()+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// clientIP extracts the caller address without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// writeJSONError writes a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
