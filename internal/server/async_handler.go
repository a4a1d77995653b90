// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quotedesk/internal/database"
	"github.com/quotedesk/internal/jobs"
	"github.com/quotedesk/internal/logger"
	"github.com/quotedesk/internal/queue"
)

// AsyncIngestHandler accepts uploads for background extraction through the
// job queue.
type AsyncIngestHandler struct {
	store     *database.ExtractionStore
	queue     queue.Queue
	audit     *database.AuditLogStore
	uploadDir string
}

// NewAsyncIngestHandler creates the async ingest handler. audit may be nil.
func NewAsyncIngestHandler(store *database.ExtractionStore, q queue.Queue, audit *database.AuditLogStore, uploadDir string) *AsyncIngestHandler {
	return &AsyncIngestHandler{store: store, queue: q, audit: audit, uploadDir: uploadDir}
}

// HandleIngestAsync handles POST /api/v1/ingest/async requests: stage the
// PDF, record a pending extraction, enqueue a job, and return 202 with the
// job ID.
func (h *AsyncIngestHandler) HandleIngestAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.queue == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "job queue not available")
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

	// The staged file stays on disk until the worker picks it up.
	staging := UploadHandler{uploadDir: h.uploadDir}
	path, err := staging.stageUpload(file)
	if err != nil {
		logger.Errorf("HandleIngestAsync: failed to stage %s: %v", header.Filename, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	extractionID := uuid.New().String()
	if err := h.store.Create(extractionID, header.Filename); err != nil {
		logger.Errorf("HandleIngestAsync: failed to create extraction: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create extraction")
		return
	}

	payload := jobs.ExtractDocumentPayload{
		ExtractionID: extractionID,
		Path:         path,
		Filename:     header.Filename,
		RequestedAt:  time.Now(),
	}
	if err := jobs.EnqueueExtractDocument(r.Context(), h.queue, payload); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to enqueue job: %v", err))
		return
	}

	if h.audit != nil {
		details := fmt.Sprintf("file=%s job=%s", header.Filename, extractionID)
		if err := h.audit.LogAction(clientIP(r), database.AuditActionIngest, details); err != nil {
			logger.Warnf("HandleIngestAsync: audit log failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"job_id": extractionID,
		"status": database.ExtractionStatusPending,
	})
}

// HandleJobStatus handles GET /api/v1/jobs/{id} requests.
func (h *AsyncIngestHandler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusBadRequest, "job id required")
		return
	}

	ext, err := h.store.Get(id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "job not found")
			return
		}
		logger.Errorf("HandleJobStatus: failed to load %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load job")
		return
	}

	response := map[string]interface{}{
		"job_id":     ext.ID,
		"filename":   ext.Filename,
		"status":     ext.Status,
		"total_rows": ext.TotalRows,
		"created_at": ext.CreatedAt,
		"updated_at": ext.UpdatedAt,
	}
	if ext.Status == database.ExtractionStatusFailed {
		response["error"] = ext.Error
	}
	if ext.Status == database.ExtractionStatusComplete && ext.Result != "" {
		var rows json.RawMessage = []byte(ext.Result)
		response["rows"] = rows
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
