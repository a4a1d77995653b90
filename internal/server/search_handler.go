// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/quotedesk/internal/database"
	"github.com/quotedesk/internal/extract"
	"github.com/quotedesk/internal/logger"
)

// SearchRequest carries previously extracted rows back from the client along
// with the column filter to apply. The server keeps no row state between
// requests.
type SearchRequest struct {
	Rows   []extract.Record `json:"rows"`
	Column string           `json:"column"`
	Value  string           `json:"value"`
}

// SearchHandler filters extracted rows. audit may be nil.
type SearchHandler struct {
	audit *database.AuditLogStore
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(audit *database.AuditLogStore) *SearchHandler {
	return &SearchHandler{audit: audit}
}

// HandleSearch handles POST /search requests with a case-insensitive
// substring match on one column. An empty column or value returns every row.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	results := filterRows(req.Rows, req.Column, req.Value)

	if h.audit != nil {
		details := fmt.Sprintf("column=%s value=%s matches=%d", req.Column, req.Value, len(results))
		if err := h.audit.LogAction(clientIP(r), database.AuditActionSearch, details); err != nil {
			logger.Warnf("HandleSearch: audit log failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": results,
	})
}

// filterRows keeps the rows whose column value contains the needle,
// case-insensitively.
func filterRows(rows []extract.Record, column, value string) []extract.Record {
	if rows == nil {
		rows = []extract.Record{}
	}
	if column == "" || value == "" {
		return rows
	}

	needle := strings.ToLower(value)
	results := make([]extract.Record, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row[column]), needle) {
			results = append(results, row)
		}
	}
	return results
}
