// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quotedesk/internal/database"
)

// HandleAuditLogs handles GET /api/v1/audit requests
func HandleAuditLogs(w http.ResponseWriter, r *http.Request, auditLogStore *database.AuditLogStore) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Limit defaults to 50 and ignores unparsable values
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := parseAuditLimit(limitStr); err == nil {
			limit = parsed
		}
	}

	action := r.URL.Query().Get("action")

	logs, err := auditLogStore.GetRecentLogs(limit, action)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	})
}

// parseAuditLimit is a simple helper to parse integer from string
func parseAuditLimit(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	return result, err
}
