// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"strings"

	"github.com/quotedesk/internal/pdfreport"
)

// isRecordRow reports whether a table row holds record data: its first cell,
// trimmed, must be all digits and at least six characters long.
func isRecordRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	if len(first) < 6 {
		return false
	}
	for i := 0; i < len(first); i++ {
		if first[i] < '0' || first[i] > '9' {
			return false
		}
	}
	return true
}

// projectRows maps qualifying table rows positionally onto the header
// schema: cell i becomes header i, extra cells are dropped, missing cells
// stay empty. No pattern extraction happens on this path.
func projectRows(rows [][]string) []Record {
	var records []Record
	for _, row := range rows {
		if !isRecordRow(row) {
			continue
		}
		fields := make(map[string]string, len(Headers))
		for i, h := range Headers {
			if i < len(row) {
				fields[h] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, assemble(fields))
	}
	return records
}

// gridState carries the per-document parser state for the generic grid walk:
// whether a header row has been captured yet.
type gridState struct {
	headerSeen bool
}

// headerLabels are the column names that mark a header-looking first row in
// the generic grid walk.
var headerLabels = []string{"quote", "part", "description", "qty", "price"}

// ExtractGrid walks every detected table in page order and returns the raw
// cleaned rows, capturing the first header-looking row of the document as
// the header list. Empty rows and summary-total rows are skipped. This is
// the generic projection used by callers that want the grid as-is rather
// than normalized records.
func ExtractGrid(doc *pdfreport.Document) (headers []string, rows [][]string) {
	st := &gridState{}
	for pageIdx, page := range doc.Pages {
		for _, table := range page.Tables {
			headers, rows = walkGrid(st, pageIdx, table.Rows, headers, rows)
		}
	}
	return headers, rows
}

// walkGrid appends one table's usable rows, threading the header-seen state
// through explicitly rather than keeping it ambient.
func walkGrid(st *gridState, pageIdx int, tableRows [][]string, headers []string, rows [][]string) ([]string, [][]string) {
	for rowIdx, row := range tableRows {
		cleaned := make([]string, len(row))
		any := false
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
			if cleaned[i] != "" {
				any = true
			}
		}

		// The first row of the first page may be the column header.
		if rowIdx == 0 && pageIdx == 0 && !st.headerSeen {
			joined := strings.ToLower(strings.Join(cleaned, " "))
			for _, label := range headerLabels {
				if strings.Contains(joined, label) {
					headers = cleaned
					st.headerSeen = true
					break
				}
			}
			if st.headerSeen {
				continue
			}
		}

		if !any || strings.HasPrefix(cleaned[0], "CRM Total") {
			continue
		}
		rows = append(rows, cleaned)
	}
	return headers, rows
}
