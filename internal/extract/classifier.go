// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import "strings"

// Markers that identify non-record lines in quote review report text.
const (
	reportTitleMarker   = "DAILY QUOTE REVIEW"
	printedAtMarker     = "Printed:"
	quoteNumHeaderLabel = "Quote #"
	partNumHeaderLabel  = "PartNum"
	quoteTypeLabel      = "Quote Type:"
	discountTotalMarker = "Total After Discount"
	summaryTotalPrefix  = "CRM"
	columnEchoMarker    = "Summary Milestone"
)

// isNoiseLine reports whether a trimmed line carries no record data: blank
// lines, the report title, print timestamps, repeated column headers,
// section labels, footer totals, and trailing column echoes. Pure function;
// identical input always yields the same verdict.
func isNoiseLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return true
	case strings.Contains(trimmed, reportTitleMarker):
		return true
	case strings.Contains(trimmed, printedAtMarker):
		return true
	case strings.Contains(trimmed, quoteNumHeaderLabel) && strings.Contains(trimmed, partNumHeaderLabel):
		return true
	case strings.Contains(trimmed, quoteTypeLabel):
		return true
	case strings.Contains(trimmed, discountTotalMarker):
		return true
	case strings.HasPrefix(trimmed, summaryTotalPrefix):
		return true
	case strings.Contains(trimmed, columnEchoMarker):
		return true
	}
	return false
}
