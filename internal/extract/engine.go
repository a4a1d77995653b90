// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/quotedesk/internal/pdfreport"
)

// Headers is the fixed output schema. Every extracted record carries exactly
// these keys in this order, regardless of which fields were found.
var Headers = []string{
	"Quote #", "PartNum", "Description", "Vendor", "Qty",
	"AddDate", "Exp. Close", "Added By", "State", "Customer Name",
	"ListEach", "Ext_Price", "Summary", "Milestone",
}

// Record is one extracted quote row keyed by schema header.
type Record map[string]string

// assemble normalizes a field map onto the full schema: every header key is
// present, unknown keys are dropped, missing values are empty strings.
func assemble(fields map[string]string) Record {
	rec := make(Record, len(Headers))
	for _, h := range Headers {
		rec[h] = fields[h]
	}
	return rec
}

// defaultWorkers is the page-pass concurrency when the caller does not set one.
const defaultWorkers = 4

// Engine runs the line-based extraction over a report document, with a
// positional table fallback when the line pass finds nothing anywhere.
type Engine struct {
	workers int
}

// NewEngine returns an Engine running up to workers concurrent page passes.
// Values below one fall back to the default.
func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Engine{workers: workers}
}

// Extract runs the engine over a document and returns the schema headers and
// the records in page order. Pages are independent, so the line pass runs
// them concurrently and re-merges by page index. The table fallback only
// triggers after every page has been processed and the whole document yielded
// zero records.
func (e *Engine) Extract(ctx context.Context, doc *pdfreport.Document) ([]string, []Record, error) {
	pageRecords := make([][]Record, len(doc.Pages))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range doc.Pages {
		i := i
		g.Go(func() error {
			pageRecords[i] = extractLines(doc.Pages[i].Lines)
			return nil
		})
	}
	// Page workers never fail; the wait is the merge barrier.
	_ = g.Wait()

	var records []Record
	for _, prs := range pageRecords {
		records = append(records, prs...)
	}

	if len(records) == 0 {
		for _, page := range doc.Pages {
			for _, table := range page.Tables {
				records = append(records, projectRows(table.Rows)...)
			}
		}
	}

	return Headers, records, nil
}

// extractLines runs the line pass over one page: skip noise, detect record
// starts, decompose the remainder, and assemble onto the schema.
func extractLines(lines []string) []Record {
	var records []Record
	for _, line := range lines {
		if isNoiseLine(line) {
			continue
		}
		quoteNum, remainder, ok := splitRecordLine(strings.TrimSpace(line))
		if !ok {
			continue
		}
		fields := extractFields(remainder)
		fields["Quote #"] = quoteNum
		records = append(records, assemble(fields))
	}
	return records
}
