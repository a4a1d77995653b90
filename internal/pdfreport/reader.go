// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdfreport

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/quotedesk/internal/logger"
)

// Open decodes every page of a PDF using go-fitz (MuPDF) for the page text
// and the positioned-text reader for table grids. An unreadable or corrupt
// file fails the whole document; there is no partial decode.
func Open(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]Page, 0, numPages)

	for i := 0; i < numPages; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i+1, err)
		}
		pages = append(pages, Page{
			Number: i + 1,
			Lines:  splitLines(pageText),
		})
	}

	// Table grids are best-effort: a PDF that MuPDF reads fine but the
	// positioned-text reader chokes on still yields its text lines.
	tables, err := readPageTables(path, numPages)
	if err != nil {
		logger.Warnf("table detection failed for %s: %v", path, err)
	} else {
		for i := range pages {
			if i < len(tables) {
				pages[i].Tables = tables[i]
			}
		}
	}

	return &Document{Path: path, Pages: pages}, nil
}

// splitLines breaks page text into lines, dropping carriage returns.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
