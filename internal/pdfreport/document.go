// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdfreport

// Page is one decoded PDF page: its extractable text as an ordered list of
// lines, plus any table grids rebuilt from positioned text fragments.
type Page struct {
	Number int
	Lines  []string
	Tables []Table
}

// Table is an ordered grid of rows. Cells may be empty strings.
type Table struct {
	Rows [][]string
}

// Document is the decoded form of one PDF file, pages in order.
type Document struct {
	Path  string
	Pages []Page
}
