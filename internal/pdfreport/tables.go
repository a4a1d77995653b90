// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdfreport

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is the vertical band (in PDF points) within which text
// fragments are considered part of the same row.
const rowTolerance = 2.0

// textRow collects the fragments that share one baseline.
type textRow struct {
	y     float64
	frags []pdf.Text
}

// readPageTables rebuilds table grids per page from positioned text
// fragments. The result slice is indexed by page (0-based) and holds at most
// one detected grid per page; pages without a grid get nil.
func readPageTables(path string, numPages int) ([][]Table, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	perPage := make([][]Table, numPages)

	for pageNum := 1; pageNum <= r.NumPage() && pageNum <= numPages; pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		rows := groupTextRows(p.Content().Text)
		grid := buildGrid(rows)
		if len(grid) == 0 {
			continue
		}
		perPage[pageNum-1] = []Table{{Rows: grid}}
	}

	return perPage, nil
}

// groupTextRows buckets fragments into rows by Y coordinate and orders them
// top-to-bottom, fragments left-to-right within each row.
func groupTextRows(texts []pdf.Text) []textRow {
	var rows []textRow

	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}

		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].frags = append(rows[i].frags, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, frags: []pdf.Text{t}})
		}
	}

	// PDF origin is bottom-left: larger Y is higher on the page.
	sort.Slice(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		frags := rows[i].frags
		sort.Slice(frags, func(a, b int) bool { return frags[a].X < frags[b].X })
	}

	return rows
}

// buildGrid turns rows of fragments into a cell grid. Rows that split into
// fewer than two cells are layout noise (titles, footers) and are dropped.
func buildGrid(rows []textRow) [][]string {
	var grid [][]string
	for _, row := range rows {
		cells := rowCells(row.frags)
		if len(cells) < 2 {
			continue
		}
		grid = append(grid, cells)
	}
	return grid
}

// rowCells splits a row's fragments into cells on horizontal gaps. A gap
// wider than one em of the current font starts a new cell; a smaller but
// visible gap becomes a space inside the cell.
func rowCells(frags []pdf.Text) []string {
	var cells []string
	var cur strings.Builder
	lastEnd := 0.0

	for i, f := range frags {
		if i > 0 {
			em := f.FontSize
			if em <= 0 {
				em = 6
			}
			gap := f.X - lastEnd
			if gap > em {
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			} else if gap > em/4 {
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(f.S)
		lastEnd = f.X + f.W
	}

	if cur.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cur.String()))
	}
	return cells
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
