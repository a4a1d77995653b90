// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdfreport

import (
	"reflect"
	"testing"

	"github.com/ledongthuc/pdf"
)

func frag(s string, x, y, w, size float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: size}
}

func TestGroupTextRows_YTolerance(t *testing.T) {
	texts := []pdf.Text{
		frag("Quote", 10, 700.0, 30, 8),
		frag("#", 45, 700.8, 5, 8), // same baseline within tolerance
		frag("1234567", 10, 688.0, 40, 8),
	}

	rows := groupTextRows(texts)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if len(rows[0].frags) != 2 {
		t.Errorf("Expected 2 fragments in first row, got %d", len(rows[0].frags))
	}
	// Higher Y comes first (top of page).
	if rows[0].frags[0].S != "Quote" {
		t.Errorf("Row order wrong: %v", rows[0].frags[0].S)
	}
}

func TestGroupTextRows_XOrderWithinRow(t *testing.T) {
	texts := []pdf.Text{
		frag("right", 200, 500, 20, 8),
		frag("left", 10, 500.5, 20, 8),
	}

	rows := groupTextRows(texts)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].frags[0].S != "left" || rows[0].frags[1].S != "right" {
		t.Errorf("Fragments not sorted by X: %v %v", rows[0].frags[0].S, rows[0].frags[1].S)
	}
}

func TestRowCells_GapSplitting(t *testing.T) {
	// "1234567" then a wide gap, then "PART" "-1" close together.
	frags := []pdf.Text{
		frag("1234567", 10, 700, 35, 8),
		frag("PART", 100, 700, 20, 8), // gap 55 > em: new cell
		frag("-1", 123, 700, 8, 8),    // gap 3, between em/4 and em: space joins the cell
	}

	cells := rowCells(frags)
	if len(cells) != 2 {
		t.Fatalf("Expected 2 cells, got %d: %v", len(cells), cells)
	}
	if cells[0] != "1234567" {
		t.Errorf("First cell mismatch: %q", cells[0])
	}
	if cells[1] != "PART -1" {
		t.Errorf("Second cell mismatch: %q", cells[1])
	}
}

func TestRowCells_TightFragmentsConcatenate(t *testing.T) {
	frags := []pdf.Text{
		frag("Inco", 10, 700, 16, 8),
		frag("mplete", 26.5, 700, 24, 8), // gap 0.5 < em/4: no space
	}

	cells := rowCells(frags)
	if len(cells) != 1 || cells[0] != "Incomplete" {
		t.Errorf("Expected single cell Incomplete, got %v", cells)
	}
}

func TestBuildGrid_DropsSingleCellRows(t *testing.T) {
	rows := []textRow{
		{y: 700, frags: []pdf.Text{frag("DAILY QUOTE REVIEW", 10, 700, 100, 10)}},
		{y: 688, frags: []pdf.Text{
			frag("1234567", 10, 688, 35, 8),
			frag("PART-1", 100, 688, 30, 8),
		}},
	}

	grid := buildGrid(rows)
	if len(grid) != 1 {
		t.Fatalf("Expected 1 grid row, got %d", len(grid))
	}
	if !reflect.DeepEqual(grid[0], []string{"1234567", "PART-1"}) {
		t.Errorf("Grid row mismatch: %v", grid[0])
	}
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("a\r\nb\rc\nd")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Expected %v, got %v", want, lines)
	}
}
