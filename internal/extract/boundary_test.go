// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import "testing"

func TestSplitRecordLine_Basic(t *testing.T) {
	quoteNum, remainder, ok := splitRecordLine("1234567 WIDGET")
	if !ok {
		t.Fatalf("Expected record start for 7-digit key")
	}
	if quoteNum != "1234567" {
		t.Errorf("Quote number mismatch. Expected 1234567, got %q", quoteNum)
	}
	if remainder != "WIDGET" {
		t.Errorf("Remainder mismatch. Expected WIDGET, got %q", remainder)
	}
}

func TestSplitRecordLine_Rejections(t *testing.T) {
	cases := []string{
		"123456 WIDGET",    // six digits
		"12345678 WIDGET",  // eight digits
		"1234567",          // no remainder
		"1234567 ",         // whitespace-only remainder
		"ABC1234567 WIDGET", // key not at line start
		"1234567 Quote Type: Standard", // section header echo
	}
	for _, line := range cases {
		if _, _, ok := splitRecordLine(line); ok {
			t.Errorf("Expected no record start for %q", line)
		}
	}
}

func TestSplitRecordLine_MultipleSpaces(t *testing.T) {
	quoteNum, remainder, ok := splitRecordLine("7654321   PART-1 rest of line")
	if !ok {
		t.Fatalf("Expected record start with run of spaces after key")
	}
	if quoteNum != "7654321" {
		t.Errorf("Quote number mismatch: %q", quoteNum)
	}
	if remainder != "PART-1 rest of line" {
		t.Errorf("Remainder mismatch: %q", remainder)
	}
}
