// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import "testing"

func TestExtractFields_Dates(t *testing.T) {
	fields := extractFields("PART widget 1/2/24 12/31/25 trailing")
	if fields["AddDate"] != "1/2/24" {
		t.Errorf("AddDate mismatch: %q", fields["AddDate"])
	}
	if fields["Exp. Close"] != "12/31/25" {
		t.Errorf("Exp. Close mismatch: %q", fields["Exp. Close"])
	}
}

func TestExtractFields_SingleDate(t *testing.T) {
	fields := extractFields("PART widget 1/2/24 only")
	if fields["AddDate"] != "1/2/24" {
		t.Errorf("AddDate mismatch: %q", fields["AddDate"])
	}
	if _, ok := fields["Exp. Close"]; ok {
		t.Errorf("Exp. Close should be absent with one date, got %q", fields["Exp. Close"])
	}
}

func TestExtractFields_MoneyLastTwo(t *testing.T) {
	fields := extractFields("PART 1.00 2.00 3.00 4.00")
	if fields["ListEach"] != "3.00" {
		t.Errorf("ListEach mismatch. Expected 3.00, got %q", fields["ListEach"])
	}
	if fields["Ext_Price"] != "4.00" {
		t.Errorf("Ext_Price mismatch. Expected 4.00, got %q", fields["Ext_Price"])
	}
}

func TestExtractFields_MoneyGrouped(t *testing.T) {
	fields := extractFields("PART 1,234.56 12,345,678.90")
	if fields["ListEach"] != "1,234.56" {
		t.Errorf("ListEach mismatch: %q", fields["ListEach"])
	}
	if fields["Ext_Price"] != "12,345,678.90" {
		t.Errorf("Ext_Price mismatch: %q", fields["Ext_Price"])
	}
}

func TestExtractFields_SingleAmount(t *testing.T) {
	fields := extractFields("PART 10.00")
	if fields["ListEach"] != "10.00" {
		t.Errorf("ListEach mismatch: %q", fields["ListEach"])
	}
	if _, ok := fields["Ext_Price"]; ok {
		t.Errorf("Ext_Price should be absent with one amount, got %q", fields["Ext_Price"])
	}
}

func TestExtractFields_Milestone(t *testing.T) {
	accept := map[string]string{
		"PART SUM1 Incomplete - 10%": "Incomplete - 10%",
		"PART SUM1 Incomplete-10%":   "Incomplete-10%",
		"PART SUM1 complete - 100%":  "complete - 100%",
	}
	for remainder, want := range accept {
		fields := extractFields(remainder)
		if fields["Milestone"] != want {
			t.Errorf("Milestone for %q: expected %q, got %q", remainder, want, fields["Milestone"])
		}
		if fields["Summary"] != "SUM1" {
			t.Errorf("Summary for %q: expected SUM1, got %q", remainder, fields["Summary"])
		}
	}

	fields := extractFields("PART SUM1 Incomplete 10%")
	if _, ok := fields["Milestone"]; ok {
		t.Errorf("Milestone without hyphen should not match, got %q", fields["Milestone"])
	}
}

func TestExtractFields_StateAdjacency(t *testing.T) {
	fields := extractFields("PART 1/2/24 Jane Doe CA Acme 10.00")
	if fields["State"] != "CA" {
		t.Errorf("State mismatch. Expected CA, got %q", fields["State"])
	}

	// A code embedded in a longer uppercase token does not qualify: the
	// character after the code must be whitespace or end of line.
	fields = extractFields("PART 1/2/24 SCALE 10.00")
	if _, ok := fields["State"]; ok {
		t.Errorf("Embedded code should not match, got %q", fields["State"])
	}
}

func TestExtractFields_StateEnumerationOrder(t *testing.T) {
	// Both AL and CA qualify; AL precedes CA in the state table, so it wins
	// even though CA appears earlier in the line.
	fields := extractFields("PART Smith CA Jones AL 10.00")
	if fields["State"] != "AL" {
		t.Errorf("Enumeration order should pick AL, got %q", fields["State"])
	}
}

func TestExtractFields_VendorQty(t *testing.T) {
	fields := extractFields("WIDGET-99 desc AVA-C 5 1/2/24 rest")
	if fields["Vendor"] != "AVA-C" {
		t.Errorf("Vendor mismatch: %q", fields["Vendor"])
	}
	if fields["Qty"] != "5" {
		t.Errorf("Qty mismatch: %q", fields["Qty"])
	}
}

func TestExtractFields_EndToEnd(t *testing.T) {
	remainder := "WIDGET-99 A cool widget AVA-C 5 1/2/24 3/4/24 Jane Doe CA Acme Corp 10.00 50.00 SUM1 Incomplete - 10%"
	fields := extractFields(remainder)

	want := map[string]string{
		"PartNum":       "WIDGET-99",
		"Description":   "A cool widget",
		"Vendor":        "AVA-C",
		"Qty":           "5",
		"AddDate":       "1/2/24",
		"Exp. Close":    "3/4/24",
		"Added By":      "Jane Doe",
		"State":         "CA",
		"Customer Name": "Acme Corp",
		"ListEach":      "10.00",
		"Ext_Price":     "50.00",
		"Summary":       "SUM1",
		"Milestone":     "Incomplete - 10%",
	}
	for key, expected := range want {
		if fields[key] != expected {
			t.Errorf("%s mismatch. Expected %q, got %q", key, expected, fields[key])
		}
	}
}

func TestExtractFields_IndependentMisses(t *testing.T) {
	// No vendor and no state: dates and money still come through.
	fields := extractFields("PART something 1/2/24 3/4/24 9.99 19.98")
	if fields["AddDate"] != "1/2/24" || fields["Exp. Close"] != "3/4/24" {
		t.Errorf("Dates lost on partial line: %q / %q", fields["AddDate"], fields["Exp. Close"])
	}
	if fields["ListEach"] != "9.99" || fields["Ext_Price"] != "19.98" {
		t.Errorf("Amounts lost on partial line: %q / %q", fields["ListEach"], fields["Ext_Price"])
	}
	if _, ok := fields["Vendor"]; ok {
		t.Errorf("Vendor should be absent")
	}
	if _, ok := fields["Description"]; ok {
		t.Errorf("Description requires both part and vendor anchors")
	}
}
