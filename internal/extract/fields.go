// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"regexp"
	"strings"
)

var (
	// dateRe matches m/d/yy date tokens.
	dateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2}`)

	// moneyRe matches an optionally comma-grouped integer part followed by
	// a decimal point and exactly two digits.
	moneyRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})+\.\d{2}|\d+\.\d{2}`)

	// milestoneRe matches progress phrases like "Incomplete - 10%" or
	// "Complete-100%". The hyphen is required; surrounding spaces are not.
	milestoneRe = regexp.MustCompile(`(?i)(?:incomplete|complete)\s*-\s*\d+%`)

	// vendorQtyRe matches a short uppercase vendor code (optionally
	// hyphen-suffixed with one letter) followed by a quantity and the start
	// of a date token.
	vendorQtyRe = regexp.MustCompile(`\s([A-Z]{2,5}(?:-[A-Z])?)\s+(\d+)\s+\d{1,2}/\d{1,2}/\d{2}`)

	// addedByRe matches a trailing phrase of two or more letter words.
	addedByRe = regexp.MustCompile(`[A-Za-z]+(?:\s+[A-Za-z]+)+\s*$`)

	// summaryRe matches the trailing run of word, digit, hyphen, or hash
	// characters ahead of a milestone phrase.
	summaryRe = regexp.MustCompile(`[\w#-]+\s*$`)
)

// extractFields decomposes the remainder of a record line into named fields.
// Every sub-extraction runs independently: a field that cannot be located
// stays absent from the map, and a later miss never undoes an earlier hit.
func extractFields(remainder string) map[string]string {
	fields := make(map[string]string)

	dates := dateRe.FindAllStringIndex(remainder, -1)
	if len(dates) > 0 {
		fields["AddDate"] = remainder[dates[0][0]:dates[0][1]]
	}
	if len(dates) > 1 {
		fields["Exp. Close"] = remainder[dates[1][0]:dates[1][1]]
	}

	money := moneyRe.FindAllStringIndex(remainder, -1)
	switch {
	case len(money) >= 2:
		// The last two amounts on the line are unit and extended price.
		fields["ListEach"] = remainder[money[len(money)-2][0]:money[len(money)-2][1]]
		fields["Ext_Price"] = remainder[money[len(money)-1][0]:money[len(money)-1][1]]
	case len(money) == 1:
		fields["ListEach"] = remainder[money[0][0]:money[0][1]]
	}

	stateCode, stateIdx := findStateCode(remainder)
	if stateCode != "" {
		fields["State"] = stateCode
	}

	if m := milestoneRe.FindStringIndex(remainder); m != nil {
		fields["Milestone"] = remainder[m[0]:m[1]]
		if sm := summaryRe.FindString(remainder[:m[0]]); strings.TrimSpace(sm) != "" {
			fields["Summary"] = strings.TrimSpace(sm)
		}
	}

	partNum := ""
	if tokens := strings.Fields(remainder); len(tokens) > 0 {
		partNum = tokens[0]
		fields["PartNum"] = partNum
	}

	vendor := ""
	if m := vendorQtyRe.FindStringSubmatch(remainder); m != nil {
		vendor = m[1]
		fields["Vendor"] = vendor
		fields["Qty"] = m[2]
	}

	// Description lives between the part number token and the vendor code.
	if vendor != "" && partNum != "" {
		pi := strings.Index(remainder, partNum)
		vi := strings.Index(remainder, vendor)
		if pi >= 0 && vi > pi+len(partNum) {
			fields["Description"] = strings.TrimSpace(remainder[pi+len(partNum) : vi])
		}
	}

	// Customer name lives between the state code and the first amount.
	if stateCode != "" && len(money) > 0 {
		if mi := money[0][0]; mi > stateIdx+len(stateCode) {
			fields["Customer Name"] = strings.TrimSpace(remainder[stateIdx+len(stateCode) : mi])
		}
	}

	// Added-by is the name phrase between the first date and the state code.
	if stateCode != "" && len(dates) > 0 {
		if de := dates[0][1]; de <= stateIdx {
			if m := addedByRe.FindString(remainder[de:stateIdx]); m != "" {
				fields["Added By"] = strings.TrimSpace(m)
			}
		}
	}

	return fields
}

// findStateCode scans the state table in enumeration order and returns the
// first code that sits right after a letter (with at most one intervening
// space) and is followed by whitespace or end of line, together with its
// index in the string. Enumeration order, not line position, decides between
// multiple candidates.
func findStateCode(s string) (string, int) {
	for _, code := range stateCodes {
		for start := 0; start < len(s); {
			i := strings.Index(s[start:], code)
			if i < 0 {
				break
			}
			idx := start + i
			if stateBoundaryOK(s, idx, len(code)) {
				return code, idx
			}
			start = idx + 1
		}
	}
	return "", -1
}

// stateBoundaryOK checks the adjacency rule for a state code occurrence.
func stateBoundaryOK(s string, idx, n int) bool {
	end := idx + n
	if end < len(s) && s[end] != ' ' && s[end] != '\t' {
		return false
	}
	if idx == 0 {
		return false
	}
	prev := s[idx-1]
	if isASCIILetter(prev) {
		return true
	}
	return prev == ' ' && idx >= 2 && isASCIILetter(s[idx-2])
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
