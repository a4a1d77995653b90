// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"regexp"
	"strings"
)

// recordStartRe matches the start of a record line: exactly seven digits,
// whitespace, then at least one remaining character.
var recordStartRe = regexp.MustCompile(`^(\d{7})\s+(.+)$`)

// splitRecordLine returns the leading quote number and the remainder when
// the line begins a record. Lines whose remainder echoes a "Quote Type"
// section header are not records. Records never span lines: a failed match
// never looks at neighbors.
func splitRecordLine(line string) (quoteNum, remainder string, ok bool) {
	m := recordStartRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	if strings.HasPrefix(strings.TrimSpace(m[2]), "Quote Type") {
		return "", "", false
	}
	return m[1], m[2], true
}
