// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

// stateCodes lists the 50 US state abbreviations plus DC. State lookup scans
// this slice in order and the first qualifying match wins, so the order here
// is part of the extraction behavior.
var stateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
	"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
	"MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH",
	"NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
	"WY",
}
