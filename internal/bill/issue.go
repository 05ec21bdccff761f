package bill

import (
	"regexp"
	"strings"
)

// NoResponse is the sentinel an issue form emits for a skipped field.
const NoResponse = "_No response_"

// LineItemsHeading marks the section holding the pasted line-item table.
const LineItemsHeading = "Line Items"

// HeaderFields carries the free-text bill header sections, verbatim.
// Blank or sentinel values are normalized to the empty string.
type HeaderFields struct {
	ProviderName   string
	FacilityName   string
	BillDate       string
	PatientAccount string
	TotalBilled    string
}

// Blank reports whether s is empty after trimming or is the issue-form
// "no response" sentinel.
func Blank(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == NoResponse
}

// HasLineItems reports whether the body contains the line-items form
// heading at all; callers skip bodies that don't.
func HasLineItems(body string) bool {
	return strings.Contains(body, "### "+LineItemsHeading)
}

// ExtractSection returns the content between a "### heading" line and the
// next "### " heading (or end of body).
func ExtractSection(body, heading string) (string, bool) {
	pattern := `(?s)###\s*` + regexp.QuoteMeta(heading) + `\s*\n(.*?)(?:\n###\s|\z)`
	m := regexp.MustCompile(pattern).FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ParseHeaderFields extracts the five free-text header sections from the
// issue body. The core never parses these further; they are rendered
// verbatim in the report header.
func ParseHeaderFields(body string) HeaderFields {
	section := func(heading string) string {
		s, ok := ExtractSection(body, heading)
		if !ok || Blank(s) {
			return ""
		}
		return s
	}
	return HeaderFields{
		ProviderName:   section("Provider Name"),
		FacilityName:   section("Facility Name"),
		BillDate:       section("Bill Date"),
		PatientAccount: section("Patient Account Number"),
		TotalBilled:    section("Total Billed"),
	}
}
