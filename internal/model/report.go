package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportEntry is the evaluated form of one LineItem: descriptions resolved
// against the code pack plus any accumulated notes. Exactly one entry exists
// per valid LineItem, in ascending LineID order.
type ReportEntry struct {
	LineID              int
	DateOfService       time.Time
	Code                string
	CodeType            string
	OfficialDescription string
	PlainEnglish        string
	Units               int
	ChargeCents         int64
	Notes               string // semicolon-joined, possibly empty
}

// Clarification flags one line item for human follow-up. An item appears at
// most once but may carry several reasons from independent rules.
type Clarification struct {
	LineID  int
	Code    string
	Reasons []string // non-empty, in discovery order
}

// DuplicateGroup is a set of two or more line items sharing identical
// (date_of_service, code, units, charge). GroupNumber is 1-based, assigned
// by ascending minimum LineID.
type DuplicateGroup struct {
	GroupNumber   int
	LineIDs       []int // in encounter order (ascending LineID)
	DateOfService time.Time
	Code          string
	Units         int
	ChargeCents   int64
}

// Result is the final aggregate handed to rendering and persistence.
// All slices preserve the orderings established by the pipeline stages.
type Result struct {
	RunID          uuid.UUID
	Entries        []ReportEntry
	Duplicates     []DuplicateGroup
	Clarifications []Clarification
	RowErrors      []RowError
	TotalCents     int64 // sum of all entries' charges
}
