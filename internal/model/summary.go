package model

import "time"

// RunSummary captures metrics from a single translation run.
type RunSummary struct {
	RowsParsed      int64 // valid line items
	RowsRejected    int64 // rows excluded by validation
	Entries         int64
	DuplicateGroups int64
	Clarifications  int64
	TotalCents      int64
	PackSHA256      string
	Duration        time.Duration
}
