package model

import (
	"fmt"
	"strings"
	"time"
)

// LineItem is one validated row of a bill: a billed service/code with
// quantity and charge. Money is integer cents. Line IDs are not required
// to be unique across a bill.
type LineItem struct {
	LineID        int
	DateOfService time.Time
	Code          string
	CodeType      string
	Units         int
	ChargeCents   int64
	BillLabel     string
}

// RowError aggregates the validation failures of a single input row.
// A row with any message contributes no LineItem.
//
// Structural failures (empty input, missing required columns) are carried
// as a RowError with RowIndex zero and a single message.
type RowError struct {
	RowIndex      int      // 1-based; the header is row 1, first data row is row 2
	LineIDDisplay string   // raw line_id text, or a "(row N)" placeholder
	Messages      []string // ordered validation failures
}

func (e RowError) String() string {
	if e.RowIndex == 0 {
		return strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("Row %d, line_id=%s: %s", e.RowIndex, e.LineIDDisplay, strings.Join(e.Messages, "; "))
}
