// Package bill parses pasted medical bill data: the delimited line-item
// table and the free-text issue-form sections around it.
package bill

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gyeh/billtranslate/internal/model"
	"github.com/gyeh/billtranslate/internal/normalize"
)

// requiredColumns must all be present in the line-item header after
// trimming and lower-casing.
var requiredColumns = []string{"line_id", "date_of_service", "code", "code_type", "units", "charge"}

// bomPrefix is the UTF-8 byte order mark, stripped from the first header cell.
const bomPrefix = "\ufeff"

// Issue forms with render:text wrap pasted content in code fences.
var (
	fenceOpen  = regexp.MustCompile("^```[^\n]*\n?")
	fenceClose = regexp.MustCompile("\n?```\\s*$")
)

// ParseLineItems converts raw delimited text into validated line items plus
// row-level errors. Each data row is validated independently: a row with
// any failure contributes one RowError aggregating all its messages and no
// LineItem, and never stops the rows after it. Items keep input row order.
//
// Structural failures (no data at all, missing required columns) return
// zero items and exactly one error.
func ParseLineItems(text string) ([]model.LineItem, []model.RowError) {
	if Blank(text) {
		return nil, []model.RowError{{Messages: []string{"No line-item data provided."}}}
	}

	body := stripFence(strings.TrimSpace(text))

	r := csv.NewReader(strings.NewReader(body))
	r.Comma = detectDelimiter(body)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, []model.RowError{{Messages: []string{"No line-item data provided."}}}
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bomPrefix)))
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, []model.RowError{{Messages: []string{
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
		}}}
	}

	var (
		items  []model.LineItem
		errors []model.RowError
	)

	rowNum := 1 // header is row 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			errors = append(errors, model.RowError{
				RowIndex:      rowNum,
				LineIDDisplay: fmt.Sprintf("(row %d)", rowNum),
				Messages:      []string{fmt.Sprintf("unreadable row: %v", err)},
			})
			continue
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		var rowErrs []string
		item := model.LineItem{BillLabel: field("bill_label")}

		rawLineID := field("line_id")
		lineID, err := strconv.Atoi(rawLineID)
		if err != nil {
			rowErrs = append(rowErrs, "invalid line_id")
		}
		item.LineID = lineID

		rawDOS := field("date_of_service")
		dos, err := normalize.ParseDate(rawDOS)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("invalid date_of_service '%s'", rawDOS))
		}
		item.DateOfService = dos

		item.Code = field("code")
		if item.Code == "" {
			rowErrs = append(rowErrs, "missing code")
		}

		item.CodeType = field("code_type")
		if item.CodeType == "" {
			rowErrs = append(rowErrs, "missing code_type")
		}

		rawUnits := field("units")
		units, err := strconv.Atoi(rawUnits)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("invalid units '%s'", rawUnits))
		}
		item.Units = units

		rawCharge := field("charge")
		cents, err := normalize.ParseMoney(rawCharge)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("invalid charge '%s'", rawCharge))
		}
		item.ChargeCents = cents

		if len(rowErrs) > 0 {
			display := rawLineID
			if display == "" {
				display = fmt.Sprintf("(row %d)", rowNum)
			}
			errors = append(errors, model.RowError{
				RowIndex:      rowNum,
				LineIDDisplay: display,
				Messages:      rowErrs,
			})
			continue
		}
		items = append(items, item)
	}

	return items, errors
}

// detectDelimiter inspects the first non-blank line and picks tab only when
// the tab count is both positive and at least the comma count; otherwise
// comma. A heuristic over the header line only.
func detectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tabs := strings.Count(line, "\t")
		commas := strings.Count(line, ",")
		if tabs >= commas && tabs > 0 {
			return '\t'
		}
		return ','
	}
	return ','
}

// stripFence removes a single leading and trailing fenced-code wrapper,
// tolerating the absence of either.
func stripFence(s string) string {
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(s)
}
