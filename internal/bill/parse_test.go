package bill

import (
	"strings"
	"testing"
)

const goodHeader = "line_id,date_of_service,code,code_type,units,charge,bill_label"

func TestParseLineItems_Valid(t *testing.T) {
	text := goodHeader + "\n" +
		"1,2024-01-01,99213,CPT,1,$100.00,Office visit\n" +
		"2,2024-01-02,J1100,HCPCS,2,\"$1,200.00\",\n"
	items, errs := ParseLineItems(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].LineID != 1 || items[0].Code != "99213" || items[0].ChargeCents != 10000 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].ChargeCents != 120000 {
		t.Errorf("charge with thousands separator: got %d cents", items[1].ChargeCents)
	}
	if items[0].BillLabel != "Office visit" {
		t.Errorf("bill_label = %q", items[0].BillLabel)
	}
	if items[1].BillLabel != "" {
		t.Errorf("empty bill_label should stay empty, got %q", items[1].BillLabel)
	}
}

func TestParseLineItems_TabDelimited(t *testing.T) {
	text := strings.ReplaceAll(goodHeader, ",", "\t") + "\n" +
		"1\t2024-01-01\t99213\tCPT\t1\t100.00\tvisit\n"
	items, errs := ParseLineItems(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Code != "99213" {
		t.Errorf("code = %q", items[0].Code)
	}
}

// A header with commas only must choose comma even when later rows are odd;
// a header with equal tab and comma counts prefers tab.
func TestDetectDelimiter(t *testing.T) {
	if d := detectDelimiter("a,b,c\n1,2,3"); d != ',' {
		t.Errorf("comma header: got %q", d)
	}
	if d := detectDelimiter("a\tb\tc\n"); d != '\t' {
		t.Errorf("tab header: got %q", d)
	}
	if d := detectDelimiter("a\tb,c\n"); d != '\t' {
		t.Errorf("tie prefers tab: got %q", d)
	}
	if d := detectDelimiter("plainheader\n"); d != ',' {
		t.Errorf("no delimiters defaults to comma: got %q", d)
	}
	if d := detectDelimiter("\n\n  \na\tb\n"); d != '\t' {
		t.Errorf("blank lines skipped before heuristic: got %q", d)
	}
}

func TestParseLineItems_CodeFence(t *testing.T) {
	text := "```csv\n" + goodHeader + "\n1,2024-01-01,99213,CPT,1,100,\n```"
	items, errs := ParseLineItems(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestParseLineItems_UnclosedFence(t *testing.T) {
	text := "```\n" + goodHeader + "\n1,2024-01-01,99213,CPT,1,100,\n"
	items, _ := ParseLineItems(text)
	if len(items) != 1 {
		t.Fatalf("expected 1 item with unclosed fence, got %d", len(items))
	}
}

func TestParseLineItems_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "_No response_"} {
		items, errs := ParseLineItems(text)
		if len(items) != 0 {
			t.Errorf("ParseLineItems(%q): expected no items", text)
		}
		if len(errs) != 1 || errs[0].String() != "No line-item data provided." {
			t.Errorf("ParseLineItems(%q): errors = %v", text, errs)
		}
	}
}

func TestParseLineItems_MissingColumns(t *testing.T) {
	text := "line_id,code,units\n1,99213,1\n"
	items, errs := ParseLineItems(text)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one structural error, got %d", len(errs))
	}
	msg := errs[0].String()
	if !strings.HasPrefix(msg, "Missing required columns: ") {
		t.Fatalf("unexpected error: %q", msg)
	}
	// Missing names are sorted.
	if !strings.Contains(msg, "charge, code_type, date_of_service") {
		t.Errorf("missing columns not sorted: %q", msg)
	}
}

func TestParseLineItems_HeaderNormalization(t *testing.T) {
	text := " Line_ID , DATE_OF_SERVICE ,Code,CODE_TYPE,Units,Charge\n1,2024-01-01,99213,CPT,1,100\n"
	items, errs := ParseLineItems(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestParseLineItems_BadRowsDoNotStopGoodRows(t *testing.T) {
	text := goodHeader + "\n" +
		"1,2024-01-01,99213,CPT,1,100,\n" +
		"x,not-a-date,,,y,z,\n" +
		"3,2024-01-03,J1100,HCPCS,1,50,\n"
	items, errs := ParseLineItems(text)
	if len(items) != 2 {
		t.Fatalf("expected 2 surviving items, got %d", len(items))
	}
	if items[0].LineID != 1 || items[1].LineID != 3 {
		t.Errorf("surviving items out of order: %+v", items)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(errs))
	}
}

// One bad row aggregates all of its failures in field order.
func TestParseLineItems_RowErrorAggregation(t *testing.T) {
	text := goodHeader + "\n" + "x,2024-99-99,,,y,z,\n"
	_, errs := ParseLineItems(text)
	if len(errs) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(errs))
	}
	e := errs[0]
	if e.RowIndex != 2 {
		t.Errorf("row index = %d, want 2", e.RowIndex)
	}
	if e.LineIDDisplay != "x" {
		t.Errorf("line id display = %q, want raw text", e.LineIDDisplay)
	}
	want := []string{
		"invalid line_id",
		"invalid date_of_service '2024-99-99'",
		"missing code",
		"missing code_type",
		"invalid units 'y'",
		"invalid charge 'z'",
	}
	if len(e.Messages) != len(want) {
		t.Fatalf("messages = %v", e.Messages)
	}
	for i := range want {
		if e.Messages[i] != want[i] {
			t.Errorf("message[%d] = %q, want %q", i, e.Messages[i], want[i])
		}
	}
	if !strings.Contains(e.String(), "Row 2, line_id=x: invalid line_id; ") {
		t.Errorf("rendered error = %q", e.String())
	}
}

func TestParseLineItems_PositionalPlaceholder(t *testing.T) {
	text := goodHeader + "\n" + ",2024-01-01,99213,CPT,1,100,\n"
	_, errs := ParseLineItems(text)
	if len(errs) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(errs))
	}
	if errs[0].LineIDDisplay != "(row 2)" {
		t.Errorf("placeholder = %q, want (row 2)", errs[0].LineIDDisplay)
	}
}

func TestParseLineItems_ZeroAndNegativeUnits(t *testing.T) {
	text := goodHeader + "\n" +
		"1,2024-01-01,99213,CPT,0,100,\n" +
		"2,2024-01-01,99213,CPT,-2,100,\n"
	items, errs := ParseLineItems(text)
	if len(errs) != 0 {
		t.Fatalf("units have no range check, got errors: %v", errs)
	}
	if items[0].Units != 0 || items[1].Units != -2 {
		t.Errorf("units: %d, %d", items[0].Units, items[1].Units)
	}
}

// Duplicate line_ids are allowed; uniqueness is not enforced.
func TestParseLineItems_DuplicateLineIDsAllowed(t *testing.T) {
	text := goodHeader + "\n" +
		"7,2024-01-01,99213,CPT,1,100,\n" +
		"7,2024-01-02,J1100,HCPCS,1,50,\n"
	items, errs := ParseLineItems(text)
	if len(errs) != 0 || len(items) != 2 {
		t.Fatalf("items=%d errs=%v", len(items), errs)
	}
}
