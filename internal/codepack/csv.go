package codepack

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gyeh/billtranslate/internal/normalize"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a code definition pack from a CSV file. A malformed pack is
// a fatal configuration error: missing required columns, unreadable rows,
// and unparseable effective dates all abort the load. Duplicate codes are
// resolved last-row-wins.
func LoadCSV(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open code pack: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read code pack header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if err := checkColumns(func(col string) bool { _, ok := idx[col]; return ok }); err != nil {
		return nil, err
	}

	defs := make(map[string]Definition)
	rowNum := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read code pack row %d: %w", rowNum+1, err)
		}
		rowNum++

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		def, err := buildDefinition(
			field("code_type"),
			field("official_description"),
			field("plain_english"),
			field("status"),
			field("effective_date"),
		)
		if err != nil {
			return nil, fmt.Errorf("code pack row %d: %w", rowNum, err)
		}
		defs[field("code")] = def
	}

	return &Pack{defs: defs}, nil
}

// checkColumns verifies all required columns are present, reporting the
// missing ones sorted by name.
func checkColumns(present func(string) bool) error {
	var missing []string
	for _, col := range requiredColumns {
		if !present(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("code pack missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// buildDefinition assembles a Definition from trimmed raw fields. The
// effective date must be a valid ISO date; anything else is fatal here,
// unlike bill dates which are tolerated per-row.
func buildDefinition(codeType, official, plain, status, effectiveDate string) (Definition, error) {
	eff, err := normalize.ParseDate(effectiveDate)
	if err != nil {
		return Definition{}, fmt.Errorf("invalid effective_date %q", effectiveDate)
	}
	return Definition{
		CodeType:            codeType,
		OfficialDescription: official,
		PlainEnglish:        plain,
		Status:              status,
		EffectiveDate:       eff,
	}, nil
}
