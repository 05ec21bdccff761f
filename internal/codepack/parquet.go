package codepack

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const readBatchSize = 256

// Row mirrors the Parquet schema of a code definition pack. The effective
// date is carried as an ISO date string and parsed during load.
type Row struct {
	Code                string `parquet:"code"`
	CodeType            string `parquet:"code_type"`
	OfficialDescription string `parquet:"official_description"`
	PlainEnglish        string `parquet:"plain_english"`
	Status              string `parquet:"status"`
	EffectiveDate       string `parquet:"effective_date"`
}

// LoadParquet reads a code definition pack from a Parquet file, applying the
// same column and date validation as the CSV loader.
func LoadParquet(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open code pack: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat code pack: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	if err := validateSchema(pf.Schema()); err != nil {
		return nil, err
	}

	r := parquet.NewGenericReader[Row](pf)
	defer r.Close()

	defs := make(map[string]Definition)
	buf := make([]Row, readBatchSize)
	rowNum := int64(1)
	for {
		n, readErr := r.Read(buf)
		for i := 0; i < n; i++ {
			rowNum++
			row := buf[i]
			def, err := buildDefinition(
				strings.TrimSpace(row.CodeType),
				strings.TrimSpace(row.OfficialDescription),
				strings.TrimSpace(row.PlainEnglish),
				strings.TrimSpace(row.Status),
				row.EffectiveDate,
			)
			if err != nil {
				return nil, fmt.Errorf("code pack row %d: %w", rowNum, err)
			}
			defs[strings.TrimSpace(row.Code)] = def
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet at row %d: %w", rowNum, readErr)
		}
	}

	return &Pack{defs: defs}, nil
}

// validateSchema checks that the Parquet schema contains all required columns.
func validateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}
	return checkColumns(func(col string) bool { return columns[col] })
}
