// packconv converts a CSV code definition pack into its Parquet form.
// The CSV is validated through the normal loader first, so a pack that
// would be rejected at translate time fails here too.
// Usage: go run ./cmd/packconv --in code_definitions.csv --out code_definitions.parquet
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/billtranslate/internal/codepack"
)

func main() {
	in := flag.String("in", "code_definitions.csv", "input CSV code pack")
	out := flag.String("out", "code_definitions.parquet", "output Parquet code pack")
	flag.Parse()

	if _, err := codepack.LoadCSV(*in); err != nil {
		fmt.Fprintf(os.Stderr, "invalid code pack: %v\n", err)
		os.Exit(1)
	}

	rows, err := readRows(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read csv: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	w := goparquet.NewGenericWriter[codepack.Row](f)
	if _, err := w.Write(rows); err != nil {
		fmt.Fprintf(os.Stderr, "write parquet: %v\n", err)
		os.Exit(1)
	}
	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close parquet: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d definitions to %s\n", len(rows), *out)
}

// readRows re-reads the CSV preserving row order and raw field text.
func readRows(path string) ([]codepack.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []codepack.Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, codepack.Row{
			Code:                field("code"),
			CodeType:            field("code_type"),
			OfficialDescription: field("official_description"),
			PlainEnglish:        field("plain_english"),
			Status:              field("status"),
			EffectiveDate:       field("effective_date"),
		})
	}
	return rows, nil
}
