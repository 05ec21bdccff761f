package codepack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goparquet "github.com/parquet-go/parquet-go"
)

const sampleCSV = `code,code_type,official_description,plain_english,status,effective_date
99213,CPT,Office visit established patient, A routine doctor visit. ,Active,2023-01-01
J1100,HCPCS,Dexamethasone injection,A steroid shot.,Inactive,2022-06-01
`

func writePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	pack, err := LoadCSV(writePack(t, sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if pack.Len() != 2 {
		t.Fatalf("expected 2 definitions, got %d", pack.Len())
	}

	def, ok := pack.Lookup("99213")
	if !ok {
		t.Fatal("99213 not found")
	}
	if def.CodeType != "CPT" {
		t.Errorf("code_type = %q, want CPT", def.CodeType)
	}
	if def.PlainEnglish != "A routine doctor visit." {
		t.Errorf("plain_english not trimmed: %q", def.PlainEnglish)
	}
	if !def.EffectiveDate.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected effective date %v", def.EffectiveDate)
	}
}

func TestLoadCSV_BOM(t *testing.T) {
	pack, err := LoadCSV(writePack(t, "\xEF\xBB\xBF"+sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV with BOM: %v", err)
	}
	if _, ok := pack.Lookup("99213"); !ok {
		t.Error("99213 not found in BOM-prefixed pack")
	}
}

func TestLoadCSV_MissingColumns(t *testing.T) {
	csv := "code,official_description,plain_english,status\nX,desc,plain,Active\n"
	_, err := LoadCSV(writePack(t, csv))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	for _, col := range []string{"code_type", "effective_date"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not name missing column %s", err, col)
		}
	}
}

func TestLoadCSV_BadEffectiveDate(t *testing.T) {
	csv := strings.Replace(sampleCSV, "2023-01-01", "01/01/2023", 1)
	if _, err := LoadCSV(writePack(t, csv)); err == nil {
		t.Fatal("expected error for malformed effective_date")
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	if _, err := LoadCSV("/nonexistent/pack.csv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// Duplicate codes resolve last-row-wins. This pins the load policy.
func TestLoadCSV_DuplicateCodeLastWins(t *testing.T) {
	csv := sampleCSV + "99213,CPT,Newer description,Newer plain.,Active,2024-01-01\n"
	pack, err := LoadCSV(writePack(t, csv))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	def, _ := pack.Lookup("99213")
	if def.OfficialDescription != "Newer description" {
		t.Errorf("expected last row to win, got %q", def.OfficialDescription)
	}
}

func TestActiveOn(t *testing.T) {
	eff := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	active := Definition{Status: StatusActive, EffectiveDate: eff}
	inactive := Definition{Status: "Inactive", EffectiveDate: eff}

	if !active.ActiveOn(eff) {
		t.Error("active definition should be effective on its effective date")
	}
	if !active.ActiveOn(eff.AddDate(1, 0, 0)) {
		t.Error("active definition should be effective after its effective date")
	}
	if active.ActiveOn(eff.AddDate(0, 0, -1)) {
		t.Error("definition should not be effective before its effective date")
	}
	if inactive.ActiveOn(eff.AddDate(1, 0, 0)) {
		t.Error("inactive definition should never be effective")
	}
}

func TestLoadParquet_RoundTrip(t *testing.T) {
	rows := []Row{
		{Code: "99213", CodeType: "CPT", OfficialDescription: "Office visit", PlainEnglish: "A doctor visit.", Status: "Active", EffectiveDate: "2023-01-01"},
		{Code: "J1100", CodeType: "HCPCS", OfficialDescription: "Dexamethasone", PlainEnglish: "A steroid shot.", Status: "Inactive", EffectiveDate: "2022-06-01"},
	}
	path := filepath.Join(t.TempDir(), "pack.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create parquet: %v", err)
	}
	w := goparquet.NewGenericWriter[Row](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	pack, err := LoadParquet(path)
	if err != nil {
		t.Fatalf("LoadParquet: %v", err)
	}
	if pack.Len() != 2 {
		t.Fatalf("expected 2 definitions, got %d", pack.Len())
	}
	def, ok := pack.Lookup("99213")
	if !ok {
		t.Fatal("99213 not found")
	}
	if def.Status != "Active" || def.CodeType != "CPT" {
		t.Errorf("unexpected definition: %+v", def)
	}
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	pack, err := Load(writePack(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load csv: %v", err)
	}
	if pack.Len() != 2 {
		t.Errorf("expected 2 definitions, got %d", pack.Len())
	}
}
