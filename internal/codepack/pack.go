// Package codepack loads and serves the code definition pack: the read-only
// table mapping a billing code to its official and plain-English
// descriptions, status, and effective date.
package codepack

import (
	"path/filepath"
	"strings"
	"time"
)

// StatusActive is the status under which a definition may describe a line item.
const StatusActive = "Active"

// requiredColumns must all be present in a pack source header.
var requiredColumns = []string{
	"code",
	"code_type",
	"official_description",
	"plain_english",
	"status",
	"effective_date",
}

// Definition is one code pack entry.
type Definition struct {
	CodeType            string
	OfficialDescription string
	PlainEnglish        string
	Status              string
	EffectiveDate       time.Time
}

// ActiveOn reports whether the definition is Active and effective on or
// before the given date of service.
func (d Definition) ActiveOn(dateOfService time.Time) bool {
	return d.Status == StatusActive && !d.EffectiveDate.After(dateOfService)
}

// Pack is an immutable code → Definition lookup table, built once per run
// and shared read-only by all evaluations.
type Pack struct {
	defs map[string]Definition
}

// New builds a Pack from already-materialized definitions. Load is the
// normal entry point; New serves callers that assemble definitions in
// memory.
func New(defs map[string]Definition) *Pack {
	copied := make(map[string]Definition, len(defs))
	for code, def := range defs {
		copied[code] = def
	}
	return &Pack{defs: copied}
}

// Lookup returns the definition for code, if present.
func (p *Pack) Lookup(code string) (Definition, bool) {
	d, ok := p.defs[code]
	return d, ok
}

// Len returns the number of loaded definitions.
func (p *Pack) Len() int {
	return len(p.defs)
}

// Load reads a code definition pack from path, dispatching on extension:
// ".parquet" uses the Parquet reader, anything else is read as CSV.
func Load(path string) (*Pack, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return LoadParquet(path)
	}
	return LoadCSV(path)
}
