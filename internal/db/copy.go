package db

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/billtranslate/internal/model"
)

// RowErrorColumns is the COPY column order for bill_run_errors.
func RowErrorColumns() []string {
	return []string{"run_id", "row_index", "line_id_display", "message"}
}

// RowErrorSource implements pgx.CopyFromSource over a run's row errors.
type RowErrorSource struct {
	runID uuid.UUID
	rows  []model.RowError
	pos   int
}

// NewRowErrorSource creates a CopyFromSource yielding one COPY row per RowError.
func NewRowErrorSource(runID uuid.UUID, rows []model.RowError) *RowErrorSource {
	return &RowErrorSource{runID: runID, rows: rows, pos: -1}
}

// Next advances to the next row error.
func (s *RowErrorSource) Next() bool {
	s.pos++
	return s.pos < len(s.rows)
}

// Values returns the current row's values in COPY column order.
func (s *RowErrorSource) Values() ([]any, error) {
	e := s.rows[s.pos]
	return []any{s.runID, e.RowIndex, e.LineIDDisplay, strings.Join(e.Messages, "; ")}, nil
}

// Err returns any error encountered during iteration.
func (s *RowErrorSource) Err() error {
	return nil
}

var _ pgx.CopyFromSource = (*RowErrorSource)(nil)
