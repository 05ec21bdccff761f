// Package pipeline runs the full translation sequence over one bill:
// parse → evaluate → detect duplicates → aggregate.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/billtranslate/internal/bill"
	"github.com/gyeh/billtranslate/internal/codepack"
	"github.com/gyeh/billtranslate/internal/model"
	"github.com/gyeh/billtranslate/internal/rules"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// ParseError is the structural-failure error: no line item survived
// parsing. It carries the row errors so callers can render them.
type ParseError struct {
	RowErrors []model.RowError
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.RowErrors))
	for i, re := range e.RowErrors {
		msgs[i] = re.String()
	}
	return "no line items parsed: " + strings.Join(msgs, "; ")
}

// Run executes the pipeline over the pasted line-item text. Per-row errors
// never abort the run; they travel in Result.RowErrors. When parsing yields
// zero items and at least one error, the whole input is unusable and Run
// fails with a PipelineError wrapping a ParseError.
func Run(log zerolog.Logger, lineItemText string, pack *codepack.Pack) (*model.Result, *model.RunSummary, error) {
	start := time.Now()

	items, rowErrors := bill.ParseLineItems(lineItemText)
	if len(items) == 0 && len(rowErrors) > 0 {
		return nil, nil, &PipelineError{Phase: "parse", Err: &ParseError{RowErrors: rowErrors}}
	}
	log.Info().
		Int("items", len(items)).
		Int("rows_rejected", len(rowErrors)).
		Msg("line items parsed")

	entries, clarifications := rules.Evaluate(items, pack)
	log.Info().
		Int("entries", len(entries)).
		Int("clarifications", len(clarifications)).
		Msg("rules evaluated")

	groups := rules.DetectDuplicates(items)
	rules.ApplyDuplicateNotes(entries, groups)
	log.Info().Int("duplicate_groups", len(groups)).Msg("duplicate detection complete")

	var totalCents int64
	for _, e := range entries {
		totalCents += e.ChargeCents
	}

	result := &model.Result{
		RunID:          uuid.New(),
		Entries:        entries,
		Duplicates:     groups,
		Clarifications: clarifications,
		RowErrors:      rowErrors,
		TotalCents:     totalCents,
	}
	summary := &model.RunSummary{
		RowsParsed:      int64(len(items)),
		RowsRejected:    int64(len(rowErrors)),
		Entries:         int64(len(entries)),
		DuplicateGroups: int64(len(groups)),
		Clarifications:  int64(len(clarifications)),
		TotalCents:      totalCents,
		Duration:        time.Since(start),
	}

	log.Info().
		Str("run_id", result.RunID.String()).
		Int64("total_cents", totalCents).
		Str("duration", summary.Duration.String()).
		Msg("translation pipeline complete")

	return result, summary, nil
}
