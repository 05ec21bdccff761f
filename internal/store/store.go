// Package store persists completed translation runs for audit.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/billtranslate/internal/db"
	"github.com/gyeh/billtranslate/internal/model"
	embedsql "github.com/gyeh/billtranslate/internal/sql"
)

// SaveRun inserts one bill_runs row plus its row errors, clarifications,
// and duplicate groups, all inside a single transaction.
func SaveRun(ctx context.Context, pool *pgxpool.Pool, res *model.Result, sum *model.RunSummary) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, embedsql.InsertRun,
		res.RunID,
		sum.PackSHA256,
		sum.RowsParsed,
		sum.RowsRejected,
		sum.Entries,
		sum.DuplicateGroups,
		sum.Clarifications,
		sum.TotalCents,
		sum.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(res.RowErrors) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"bill_run_errors"},
			db.RowErrorColumns(),
			db.NewRowErrorSource(res.RunID, res.RowErrors),
		)
		if err != nil {
			return fmt.Errorf("copy row errors: %w", err)
		}
	}

	for _, c := range res.Clarifications {
		if _, err := tx.Exec(ctx, embedsql.InsertClarification,
			res.RunID, c.LineID, c.Code, c.Reasons); err != nil {
			return fmt.Errorf("insert clarification line %d: %w", c.LineID, err)
		}
	}

	for _, g := range res.Duplicates {
		lineIDs := make([]int32, len(g.LineIDs))
		for i, id := range g.LineIDs {
			lineIDs[i] = int32(id)
		}
		if _, err := tx.Exec(ctx, embedsql.InsertDuplicateGroup,
			res.RunID, g.GroupNumber, lineIDs, g.DateOfService, g.Code, g.Units, g.ChargeCents); err != nil {
			return fmt.Errorf("insert duplicate group %d: %w", g.GroupNumber, err)
		}
	}

	return tx.Commit(ctx)
}
