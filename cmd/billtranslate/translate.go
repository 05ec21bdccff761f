package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/billtranslate/internal/bill"
	"github.com/gyeh/billtranslate/internal/codepack"
	"github.com/gyeh/billtranslate/internal/db"
	"github.com/gyeh/billtranslate/internal/exitcode"
	"github.com/gyeh/billtranslate/internal/logging"
	"github.com/gyeh/billtranslate/internal/normalize"
	"github.com/gyeh/billtranslate/internal/pipeline"
	"github.com/gyeh/billtranslate/internal/report"
	"github.com/gyeh/billtranslate/internal/store"
)

var configFile string

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate an issue-form bill into a Markdown report",
	RunE:  runTranslate,
}

func init() {
	f := translateCmd.Flags()
	f.StringVar(&cfg.IssueBodyFile, "issue-body-file", "", "Path to a file holding the issue body (default: ISSUE_BODY env var)")
	f.StringVar(&cfg.CodePackPath, "code-pack", os.Getenv("CODE_PACK_PATH"), "Path to the code definition pack (.csv or .parquet)")
	f.StringVar(&cfg.OutputFile, "out", os.Getenv("OUTPUT_FILE"), "Output file for the Markdown report (default comment.md)")
	f.StringVar(&configFile, "config", "", "Optional YAML config file")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "comment.md"
	}

	body, err := readIssueBody()
	if err != nil {
		log.Error().Err(err).Msg("reading issue body failed")
		os.Exit(exitcode.UsageError)
	}

	// Bodies without the line-items form heading are not bill submissions.
	if !bill.HasLineItems(body) {
		log.Info().Msg("issue body does not contain expected form headings, skipping")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pack, err := codepack.Load(cfg.CodePackPath)
	if err != nil {
		log.Error().Err(err).Msg("code pack load failed")
		writeOutput(log, report.RenderPackLoadFailure(err))
		os.Exit(exitcode.PackLoadError)
	}
	log.Info().Int("definitions", pack.Len()).Str("path", cfg.CodePackPath).Msg("code pack loaded")

	header := bill.ParseHeaderFields(body)
	lineItemText, _ := bill.ExtractSection(body, bill.LineItemsHeading)

	res, sum, err := pipeline.Run(log, lineItemText, pack)
	if err != nil {
		var pe *pipeline.ParseError
		if errors.As(err, &pe) {
			writeOutput(log, report.RenderParseFailure(pe.RowErrors))
			os.Exit(exitcode.ParseError)
		}
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(exitcode.ParseError)
	}

	if sha, err := normalize.FileHash(cfg.CodePackPath); err == nil {
		sum.PackSHA256 = sha
	} else {
		log.Warn().Err(err).Msg("code pack hash failed")
	}

	writeOutput(log, report.Render(header, res))

	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()

		if err := store.SaveRun(ctx, pool, res, sum); err != nil {
			log.Error().Err(err).Msg("run persistence failed")
			os.Exit(exitcode.StoreError)
		}
		log.Info().Str("run_id", res.RunID.String()).Msg("run persisted")
	}

	fmt.Printf("Report written to %s: %d entries, %d duplicate groups, %d clarifications\n",
		cfg.OutputFile, sum.Entries, sum.DuplicateGroups, sum.Clarifications)
	return nil
}

// readIssueBody resolves the issue body from --issue-body-file or, when the
// flag is absent, the ISSUE_BODY environment variable.
func readIssueBody() (string, error) {
	if cfg.IssueBodyFile != "" {
		data, err := os.ReadFile(cfg.IssueBodyFile)
		if err != nil {
			return "", fmt.Errorf("read issue body file: %w", err)
		}
		return string(data), nil
	}
	return os.Getenv("ISSUE_BODY"), nil
}

// writeOutput writes the rendered comment, treating failure as a usage
// error since nothing downstream can recover from a missing report.
func writeOutput(log zerolog.Logger, content string) {
	if err := os.WriteFile(cfg.OutputFile, []byte(content), 0644); err != nil {
		log.Error().Err(err).Str("path", cfg.OutputFile).Msg("write output failed")
		os.Exit(exitcode.UsageError)
	}
}
