package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billtranslate/internal/bill"
	"github.com/gyeh/billtranslate/internal/codepack"
	"github.com/gyeh/billtranslate/internal/exitcode"
	"github.com/gyeh/billtranslate/internal/logging"
	"github.com/gyeh/billtranslate/internal/normalize"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run validation of a code pack and bill body (no writes)",
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&cfg.CodePackPath, "code-pack", os.Getenv("CODE_PACK_PATH"), "Path to the code definition pack (.csv or .parquet)")
	f.StringVar(&cfg.IssueBodyFile, "issue-body-file", "", "Path to a file holding the issue body (default: ISSUE_BODY env var)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.CodePackPath)
	if err != nil {
		log.Error().Err(err).Msg("code pack hash failed")
		os.Exit(exitcode.PackLoadError)
	}

	pack, err := codepack.Load(cfg.CodePackPath)
	if err != nil {
		log.Error().Err(err).Msg("code pack load failed")
		os.Exit(exitcode.PackLoadError)
	}
	fmt.Printf("Code pack OK: %d definitions (sha256 %s)\n", pack.Len(), sha)

	body, err := readIssueBody()
	if err != nil {
		log.Error().Err(err).Msg("reading issue body failed")
		os.Exit(exitcode.UsageError)
	}
	if body == "" {
		return nil
	}
	if !bill.HasLineItems(body) {
		fmt.Println("Issue body does not contain the Line Items heading.")
		return nil
	}

	lineItemText, _ := bill.ExtractSection(body, bill.LineItemsHeading)
	items, rowErrors := bill.ParseLineItems(lineItemText)
	fmt.Printf("Bill OK: %d valid line items, %d rejected rows\n", len(items), len(rowErrors))
	for _, e := range rowErrors {
		fmt.Printf("  - %s\n", e)
	}
	return nil
}
