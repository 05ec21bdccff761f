package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billtranslate/internal/config"
	"github.com/gyeh/billtranslate/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "billtranslate",
	Short: "Medical bill → plain-English report translator",
	Long:  "Parses a submitted medical bill, checks each line item against the code definition pack, flags duplicates and items needing clarification, and writes a Markdown report.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("BILLTRANSLATE_DB_URL"), "Postgres connection string for run persistence (or set BILLTRANSLATE_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
