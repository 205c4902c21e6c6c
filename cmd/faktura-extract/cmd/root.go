package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "faktura-extract",
	Short: "Extract structured data from Swedish invoice PDFs",
	Long: `faktura-extract is a CLI tool that turns a batch of Swedish invoice PDFs
into a consolidated spreadsheet, plus a self-contained review package for
every invoice whose extraction is uncertain.

Examples:
  # Process a directory of invoices
  faktura-extract process --input invoices/ --output out/

  # Process a single file, verbose
  faktura-extract process --input invoice.pdf --output out/ --verbose

  # Check run-level status without writing artefacts
  faktura-extract validate --input invoices/

  # Start the HTTP API
  faktura-extract serve`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (defaults and env vars apply otherwise)")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
