package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramirent/faktura-extract/internal/pdfreader"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about PDF files without running extraction",
	Long: `Display page count and file metadata for one or more PDFs, without
running the extraction pipeline.

Examples:
  faktura-extract info invoice.pdf
  faktura-extract info invoices/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		printFileInfo(path)
		fmt.Println()
	}
	return nil
}

func printFileInfo(path string) {
	fmt.Printf("File: %s\n", path)

	stat, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	fmt.Printf("  Size: %d bytes\n", stat.Size())
	fmt.Printf("  Modified: %s\n", stat.ModTime().Format("2006-01-02 15:04:05"))

	doc, err := pdfreader.Open(path)
	if err != nil {
		fmt.Printf("  Error opening PDF: %v\n", err)
		return
	}
	fmt.Printf("  Pages: %d\n", doc.PageCount())
}
