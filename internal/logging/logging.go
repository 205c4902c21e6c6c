// Package logging configures the process-wide structured logger
// (zerolog) and provides helpers for the per-invoice fields the
// pipeline attaches to every log line.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the global logger's level, format, and destination.
type Config struct {
	Level  string // trace, debug, info, warn, error, fatal, panic
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

// DefaultConfig returns the logger's built-in defaults.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stdout"}
}

// Setup initializes the global zerolog logger.
func Setup(cfg Config) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	switch cfg.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		output = file
	}

	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return log.Logger
}

// ForInvoice returns a logger carrying the invoice id and source file,
// the fields attached to every per-invoice log line in the pipeline.
func ForInvoice(invoiceID, sourceFile string) zerolog.Logger {
	return log.Logger.With().Str("invoice_id", invoiceID).Str("file", sourceFile).Logger()
}

// ForPage returns a logger carrying an invoice id and page number.
func ForPage(invoiceID string, page int) zerolog.Logger {
	return log.Logger.With().Str("invoice_id", invoiceID).Int("page", page).Logger()
}
