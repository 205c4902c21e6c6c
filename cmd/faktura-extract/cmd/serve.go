package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/llm"
	"github.com/ramirent/faktura-extract/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for batch PDF extraction.

The API provides:
  - POST /api/v1/batch       - upload PDFs (multipart "files"), run extraction
  - GET  /api/v1/runs/:id    - fetch a previous run's run_summary.json
  - GET  /health             - health check

Examples:
  faktura-extract serve
  faktura-extract serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srvCfg := &server.Config{
		Address:      serverAddr,
		Config:       *cfg,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		srvCfg.AIClient = llm.NewClient(cfg.AI.APIKey)
	}
	if detector, err := buildOCRDetector(cmd.Context()); err == nil {
		srvCfg.OCRDetector = detector
	}

	srv := server.NewServer(srvCfg)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if srvCfg.AIClient != nil {
		fmt.Println("AI Fallback enabled")
	} else {
		fmt.Println("AI Fallback disabled (no API key)")
	}

	return srv.Run()
}
