// Package server exposes the extraction pipeline over an HTTP API:
// batch PDF ingestion and run-summary retrieval, mirroring the gin-based
// server shape the CLI already ships.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ramirent/faktura-extract/internal/aifallback"
	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/pipeline"
	"github.com/ramirent/faktura-extract/internal/reviewfolder"
	"github.com/ramirent/faktura-extract/internal/runsummary"
	"github.com/ramirent/faktura-extract/internal/tabledebug"
	"github.com/ramirent/faktura-extract/internal/tokenize/ocr"
)

// Config holds server configuration.
type Config struct {
	Address      string
	Config       config.Config
	AIClient     aifallback.TextClient
	OCRDetector  ocr.Detector
	ScratchDir   string // where uploaded PDFs and run summaries are kept; defaults to os.TempDir()
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server is the HTTP API over the extraction pipeline.
type Server struct {
	config *Config
	router *gin.Engine

	mu   sync.RWMutex
	runs map[string]string // run id -> run_summary.json path
}

// NewServer creates a new API server.
func NewServer(cfg *Config) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{config: cfg, router: router, runs: map[string]string{}}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/batch", s.handleBatch)
		v1.GET("/runs/:id", s.handleGetRun)
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleBatch accepts a multipart form of one or more PDF files under
// the "files" field, runs the full extraction pipeline over them, and
// returns the RunSummary. Uploaded PDFs and the run summary are kept
// under config.ScratchDir/<run id> for later retrieval via
// GET /api/v1/runs/:id.
func (s *Server) handleBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expected multipart form with files field"})
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no files uploaded under 'files'"})
		return
	}

	runID := uuid.NewString()
	runDir := filepath.Join(s.config.ScratchDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("create run directory: %v", err)})
		return
	}

	var paths []string
	for _, fh := range uploads {
		dst := filepath.Join(runDir, filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("save upload %s: %v", fh.Filename, err)})
			return
		}
		paths = append(paths, dst)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pipeline.DefaultPerInvoiceTimeout*time.Duration(len(paths)+1))
	defer cancel()

	summary := pipeline.Run(ctx, paths, pipeline.Options{
		Config:      s.config.Config,
		AIClient:    s.config.AIClient,
		OCRDetector: s.config.OCRDetector,
	})

	reviewDir := filepath.Join(runDir, "review")
	artifactsDir := filepath.Join(runDir, "artifacts")
	timestamp := time.Now().UTC()
	for _, inv := range summary.FullInvoices {
		if inv.Extraction != nil && inv.Extraction.TableDebug != nil {
			if path, err := tabledebug.Write(artifactsDir, inv.ID, inv.Extraction.TableDebug); err == nil {
				summary.OutputPaths["table_debug/"+inv.ID] = path
			}
		}
		if inv.Validation == nil || inv.Validation.Status != model.StatusReview {
			continue
		}
		path, err := reviewfolder.Write(reviewDir, inv, sourcePDFFor(paths, inv), timestamp)
		if err != nil {
			continue
		}
		summary.OutputPaths["review/"+inv.ID] = path
	}

	if len(summary.FileFailures) > 0 {
		errorsDir := filepath.Join(runDir, "errors")
		if err := os.MkdirAll(errorsDir, 0o755); err == nil {
			for _, f := range summary.FileFailures {
				writeFileFailure(errorsDir, f)
			}
			summary.OutputPaths["errors"] = errorsDir
		}
	}

	summaryPath := filepath.Join(runDir, "run_summary.json")
	if err := runsummary.Write(summary, summaryPath); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("write run summary: %v", err)})
		return
	}

	s.mu.Lock()
	s.runs[runID] = summaryPath
	s.mu.Unlock()

	c.JSON(http.StatusOK, BatchResponse{RunID: runID, Summary: summary})
}

// sourcePDFFor finds the uploaded file an invoice's id was derived from
// (spec §6.1 id format "{filename}__{index}").
func sourcePDFFor(paths []string, inv model.VirtualInvoice) string {
	for _, p := range paths {
		if strings.HasPrefix(inv.ID, filepath.Base(p)) {
			return p
		}
	}
	return ""
}

// writeFileFailure writes one JSON file for a catastrophic per-file
// failure into dir (spec §6.6 "optional JSON of catastrophic per-file
// failures").
func writeFileFailure(dir string, f model.FileFailure) {
	name := strings.TrimSuffix(filepath.Base(f.File), filepath.Ext(f.File)) + ".json"
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

func (s *Server) handleGetRun(c *gin.Context) {
	id := c.Param("id")

	s.mu.RLock()
	path, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown run id"})
		return
	}

	c.File(path)
}
