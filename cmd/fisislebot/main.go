package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/rgnlkopya-maker/fisislebot/internal/extraction"
	"github.com/rgnlkopya-maker/fisislebot/internal/receipt"
	"github.com/rgnlkopya-maker/fisislebot/internal/scanning"
	"github.com/rgnlkopya-maker/fisislebot/internal/worker"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	defaults := extraction.DefaultScoring()

	fs := ff.NewFlagSet("fisislebot")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dataDir        = fs.StringLong("data-dir", "./data", "Directory holding one <chat_id>/{inbox,processed,failed,output} tree per chat")
		dbPath         = fs.StringLong("db", "fisislebot.db", "Database file path")
		interval       = fs.DurationLong("interval", worker.DefaultInterval, "Inbox poll interval")
		concurrency    = fs.IntLong("concurrency", worker.DefaultConcurrency, "Chats processed at the same time")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		totalWeight    = fs.Float64Long("total-weight", defaults.TotalWeight, "Overall confidence weight of the total")
		dateWeight     = fs.Float64Long("date-weight", defaults.DateWeight, "Overall confidence weight of the date")
		identityWeight = fs.Float64Long("identity-weight", defaults.IdentityWeight, "Overall confidence weight of the VKN or TCKN")
		highPenalty    = fs.Float64Long("high-penalty", defaults.HighPenalty, "Penalty per high severity warning")
		mediumPenalty  = fs.Float64Long("medium-penalty", defaults.MediumPenalty, "Penalty per medium severity warning")
		lowPenalty     = fs.Float64Long("low-penalty", defaults.LowPenalty, "Penalty per low severity warning")
		lowThreshold   = fs.Float64Long("low-threshold", defaults.LowThreshold, "Overall confidence below which a warning is raised")
		parseFile      = fs.StringLong("parse", "", "Extract a single file, print the result JSON and exit")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("FISISLEBOT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	extractor := extraction.NewExtractorWithScoring(extraction.Scoring{
		TotalWeight:    *totalWeight,
		DateWeight:     *dateWeight,
		IdentityWeight: *identityWeight,
		HighPenalty:    *highPenalty,
		MediumPenalty:  *mediumPenalty,
		LowPenalty:     *lowPenalty,
		LowThreshold:   *lowThreshold,
	})

	scanner := scanning.NewRouter()
	defer scanner.Close()

	if *parseFile != "" {
		if err := parseOne(*parseFile, scanner, extractor); err != nil {
			slog.Error("Failed to parse file", "file", *parseFile, "error", err)
			os.Exit(1)
		}
		return
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize storage
	slog.Info("Initializing storage...", "data_dir", *dataDir)
	store, err := receipt.NewLocalStorage(*dataDir)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize service
	receiptService := receipt.NewService(db, scanner, store, extractor)

	// Initialize server
	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Poll the chat inboxes until interrupted
	inboxWorker := worker.New(worker.Config{
		Root:        *dataDir,
		Interval:    *interval,
		Concurrency: *concurrency,
	}, receiptService)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := inboxWorker.Run(ctx); err != nil {
			slog.Error("Worker error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	<-workerDone
}

// parseOne runs the extraction pipeline on a single file and prints the result
func parseOne(path string, scanner scanning.Scanner, extractor *extraction.Extractor) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	contentType := scanning.ContentTypeForFile(path)
	if contentType == "" {
		contentType = scanning.ContentTypeText
	}
	doc, err := scanner.ScanDocument(data, contentType)
	if err != nil {
		return fmt.Errorf("scanning document: %w", err)
	}

	result := extractor.Extract(doc.Text, filepath.Base(path))
	if err := extraction.Validate(result); err != nil {
		return fmt.Errorf("validating result: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
