package worker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rgnlkopya-maker/fisislebot/internal/receipt"
	"github.com/rgnlkopya-maker/fisislebot/internal/scanning"
	"golang.org/x/sync/errgroup"
)

// Mailbox directories under <root>/<chat_id>/
const (
	InboxDir     = "inbox"
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultConcurrency = 4
)

// Processor handles one document taken from an inbox
type Processor interface {
	ProcessDocument(chatID, filename string, data []byte, contentType string) (*receipt.Record, error)
}

// Config configures a Worker
type Config struct {
	Root        string        // Directory holding one subdirectory per chat
	Interval    time.Duration // Pause between scans in Run
	Concurrency int           // Chats processed at the same time
}

// Stats summarizes one scan
type Stats struct {
	Chats     int `json:"chats"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Worker polls the chat inboxes and feeds new files to a Processor
type Worker struct {
	cfg  Config
	proc Processor
}

// New creates a Worker, filling in defaults for zero config values
func New(cfg Config, proc Processor) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Worker{cfg: cfg, proc: proc}
}

// counters are shared by the chat goroutines of one scan
type counters struct {
	chats, processed, failed, skipped atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{
		Chats:     int(c.chats.Load()),
		Processed: int(c.processed.Load()),
		Failed:    int(c.failed.Load()),
		Skipped:   int(c.skipped.Load()),
	}
}

// ScanOnce processes every file currently waiting in a chat inbox. Chats are
// scanned concurrently; the files of one chat are handled oldest first.
func (w *Worker) ScanOnce(ctx context.Context) (Stats, error) {
	entries, err := os.ReadDir(w.cfg.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("reading data directory: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)

	var c counters
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		chatID := e.Name()
		if _, err := os.Stat(filepath.Join(w.cfg.Root, chatID, InboxDir)); err != nil {
			continue
		}

		c.chats.Add(1)
		g.Go(func() error {
			return w.scanChat(gctx, chatID, &c)
		})
	}

	err = g.Wait()
	return c.stats(), err
}

func (w *Worker) scanChat(ctx context.Context, chatID string, c *counters) error {
	log := slog.With("chat_id", chatID)
	chatDir := filepath.Join(w.cfg.Root, chatID)

	if err := ensureSubdirs(chatDir); err != nil {
		log.Error("Failed to prepare chat directory", "error", err)
		return nil // don't abort the scan for one chat
	}

	files, err := inboxFiles(filepath.Join(chatDir, InboxDir))
	if err != nil {
		log.Error("Failed to read inbox", "error", err)
		return nil
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := filepath.Base(path)
		contentType := scanning.ContentTypeForFile(name)
		if contentType == "" || strings.HasPrefix(name, ".") {
			c.skipped.Add(1)
			continue
		}

		// Images need OCR, which this bot does not do
		if !scanning.Supported(contentType) {
			c.failed.Add(1)
			log.Warn("Cannot read document", "file", name, "content_type", contentType)
			if err := moveFile(path, filepath.Join(chatDir, FailedDir)); err != nil {
				log.Error("Failed to move document", "file", name, "error", err)
			}
			continue
		}

		if err := w.processFile(chatID, path, contentType); err != nil {
			c.failed.Add(1)
			log.Error("Failed to process document", "file", name, "error", err)
			if mvErr := moveFile(path, filepath.Join(chatDir, FailedDir)); mvErr != nil {
				log.Error("Failed to move document", "file", name, "error", mvErr)
			}
			continue
		}

		c.processed.Add(1)
		if err := moveFile(path, filepath.Join(chatDir, ProcessedDir)); err != nil {
			log.Error("Failed to move document", "file", name, "error", err)
		}
	}
	return nil
}

func (w *Worker) processFile(chatID, path, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	record, err := w.proc.ProcessDocument(chatID, filepath.Base(path), data, contentType)
	if err != nil {
		return err
	}
	slog.Info("Document processed", "chat_id", chatID, "file", filepath.Base(path), "output", record.OutputFile)
	return nil
}

// Run scans immediately and then every Interval until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("Worker started", "root", w.cfg.Root, "interval", w.cfg.Interval, "concurrency", w.cfg.Concurrency)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		stats, err := w.ScanOnce(ctx)
		switch {
		case ctx.Err() != nil:
			slog.Info("Worker stopped")
			return nil
		case err != nil:
			slog.Error("Inbox scan failed", "error", err)
		case stats.Processed+stats.Failed > 0:
			slog.Info("Inbox scan complete",
				"chats", stats.Chats,
				"processed", stats.Processed,
				"failed", stats.Failed,
				"skipped", stats.Skipped,
			)
		}

		select {
		case <-ctx.Done():
			slog.Info("Worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func ensureSubdirs(chatDir string) error {
	for _, dir := range []string{InboxDir, ProcessedDir, FailedDir, receipt.OutputDir} {
		if err := os.MkdirAll(filepath.Join(chatDir, dir), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// inboxFiles lists the regular files of dir, oldest modification time first
func inboxFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type file struct {
		path    string
		modTime time.Time
	}
	files := make([]file, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		files = append(files, file{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}

	slices.SortStableFunc(files, func(a, b file) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// moveFile moves src into destDir, replacing a file of the same name
func moveFile(src, destDir string) error {
	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("moving %s: %w", filepath.Base(src), err)
	}
	return nil
}
