package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgnlkopya-maker/fisislebot/internal/extraction"
	"github.com/rgnlkopya-maker/fisislebot/internal/scanning"
)

// DefaultChatID is used for documents uploaded without a chat
const DefaultChatID = "web"

// OutputDir is the per-chat directory holding the JSON outputs
const OutputDir = "output"

// ErrInvalidChatID is returned for chat IDs that are not safe as a directory name
var ErrInvalidChatID = errors.New("invalid chat id")

var (
	reChatID       = regexp.MustCompile(`^-?[A-Za-z0-9_]+$`)
	reFilenameJunk = regexp.MustCompile(`[^\p{L}\p{N}\s\-_]`)
	reSpaces       = regexp.MustCompile(`\s+`)
)

// IDGenerator generates unique IDs for records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Extractor turns raw document text into an extraction result
type Extractor interface {
	Extract(rawText, filename string) *extraction.Result
}

// uuidGenerator generates random UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Service handles document processing
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	extractor   Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID record IDs and the system clock
func NewService(db DB, scanner scanning.Scanner, storage Storage, extractor Extractor) *Service {
	return NewServiceWithDeps(db, scanner, storage, extractor, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, extractor Extractor, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		extractor:   extractor,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeStem cleans up the base name of a file so it can name the output
func sanitizeStem(filename string) string {
	base := filepath.Base(filepath.FromSlash(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	base = reFilenameJunk.ReplaceAllString(base, "")
	base = reSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	const maxLen = 50
	if r := []rune(base); len(r) > maxLen {
		base = strings.TrimSpace(string(r[:maxLen]))
	}

	if base == "" {
		base = "document"
	}
	return base
}

// OutputPath returns the storage path of the JSON output for a document
func OutputPath(chatID, filename string) string {
	return path.Join(chatID, OutputDir, sanitizeStem(filename)+".json")
}

func normalizeChatID(chatID string) (string, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return DefaultChatID, nil
	}
	if !reChatID.MatchString(chatID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidChatID, chatID)
	}
	return chatID, nil
}

// ProcessDocument scans a document, extracts its fields, writes the JSON
// output and saves the record
func (s *Service) ProcessDocument(chatID, filename string, data []byte, contentType string) (*Record, error) {
	chatID, err := normalizeChatID(chatID)
	if err != nil {
		return nil, err
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	doc, err := s.scanner.ScanDocument(data, contentType)
	if err != nil {
		slog.Error("Failed to scan document",
			"chat_id", chatID,
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	result, err := s.extract(doc.Text, filename)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:          id,
		ChatID:      chatID,
		SourceFile:  filename,
		ContentType: contentType,
		Engine:      doc.Engine,
		Text:        doc.Text,
		Result:      result,
		OutputFile:  OutputPath(chatID, filename),
		ProcessedAt: now,
	}

	output, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling output: %w", err)
	}

	// Re-processing a file replaces the record that owned its output
	replaced, err := s.db.SaveRecord(record)
	if err != nil {
		return nil, fmt.Errorf("saving record to database: %w", err)
	}

	if _, err := s.storage.Save(record.OutputFile, output); err != nil {
		s.rollback(record, replaced)
		return nil, fmt.Errorf("saving output: %w", err)
	}

	if replaced != nil {
		slog.Info("Replaced earlier record", "id", replaced.ID, "output", record.OutputFile)
	}
	docType, _ := result.Text(extraction.FieldDocType)
	slog.Info("Processed document",
		"id", id,
		"chat_id", chatID,
		"filename", filename,
		"engine", doc.Engine,
		"doc_type", docType,
		"overall_confidence", result.OverallConfidence,
		"warnings", len(result.Warnings),
	)
	return record, nil
}

// rollback undoes SaveRecord after the output could not be written
func (s *Service) rollback(record, replaced *Record) {
	if err := s.db.DeleteRecord(record.ID); err != nil {
		slog.Warn("Failed to delete record", "id", record.ID, "error", err)
	}
	if replaced == nil {
		return
	}
	if _, err := s.db.SaveRecord(replaced); err != nil {
		slog.Warn("Failed to restore replaced record", "id", replaced.ID, "error", err)
	}
}

// ExtractText runs extraction on text without storing anything
func (s *Service) ExtractText(text, filename string) (*extraction.Result, error) {
	return s.extract(text, filename)
}

func (s *Service) extract(text, filename string) (*extraction.Result, error) {
	result := s.extractor.Extract(text, filename)
	if err := extraction.Validate(result); err != nil {
		return nil, fmt.Errorf("validating result: %w", err)
	}
	return result, nil
}

// GetRecord retrieves a record by ID
func (s *Service) GetRecord(id string) (*Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// ListRecords returns the records of a chat, or all records when chatID is
// empty, newest first
func (s *Service) ListRecords(chatID string) ([]*Record, error) {
	records, err := s.db.ListRecords(chatID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	slices.SortStableFunc(records, func(a, b *Record) int {
		return b.ProcessedAt.Compare(a.ProcessedAt)
	})
	return records, nil
}

// DeleteRecord removes a record and its output
func (s *Service) DeleteRecord(id string) error {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("getting record for deletion: %w", err)
	}

	if record.OutputFile != "" {
		if err := s.storage.Delete(record.OutputFile); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete output", "path", record.OutputFile, "error", err)
		}
	}

	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting record from database: %w", err)
	}
	return nil
}

// GetRecordOutput retrieves the JSON output written for a record
func (s *Service) GetRecordOutput(id string) ([]byte, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	data, err := s.storage.Get(record.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("getting record output: %w", err)
	}
	return data, nil
}
