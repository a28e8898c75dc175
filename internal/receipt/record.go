package receipt

import (
	"time"

	"github.com/rgnlkopya-maker/fisislebot/internal/extraction"
)

// Record is one processed document with its extraction result
type Record struct {
	ID          string             `json:"id"`
	ChatID      string             `json:"chat_id"`
	SourceFile  string             `json:"source_file"`
	ContentType string             `json:"content_type"`
	Engine      string             `json:"engine"`
	Text        string             `json:"text"`
	Result      *extraction.Result `json:"result"`
	OutputFile  string             `json:"output_file,omitempty"` // Path of the JSON output, relative to storage
	ProcessedAt time.Time          `json:"processed_at"`
}
