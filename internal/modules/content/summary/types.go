package summary

import (
	"time"

	"github.com/quicky-ai/quicky-core/internal/modules/processing/summarizer"
)

const (
	maxSessionIDLen = 100
	maxFormatLen    = 20
)

type summarizeDTO struct {
	ContentType   string `json:"content_type"`
	ContentSource string `json:"content_source"`
	Format        string `json:"format"`
	SessionID     string `json:"session_id"`
}

// Request is one run of the summarize pipeline.
type Request struct {
	ContentType   string
	ContentSource string
	Format        string
	SessionID     string
	UserID        string
}

// Result is what the pipeline returns on success.
type Result struct {
	Summary   string
	SessionID string
	SummaryID uint
	Format    summarizer.Format
	Cached    bool
}

type summarizeResponse struct {
	Success   bool   `json:"success"`
	Summary   string `json:"summary"`
	SessionID string `json:"session_id"`
	SummaryID uint   `json:"summary_id,omitempty"`
	Cached    bool   `json:"cached"`
}

type listItem struct {
	ID            uint      `json:"id"`
	ContentType   string    `json:"content_type"`
	ContentSource string    `json:"content_source"`
	SummaryFormat string    `json:"summary_format"`
	SummaryText   string    `json:"summary_text"`
	Liked         bool      `json:"liked"`
	CreatedAt     time.Time `json:"created_at"`
}
