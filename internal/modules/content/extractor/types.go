package extractor

import "context"

// Kind is the source category a reference is extracted as.
type Kind string

const (
	KindVideo    Kind = "video"
	KindWeb      Kind = "web-article"
	KindDocument Kind = "document"
	KindText     Kind = "raw-text"
)

// Source fetches text for a URL-like reference.
type Source interface {
	Extract(ctx context.Context, reference string) (string, error)
}

// TranscriptSource fetches the caption segments of a video in order.
type TranscriptSource interface {
	Transcript(ctx context.Context, videoID string, languages []string) ([]string, error)
}

// Options configures the extractors.
type Options struct {
	MaxChars         int
	UserAgent        string
	CaptionLanguages []string
}
