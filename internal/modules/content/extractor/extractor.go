// Package extractor turns a content reference (video URL, article URL,
// document path or raw text) into plain text.
package extractor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
)

// Service dispatches a reference to the extractor for its kind.
type Service struct {
	video     Source
	web       Source
	documents *DocumentExtractor
}

// NewService wires explicit extractors. Use Default for the network-backed set.
func NewService(video, web Source, documents *DocumentExtractor) *Service {
	return &Service{video: video, web: web, documents: documents}
}

// Default builds the production extractors. When cache is non-nil, video
// and article extractions are read through it.
func Default(opts Options, client *http.Client, cache CacheStore, logger *zap.Logger) *Service {
	var video Source = NewVideoExtractor(NewYouTubeTranscripts(&youtube.Client{HTTPClient: client}), opts.CaptionLanguages)
	var web Source = NewWebExtractor(client, opts.UserAgent, opts.MaxChars)
	if cache != nil {
		video = NewCached(video, KindVideo, cache, logger)
		web = NewCached(web, KindWeb, cache, logger)
	}
	return NewService(video, web, NewDocumentExtractor(opts.MaxChars))
}

// Extract returns the text behind reference. Errors are *apperr.Error.
func (s *Service) Extract(ctx context.Context, kind Kind, reference string) (string, error) {
	switch kind {
	case KindVideo:
		return s.video.Extract(ctx, reference)
	case KindWeb:
		return s.web.Extract(ctx, reference)
	case KindDocument:
		return s.documents.ExtractFile(reference)
	case KindText:
		return reference, nil
	default:
		return "", apperr.Validation(apperr.CodeUnsupportedType, apperr.MsgUnsupportedType)
	}
}

// ExtractFile reads an uploaded document.
func (s *Service) ExtractFile(path string) (string, error) {
	return s.documents.ExtractFile(path)
}

func (k Kind) String() string { return string(k) }

// ParseKind maps a wire content type to a Kind. ebook requests carry text
// already extracted from an upload and are treated as raw text.
func ParseKind(contentType string) (Kind, error) {
	switch contentType {
	case "video":
		return KindVideo, nil
	case "blog":
		return KindWeb, nil
	case "ebook", "paragraph":
		return KindText, nil
	}
	return "", fmt.Errorf("unsupported content type %q", contentType)
}
