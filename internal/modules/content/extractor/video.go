package extractor

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ErrNoTranscript is returned by a TranscriptSource when no caption track
// in the requested languages exists.
var ErrNoTranscript = errors.New("no transcript available")

// ParseVideoID returns the YouTube video id embedded in rawURL. It accepts
// watch, short-link, shorts, embed and live URLs on youtube.com,
// m.youtube.com, music.youtube.com and youtu.be.
func ParseVideoID(rawURL string) (string, bool) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", false
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := neturl.Parse(trimmed)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	path := strings.Trim(u.Path, "/")
	var id string
	switch host {
	case "youtu.be":
		id, _, _ = strings.Cut(path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if path == "watch" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range []string{"shorts/", "embed/", "live/", "v/"} {
			if rest, ok := strings.CutPrefix(path, prefix); ok {
				id, _, _ = strings.Cut(rest, "/")
				break
			}
		}
	}
	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// VideoExtractor turns a YouTube URL into its caption text.
type VideoExtractor struct {
	transcripts TranscriptSource
	languages   []string
}

func NewVideoExtractor(transcripts TranscriptSource, languages []string) *VideoExtractor {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return &VideoExtractor{transcripts: transcripts, languages: languages}
}

// Extract joins caption segments with single spaces.
func (v *VideoExtractor) Extract(ctx context.Context, reference string) (string, error) {
	id, ok := ParseVideoID(reference)
	if !ok {
		return "", apperr.Extraction(apperr.CodeUnsupportedPlatform, apperr.MsgUnsupportedPlatform, nil)
	}

	segments, err := v.transcripts.Transcript(ctx, id, v.languages)
	if err != nil {
		return "", apperr.Extraction(apperr.CodeNoCaptions, apperr.MsgNoCaptions, fmt.Errorf("transcript for %s: %w", id, err))
	}

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if s := strings.TrimSpace(segment); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", apperr.Extraction(apperr.CodeNoCaptions, apperr.MsgNoCaptions, fmt.Errorf("transcript for %s: %w", id, ErrNoTranscript))
	}
	return strings.Join(parts, " "), nil
}

// YouTubeTranscripts reads caption tracks through github.com/kkdai/youtube.
type YouTubeTranscripts struct {
	client *youtube.Client
}

func NewYouTubeTranscripts(client *youtube.Client) *YouTubeTranscripts {
	if client == nil {
		client = &youtube.Client{}
	}
	return &YouTubeTranscripts{client: client}
}

// Transcript tries each language in order and returns the first track found.
func (y *YouTubeTranscripts) Transcript(ctx context.Context, videoID string, languages []string) ([]string, error) {
	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}

	var lastErr error = ErrNoTranscript
	for _, lang := range languages {
		transcript, err := y.client.GetTranscriptCtx(ctx, video, lang)
		if err != nil {
			lastErr = err
			if errors.Is(err, youtube.ErrTranscriptDisabled) {
				break
			}
			continue
		}
		segments := make([]string, 0, len(transcript))
		for _, segment := range transcript {
			segments = append(segments, segment.Text)
		}
		return segments, nil
	}
	return nil, lastErr
}
