// Package summarizer turns extracted text into a summary in one of the
// supported formats.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Apology is returned when generation fails unexpectedly.
const Apology = "Sorry, there was an error generating the summary. Please try again."

// Completer sends a prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces summaries. Without a Completer it always returns the
// canned text for the format. With one, a failed or empty completion falls
// back to the canned text.
type Summarizer struct {
	completer Completer
	logger    *zap.Logger
}

// New returns a Summarizer. completer may be nil.
func New(completer Completer, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{completer: completer, logger: logger}
}

// Generate never fails: a panic anywhere in generation yields Apology.
func (s *Summarizer) Generate(ctx context.Context, text string, format Format) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("summary generation panicked", zap.Any("panic", r), zap.String("format", string(format)))
			summary = Apology
		}
	}()

	if !format.Valid() {
		format = DefaultFormat
	}
	if s.completer == nil {
		return Canned(format)
	}

	out, err := s.completer.Complete(ctx, BuildPrompt(text, format))
	if err != nil {
		s.logger.Warn("ai provider failed, using canned summary", zap.String("format", string(format)), zap.Error(err))
		return Canned(format)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		s.logger.Warn("ai provider returned empty summary, using canned summary", zap.String("format", string(format)))
		return Canned(format)
	}
	return out
}

// UsesProvider reports whether a language model is wired in.
func (s *Summarizer) UsesProvider() bool {
	return s.completer != nil
}

func (s *Summarizer) String() string {
	if s.completer == nil {
		return "static"
	}
	return fmt.Sprintf("provider(%T)", s.completer)
}
