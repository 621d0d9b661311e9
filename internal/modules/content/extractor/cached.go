package extractor

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// CacheStore persists extracted text keyed by kind and reference.
type CacheStore interface {
	Get(ctx context.Context, kind, reference string) (string, bool, error)
	Put(ctx context.Context, kind, reference, text string) error
}

// Cached reads through a CacheStore before calling the wrapped Source.
// Cache failures are logged and never fail the extraction.
type Cached struct {
	next   Source
	kind   Kind
	store  CacheStore
	logger *zap.Logger
}

func NewCached(next Source, kind Kind, store CacheStore, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, kind: kind, store: store, logger: logger}
}

func (c *Cached) Extract(ctx context.Context, reference string) (string, error) {
	ref := strings.TrimSpace(reference)
	text, ok, err := c.store.Get(ctx, string(c.kind), ref)
	if err != nil {
		c.logger.Warn("extraction cache read failed", zap.String("kind", string(c.kind)), zap.Error(err))
	} else if ok {
		return text, nil
	}

	text, err = c.next.Extract(ctx, ref)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := c.store.Put(ctx, string(c.kind), ref, text); err != nil {
		c.logger.Warn("extraction cache write failed", zap.String("kind", string(c.kind)), zap.Error(err))
	}
	return text, nil
}
