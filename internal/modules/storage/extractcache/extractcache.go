// Package extractcache persists URL extractions in content_caches so a
// repeated reference skips the network until its entry expires.
package extractcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quicky-ai/quicky-core/internal/models"
)

// Store is a gorm-backed extraction cache with a fixed TTL.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func New(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// Key fingerprints a (kind, reference) pair.
func Key(kind, reference string) string {
	sum := sha256.Sum256([]byte(kind + ":" + reference))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached text unless the entry is missing or expired.
func (s *Store) Get(ctx context.Context, kind, reference string) (string, bool, error) {
	var row models.ContentCacheModel
	err := s.db.WithContext(ctx).
		Where("content_hash = ? AND expires_at > ?", Key(kind, reference), s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read extraction cache: %w", err)
	}
	return row.ExtractedContent, true, nil
}

// Put stores text, replacing any previous (possibly expired) entry.
func (s *Store) Put(ctx context.Context, kind, reference, text string) error {
	now := s.now()
	row := models.ContentCacheModel{
		ContentHash:      Key(kind, reference),
		ContentType:      kind,
		ExtractedContent: text,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.ttl),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "extracted_content", "created_at", "expires_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write extraction cache: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now()).
		Delete(&models.ContentCacheModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune extraction cache: %w", result.Error)
	}
	return result.RowsAffected, nil
}
