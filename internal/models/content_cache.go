package models

import "time"

// ContentCacheModel holds text extracted from a URL so repeated requests
// for the same reference skip the network. Rows past ExpiresAt are ignored
// and removed by the prune job.
type ContentCacheModel struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	ContentHash      string    `gorm:"size:64;uniqueIndex;not null"`
	ContentType      string    `gorm:"size:20;not null"`
	ExtractedContent string    `gorm:"type:text;not null"`
	CreatedAt        time.Time
	ExpiresAt        time.Time `gorm:"index;not null"`
}

func (ContentCacheModel) TableName() string { return "content_caches" }
