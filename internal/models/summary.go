package models

import "time"

// Content types accepted on the wire.
const (
	ContentTypeVideo     = "video"
	ContentTypeBlog      = "blog"
	ContentTypeEbook     = "ebook"
	ContentTypeParagraph = "paragraph"
)

// SummaryModel is one generated summary. Only Liked changes after insert.
// (ContentHash, SummaryFormat) is unique so concurrent identical requests
// converge on a single row.
type SummaryModel struct {
	ID               uint      `json:"id"               gorm:"primaryKey;autoIncrement"`
	UserID           *string   `json:"user_id"          gorm:"type:char(36);index"`
	SessionID        string    `json:"session_id"       gorm:"size:100;not null;index"`
	ContentType      string    `json:"content_type"     gorm:"size:20;not null"`
	ContentSource    string    `json:"content_source"   gorm:"type:text;not null"`
	ExtractedContent string    `json:"-"                gorm:"column:original_content;type:text"`
	SummaryFormat    string    `json:"summary_format"   gorm:"size:20;not null;uniqueIndex:idx_summary_hash_format,priority:2"`
	SummaryText      string    `json:"summary_text"     gorm:"type:text;not null"`
	ContentHash      string    `json:"-"                gorm:"size:64;not null;uniqueIndex:idx_summary_hash_format,priority:1"`
	Liked            bool      `json:"liked"            gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"       gorm:"index"`
}

func (SummaryModel) TableName() string { return "summaries" }
