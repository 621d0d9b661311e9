package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quicky-ai/quicky-core/internal/config"
	"github.com/quicky-ai/quicky-core/internal/models"
	"github.com/quicky-ai/quicky-core/internal/modules/content/extractor"
	"github.com/quicky-ai/quicky-core/internal/modules/processing/summarizer"
	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
	"github.com/quicky-ai/quicky-core/internal/pkg/pagination"
	"github.com/quicky-ai/quicky-core/internal/pkg/textutil"
)

// Extractor resolves a reference of a given kind into plain text.
type Extractor interface {
	Extract(ctx context.Context, kind extractor.Kind, reference string) (string, error)
}

// Generator produces the summary text. It never fails.
type Generator interface {
	Generate(ctx context.Context, text string, format summarizer.Format) string
}

// Service runs the summarize pipeline and serves stored summaries.
type Service struct {
	db        *gorm.DB
	extractor Extractor
	generator Generator
	limits    config.ContentConfig
	logger    *zap.Logger
}

func NewService(db *gorm.DB, ext Extractor, gen Generator, limits config.ContentConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, extractor: ext, generator: gen, limits: limits, logger: logger}
}

// Fingerprint is the hex SHA-256 of text followed by format.
func Fingerprint(text string, format summarizer.Format) string {
	sum := sha256.Sum256([]byte(text + string(format)))
	return hex.EncodeToString(sum[:])
}

// Summarize validates, extracts, truncates, fingerprints, checks for a stored
// summary and otherwise generates and persists a new one.
func (s *Service) Summarize(ctx context.Context, req Request) (*Result, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if contentType == "" || strings.TrimSpace(req.ContentSource) == "" {
		return nil, apperr.Validation(apperr.CodeMissingFields, apperr.MsgMissingFields)
	}
	kind, err := extractor.ParseKind(contentType)
	if err != nil {
		return nil, apperr.Validation(apperr.CodeUnsupportedType, apperr.MsgUnsupportedType)
	}
	if contentType == models.ContentTypeParagraph && textutil.Len(strings.TrimSpace(req.ContentSource)) < s.limits.MinTextChars {
		return nil, apperr.Validation(apperr.CodeTextTooShort,
			fmt.Sprintf("Text is too short. Please provide at least %d characters.", s.limits.MinTextChars))
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if textutil.Len(sessionID) > maxSessionIDLen {
		return nil, apperr.Validation(apperr.CodeInvalidField, fmt.Sprintf("session_id must be at most %d characters", maxSessionIDLen))
	}
	requested := strings.ToLower(strings.TrimSpace(req.Format))
	if requested == "" {
		requested = string(summarizer.DefaultFormat)
	}
	if len(requested) > maxFormatLen {
		return nil, apperr.Validation(apperr.CodeInvalidField, fmt.Sprintf("format must be at most %d characters", maxFormatLen))
	}
	// The requested format keys the cache; unknown names only fall back
	// to the default when generating.
	format := summarizer.Format(requested)

	text, err := s.extractor.Extract(ctx, kind, req.ContentSource)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Internal(fmt.Errorf("extract %s: %w", kind, err))
	}
	if textutil.Len(strings.TrimSpace(text)) < s.limits.MinExtractedChars {
		return nil, apperr.Extraction(apperr.CodeInsufficientContent, apperr.MsgInsufficientContent, nil)
	}

	if textutil.Len(text) > s.limits.MaxChars {
		text = textutil.Truncate(text, s.limits.MaxChars)
		s.logger.Info("content truncated", zap.Int("max_chars", s.limits.MaxChars), zap.String("kind", kind.String()))
	}

	hash := Fingerprint(text, format)
	existing, err := s.findByFingerprint(ctx, hash, format)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return &Result{Summary: existing.SummaryText, SessionID: sessionID, SummaryID: existing.ID, Format: format, Cached: true}, nil
	}

	summaryText := s.generator.Generate(ctx, text, summarizer.ParseFormat(requested))

	row := &models.SummaryModel{
		SessionID:        sessionID,
		UserID:           s.resolveUser(ctx, req.UserID),
		ContentType:      contentType,
		ContentSource:    req.ContentSource,
		ExtractedContent: textutil.Truncate(text, s.limits.SnapshotChars),
		SummaryFormat:    string(format),
		SummaryText:      summaryText,
		ContentHash:      hash,
	}
	stored, inserted, err := s.insert(ctx, row)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Result{Summary: stored.SummaryText, SessionID: sessionID, SummaryID: stored.ID, Format: format, Cached: !inserted}, nil
}

func (s *Service) findByFingerprint(ctx context.Context, hash string, format summarizer.Format) (*models.SummaryModel, error) {
	var row models.SummaryModel
	err := s.db.WithContext(ctx).
		Where("content_hash = ? AND summary_format = ?", hash, string(format)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup summary by fingerprint: %w", err)
	}
	return &row, nil
}

// insert stores row unless a concurrent request already stored the same
// fingerprint and format, in which case that row is returned instead.
func (s *Service) insert(ctx context.Context, row *models.SummaryModel) (*models.SummaryModel, bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if result.Error != nil {
		return nil, false, fmt.Errorf("insert summary: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return row, true, nil
	}

	winner, err := s.findByFingerprint(ctx, row.ContentHash, summarizer.Format(row.SummaryFormat))
	if err != nil {
		return nil, false, err
	}
	if winner == nil {
		return nil, false, errors.New("insert summary: conflict without existing row")
	}
	s.logger.Debug("summary insert lost race", zap.Uint("summary_id", winner.ID))
	return winner, false, nil
}

// resolveUser drops user ids whose account no longer exists.
func (s *Service) resolveUser(ctx context.Context, userID string) *string {
	if userID == "" {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", userID).Count(&count).Error; err != nil || count == 0 {
		return nil
	}
	return &userID
}

// ToggleLike flips the liked flag and returns its new value.
func (s *Service) ToggleLike(ctx context.Context, id uint) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SummaryModel{}).Where("id = ?", id).Update("liked", gorm.Expr("NOT liked"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var row models.SummaryModel
		if err := tx.Select("liked").Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		liked = row.Liked
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperr.NotFound(apperr.MsgSummaryNotFound)
	}
	if err != nil {
		return false, apperr.InternalMsg(apperr.MsgLikeFailed, fmt.Errorf("toggle like %d: %w", id, err))
	}
	return liked, nil
}

// ListBySession returns the session's summaries, newest first. A nil page
// returns every row and a nil Meta.
func (s *Service) ListBySession(ctx context.Context, sessionID string, page *pagination.Query) ([]models.SummaryModel, *pagination.Meta, error) {
	rows := make([]models.SummaryModel, 0)
	query := s.db.WithContext(ctx).
		Model(&models.SummaryModel{}).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Order("id DESC")

	if page == nil {
		if err := query.Find(&rows).Error; err != nil {
			return nil, nil, apperr.InternalMsg(apperr.MsgListFailed, fmt.Errorf("list summaries: %w", err))
		}
		return rows, nil, nil
	}

	meta, err := pagination.Paginate(query, *page, &rows)
	if err != nil {
		return nil, nil, apperr.InternalMsg(apperr.MsgListFailed, fmt.Errorf("list summaries page %d: %w", page.Page, err))
	}
	return rows, &meta, nil
}
