package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/quicky-ai/quicky-core/internal/models"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create registers a new account. Emails are compared case-insensitively.
func (s *Service) Create(ctx context.Context, email string) (*models.UserModel, error) {
	email = normalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, errEmailTaken
	}

	u := models.UserModel{Email: email}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		// lost a race against a concurrent signup with the same email
		if existing, lookupErr := s.findByEmail(ctx, email); lookupErr == nil && existing != nil {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Delete removes the user together with every summary linked to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.SummaryModel{}).Error; err != nil {
			return fmt.Errorf("delete summaries: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.UserModel{})
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errUserNotFound
		}
		return nil
	})
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toResponse(u *models.UserModel) *userResponse {
	return &userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
