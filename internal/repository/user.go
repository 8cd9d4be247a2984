// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetProfile(ctx context.Context, id uint) (*models.AuthorProfile, error)
	GetProfiles(ctx context.Context, ids []uint) (map[uint]models.AuthorProfile, error)
	GetSummary(ctx context.Context, id uint) (*models.UserSummary, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetProfile loads the public projection only. The explicit column list is
// the leak barrier: nothing outside models.AuthorColumns is ever selected.
func (r *userRepository) GetProfile(ctx context.Context, id uint) (*models.AuthorProfile, error) {
	var profile models.AuthorProfile
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(models.AuthorColumns).
		Where("id = ?", id).
		Take(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *userRepository) GetProfiles(ctx context.Context, ids []uint) (map[uint]models.AuthorProfile, error) {
	if len(ids) == 0 {
		return map[uint]models.AuthorProfile{}, nil
	}
	var profiles []models.AuthorProfile
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(models.AuthorColumns).
		Where("id IN ?", ids).
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[uint]models.AuthorProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *userRepository) GetSummary(ctx context.Context, id uint) (*models.UserSummary, error) {
	var summary models.UserSummary
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "username", "avatar").
		Where("id = ?", id).
		Take(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &summary, nil
}
