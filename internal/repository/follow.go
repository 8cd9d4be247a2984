// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for relationship edge operations
type FollowRepository interface {
	// Create inserts the edge and reports whether it was created; false
	// means the edge already existed (no second edge is ever created).
	Create(ctx context.Context, followerID, followeeID uint, now time.Time) (bool, error)
	// Delete hard-removes the edge and reports whether anything was removed.
	Delete(ctx context.Context, followerID, followeeID uint) (bool, error)
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	ListFollowers(ctx context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error)
	ListFollowing(ctx context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create relies on the unique (follower, followee) index plus ON CONFLICT DO
// NOTHING: under concurrent follows of the same pair exactly one insert wins
// and the rest observe RowsAffected == 0.
func (r *followRepository) Create(ctx context.Context, followerID, followeeID uint, now time.Time) (bool, error) {
	edge := models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  now,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
	if res.Error != nil {
		return false, models.NewUnavailableError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewUnavailableError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListFollowers returns the users following profileID, newest edge first,
// with each entry's is_following flag computed relative to the viewer.
func (r *followRepository) ListFollowers(ctx context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, users.avatar, "+
			"EXISTS(SELECT 1 FROM follows vf WHERE vf.follower_id = ? AND vf.followee_id = users.id) as is_following", viewerID).
		Joins("JOIN follows f ON f.follower_id = users.id").
		Where("f.followee_id = ? AND users.deleted_at IS NULL", profileID).
		Order("f.created_at DESC, users.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}

// ListFollowing returns the users profileID follows, newest edge first.
func (r *followRepository) ListFollowing(ctx context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, users.avatar, "+
			"EXISTS(SELECT 1 FROM follows vf WHERE vf.follower_id = ? AND vf.followee_id = users.id) as is_following", viewerID).
		Joins("JOIN follows f ON f.followee_id = users.id").
		Where("f.follower_id = ? AND users.deleted_at IS NULL", profileID).
		Order("f.created_at DESC, users.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}
