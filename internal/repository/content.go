// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"ripple/internal/cache"
	"ripple/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult reports the outcome of one interaction set toggle.
type ToggleResult struct {
	// Added is true when the toggle inserted a membership, false when it
	// removed one.
	Added bool
	// Cardinality is the size of the set after the toggle; it is the derived
	// count exposed to clients.
	Cardinality int64
}

// ContentRepository defines the interface for content data operations
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Content, error)
	SetArchived(ctx context.Context, id uint, archived bool) error
	Delete(ctx context.Context, id uint) error
	Toggle(ctx context.Context, contentID uint, kind models.InteractionKind, userID uint, now time.Time) (*ToggleResult, error)
	IsMember(ctx context.Context, contentID uint, kind models.InteractionKind, userID uint) (bool, error)
	Cardinality(ctx context.Context, contentID uint, kind models.InteractionKind) (int64, error)
	ListInteracted(ctx context.Context, userID uint, kind models.InteractionKind, limit, offset int) ([]*models.Content, error)
	CountInteracted(ctx context.Context, userID uint, kind models.InteractionKind) (int64, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyContentDetails adds subqueries to fetch every derived count in a
// single query. Counts are never stored on the row; the sets are the only
// source of truth.
func (r *contentRepository) applyContentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "contents.*, " +
		"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'like') as likes_count, " +
		"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'save') as saves_count, " +
		"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'share') as shares_count, " +
		"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'view') as views_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.content_id = contents.id AND comments.deleted_at IS NULL) as comments_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'like' AND interactions.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'save' AND interactions.user_id = ?) as saved",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as saved")
}

func (r *contentRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Content, error) {
	var content models.Content
	err := r.applyContentDetails(r.db.WithContext(ctx).Model(&models.Content{}), currentUserID).
		First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", id)
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.attachAuthors(ctx, []*models.Content{&content}); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) SetArchived(ctx context.Context, id uint, archived bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("id = ?", id).
		Update("archived", archived)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Content", id)
	}
	cache.InvalidateContent(ctx, id)
	return nil
}

func (r *contentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Content{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateContent(ctx, id)
	return nil
}

// Toggle flips the (content, kind, user) membership atomically. The insert
// half is INSERT ... ON CONFLICT DO NOTHING against the set's unique index,
// so two concurrent toggles can never produce a duplicate record; if the
// insert hit the conflict, the existing record is removed instead. The
// returned cardinality is counted inside the same transaction.
func (r *contentRepository) Toggle(ctx context.Context, contentID uint, kind models.InteractionKind, userID uint, now time.Time) (*ToggleResult, error) {
	result := &ToggleResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := models.Interaction{
			ContentID: contentID,
			Kind:      kind,
			UserID:    userID,
			CreatedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if insert.Error != nil {
			return insert.Error
		}

		if insert.RowsAffected == 1 {
			result.Added = true
		} else {
			if err := tx.
				Where("content_id = ? AND kind = ? AND user_id = ?", contentID, kind, userID).
				Delete(&models.Interaction{}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Interaction{}).
			Where("content_id = ? AND kind = ?", contentID, kind).
			Count(&result.Cardinality).Error
	})
	if err != nil {
		return nil, models.NewUnavailableError(err)
	}

	return result, nil
}

func (r *contentRepository) IsMember(ctx context.Context, contentID uint, kind models.InteractionKind, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("content_id = ? AND kind = ? AND user_id = ?", contentID, kind, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *contentRepository) Cardinality(ctx context.Context, contentID uint, kind models.InteractionKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("content_id = ? AND kind = ?", contentID, kind).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListInteracted selects content whose kind-set contains the user, ordered by
// that user's own membership timestamp (not the set's newest or oldest),
// newest first, ties broken by content id descending. Soft-deleted, archived
// and media-less items never appear.
func (r *contentRepository) ListInteracted(ctx context.Context, userID uint, kind models.InteractionKind, limit, offset int) ([]*models.Content, error) {
	var contents []*models.Content
	err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Select(interactedSelect).
		Joins("JOIN interactions mine ON mine.content_id = contents.id AND mine.kind = ? AND mine.user_id = ?", kind, userID).
		Where("contents.archived = ? AND contents.media_url <> ''", false).
		Order("mine.created_at DESC, contents.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&contents).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachAuthors(ctx, contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// interactedSelect is applyContentDetails' select list plus the requesting
// user's own membership timestamp, exposed as the ranked view's sort key.
const interactedSelect = "contents.*, " +
	"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'like') as likes_count, " +
	"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'save') as saves_count, " +
	"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'share') as shares_count, " +
	"(SELECT COUNT(*) FROM interactions WHERE interactions.content_id = contents.id AND interactions.kind = 'view') as views_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.content_id = contents.id AND comments.deleted_at IS NULL) as comments_count, " +
	"mine.created_at as interacted_at"

func (r *contentRepository) CountInteracted(ctx context.Context, userID uint, kind models.InteractionKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Joins("JOIN interactions mine ON mine.content_id = contents.id AND mine.kind = ? AND mine.user_id = ?", kind, userID).
		Where("contents.archived = ? AND contents.media_url <> ''", false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// attachAuthors joins each content item to its author's public projection.
// Done as a second query with the safe column list rather than a SQL join so
// the sensitive user columns never enter the result set.
func (r *contentRepository) attachAuthors(ctx context.Context, contents []*models.Content) error {
	if len(contents) == 0 {
		return nil
	}

	ids := lo.Uniq(lo.Map(contents, func(c *models.Content, _ int) uint {
		return c.UserID
	}))

	var profiles []models.AuthorProfile
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(models.AuthorColumns).
		Where("id IN ?", ids).
		Find(&profiles).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	byID := lo.KeyBy(profiles, func(p models.AuthorProfile) uint { return p.ID })
	for _, c := range contents {
		if p, ok := byID[c.UserID]; ok {
			c.Author = p
		}
	}
	return nil
}
