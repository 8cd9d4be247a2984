package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

const maxCaptionLength = 2200

// ContentService manages the lifecycle of content items. Archiving and
// deletion only flip the item's state; the interaction sets underneath are
// untouched, so restoring an item restores its counts.
type ContentService struct {
	contentRepo repository.ContentRepository
}

// NewContentService returns a new ContentService.
func NewContentService(contentRepo repository.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// CreateContent validates and persists a new content item.
func (s *ContentService) CreateContent(ctx context.Context, userID uint, contentType, caption, mediaURL string) (*models.Content, error) {
	if !models.ValidContentType(contentType) {
		return nil, models.NewValidationError("Invalid content type")
	}
	caption = strings.TrimSpace(caption)
	if len(caption) > maxCaptionLength {
		return nil, models.NewValidationError("Caption too long")
	}
	if strings.TrimSpace(mediaURL) == "" {
		return nil, models.NewValidationError("Media URL is required")
	}

	content := &models.Content{
		ContentType: contentType,
		Caption:     caption,
		MediaURL:    mediaURL,
		UserID:      userID,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	observability.LogMutation(ctx, "content_created", "content_id", content.ID, "user_id", userID)
	return content, nil
}

// GetContent returns the content with derived counts, viewer flags and the
// author profile, all computed for viewerID by the repository query.
func (s *ContentService) GetContent(ctx context.Context, contentID, viewerID uint) (*models.Content, error) {
	return s.contentRepo.GetByID(ctx, contentID, viewerID)
}

// SetArchived flips the archived flag on content owned by userID. Archived
// content drops out of ranked views but keeps its interaction sets.
func (s *ContentService) SetArchived(ctx context.Context, userID, contentID uint, archived bool) error {
	content, err := s.contentRepo.GetByID(ctx, contentID, 0)
	if err != nil {
		return err
	}
	if content.UserID != userID {
		return models.NewUnauthorizedError("Cannot modify another user's content")
	}
	if err := s.contentRepo.SetArchived(ctx, contentID, archived); err != nil {
		return err
	}
	observability.LogMutation(ctx, "content_archived", "content_id", contentID, "archived", archived)
	return nil
}

// DeleteContent soft-deletes content owned by userID.
func (s *ContentService) DeleteContent(ctx context.Context, userID, contentID uint) error {
	content, err := s.contentRepo.GetByID(ctx, contentID, 0)
	if err != nil {
		return err
	}
	if content.UserID != userID {
		return models.NewUnauthorizedError("Cannot delete another user's content")
	}
	if err := s.contentRepo.Delete(ctx, contentID); err != nil {
		return err
	}
	observability.LogMutation(ctx, "content_deleted", "content_id", contentID)
	return nil
}
