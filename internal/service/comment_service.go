package service

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

const maxCommentLength = 2200

// CommentForest is a content's comment tree plus its total reply count.
type CommentForest struct {
	Comments []*models.Comment `json:"comments"`
	Total    int               `json:"total"`
}

// CommentService manages threaded comments on content.
type CommentService struct {
	commentRepo repository.CommentRepository
	contentRepo repository.ContentRepository
	userRepo    repository.UserRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, contentRepo repository.ContentRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		contentRepo: contentRepo,
		userRepo:    userRepo,
	}
}

// AddComment creates a comment, optionally as a reply. A reply's parent must
// exist and belong to the same content.
func (s *CommentService) AddComment(ctx context.Context, userID, contentID uint, parentID *uint, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len(body) > maxCommentLength {
		return nil, models.NewValidationError("Comment body too long")
	}

	if _, err := s.contentRepo.GetByID(ctx, contentID, 0); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ContentID != contentID {
			return nil, models.NewValidationError("Parent comment belongs to a different content")
		}
	}

	comment := &models.Comment{
		ContentID: contentID,
		UserID:    userID,
		ParentID:  parentID,
		Body:      body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.LogMutation(ctx, "comment_created", "comment_id", comment.ID, "content_id", contentID)
	return comment, nil
}

// DeleteComment soft-deletes a comment owned by userID.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewUnauthorizedError("Cannot delete another user's comment")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// GetForest returns the full comment tree for a content with author
// profiles attached. Results are served through the cache when available.
func (s *CommentService) GetForest(ctx context.Context, contentID uint) (*CommentForest, error) {
	if _, err := s.contentRepo.GetByID(ctx, contentID, 0); err != nil {
		return nil, err
	}

	var result CommentForest
	err := cache.Aside(ctx, cache.ForestKey(contentID), &result, cache.ForestTTL, func() error {
		rows, err := s.commentRepo.ListByContent(ctx, contentID)
		if err != nil {
			return err
		}
		redactTombstones(rows)
		if err := s.attachAuthors(ctx, rows); err != nil {
			return err
		}
		forest := models.BuildForest(rows)
		result = CommentForest{
			Comments: forest,
			Total:    models.CountComments(forest),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindComment locates a single comment inside a content's tree.
func (s *CommentService) FindComment(ctx context.Context, contentID, commentID uint) (*models.Comment, error) {
	forest, err := s.GetForest(ctx, contentID)
	if err != nil {
		return nil, err
	}
	found := models.FindComment(forest.Comments, commentID)
	if found == nil {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return found, nil
}

// redactTombstones blanks soft-deleted rows in place. A tombstone keeps its
// id and parent pointer so the forest keeps its shape, but body and author
// are withheld.
func redactTombstones(rows []*models.Comment) {
	for _, c := range rows {
		if c.DeletedAt.Valid {
			c.Deleted = true
			c.Body = ""
			c.UserID = 0
		}
	}
}

func (s *CommentService) attachAuthors(ctx context.Context, rows []*models.Comment) error {
	if len(rows) == 0 {
		return nil
	}
	ids := lo.Uniq(lo.Map(rows, func(c *models.Comment, _ int) uint { return c.UserID }))
	profiles, err := s.userRepo.GetProfiles(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range rows {
		if p, ok := profiles[c.UserID]; ok {
			c.Author = p
		}
	}
	return nil
}
