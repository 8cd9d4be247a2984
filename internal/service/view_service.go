package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination describes one page of a ranked view.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// InteractionView is one page of content a user has interacted with,
// ordered by the user's own interaction time, newest first.
type InteractionView struct {
	Items      []*models.Content `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// ViewService builds ranked, privacy-filtered views over interaction sets.
// It never mutates state.
type ViewService struct {
	contentRepo repository.ContentRepository
}

// NewViewService returns a new ViewService.
func NewViewService(contentRepo repository.ContentRepository) *ViewService {
	return &ViewService{contentRepo: contentRepo}
}

// Build assembles the page. Ordering, filtering and the author projection
// are enforced by the repository query; this layer validates arguments and
// shapes pagination. Page is 1-indexed.
func (s *ViewService) Build(ctx context.Context, userID uint, rawKind string, page, pageSize int) (*InteractionView, error) {
	kind, err := models.ParseInteractionKind(rawKind)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, models.NewValidationError("page must be >= 1")
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		return nil, models.NewValidationError("pageSize too large")
	}

	total, err := s.contentRepo.CountInteracted(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	items, err := s.contentRepo.ListInteracted(ctx, userID, kind, pageSize, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Content{}
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &InteractionView{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(page)*int64(pageSize) < total,
		},
	}, nil
}
