package service

import (
	"context"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// contentRepoStub is a stub for repository.ContentRepository.
type contentRepoStub struct {
	createFn          func(context.Context, *models.Content) error
	getByIDFn         func(context.Context, uint, uint) (*models.Content, error)
	setArchivedFn     func(context.Context, uint, bool) error
	deleteFn          func(context.Context, uint) error
	toggleFn          func(context.Context, uint, models.InteractionKind, uint, time.Time) (*repository.ToggleResult, error)
	isMemberFn        func(context.Context, uint, models.InteractionKind, uint) (bool, error)
	cardinalityFn     func(context.Context, uint, models.InteractionKind) (int64, error)
	listInteractedFn  func(context.Context, uint, models.InteractionKind, int, int) ([]*models.Content, error)
	countInteractedFn func(context.Context, uint, models.InteractionKind) (int64, error)
}

func (s *contentRepoStub) Create(ctx context.Context, content *models.Content) error {
	return s.createFn(ctx, content)
}
func (s *contentRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Content, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *contentRepoStub) SetArchived(ctx context.Context, id uint, archived bool) error {
	return s.setArchivedFn(ctx, id, archived)
}
func (s *contentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *contentRepoStub) Toggle(ctx context.Context, contentID uint, kind models.InteractionKind, userID uint, now time.Time) (*repository.ToggleResult, error) {
	return s.toggleFn(ctx, contentID, kind, userID, now)
}
func (s *contentRepoStub) IsMember(ctx context.Context, contentID uint, kind models.InteractionKind, userID uint) (bool, error) {
	return s.isMemberFn(ctx, contentID, kind, userID)
}
func (s *contentRepoStub) Cardinality(ctx context.Context, contentID uint, kind models.InteractionKind) (int64, error) {
	return s.cardinalityFn(ctx, contentID, kind)
}
func (s *contentRepoStub) ListInteracted(ctx context.Context, userID uint, kind models.InteractionKind, limit, offset int) ([]*models.Content, error) {
	return s.listInteractedFn(ctx, userID, kind, limit, offset)
}
func (s *contentRepoStub) CountInteracted(ctx context.Context, userID uint, kind models.InteractionKind) (int64, error) {
	return s.countInteractedFn(ctx, userID, kind)
}

func noopContentRepo() *contentRepoStub {
	return &contentRepoStub{
		createFn: func(_ context.Context, _ *models.Content) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Content, error) {
			return &models.Content{ID: id, UserID: 1, MediaURL: "https://example.com/m.jpg"}, nil
		},
		setArchivedFn: func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		toggleFn: func(_ context.Context, _ uint, _ models.InteractionKind, _ uint, _ time.Time) (*repository.ToggleResult, error) {
			return &repository.ToggleResult{Added: true, Cardinality: 1}, nil
		},
		isMemberFn:    func(_ context.Context, _ uint, _ models.InteractionKind, _ uint) (bool, error) { return false, nil },
		cardinalityFn: func(_ context.Context, _ uint, _ models.InteractionKind) (int64, error) { return 0, nil },
		listInteractedFn: func(_ context.Context, _ uint, _ models.InteractionKind, _, _ int) ([]*models.Content, error) {
			return nil, nil
		},
		countInteractedFn: func(_ context.Context, _ uint, _ models.InteractionKind) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn      func(context.Context, *models.User) error
	getByIDFn     func(context.Context, uint) (*models.User, error)
	getProfileFn  func(context.Context, uint) (*models.AuthorProfile, error)
	getProfilesFn func(context.Context, []uint) (map[uint]models.AuthorProfile, error)
	getSummaryFn  func(context.Context, uint) (*models.UserSummary, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetProfile(ctx context.Context, id uint) (*models.AuthorProfile, error) {
	return s.getProfileFn(ctx, id)
}
func (s *userRepoStub) GetProfiles(ctx context.Context, ids []uint) (map[uint]models.AuthorProfile, error) {
	return s.getProfilesFn(ctx, ids)
}
func (s *userRepoStub) GetSummary(ctx context.Context, id uint) (*models.UserSummary, error) {
	return s.getSummaryFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		getProfileFn: func(_ context.Context, id uint) (*models.AuthorProfile, error) {
			return &models.AuthorProfile{ID: id, Username: "user"}, nil
		},
		getProfilesFn: func(_ context.Context, ids []uint) (map[uint]models.AuthorProfile, error) {
			out := make(map[uint]models.AuthorProfile, len(ids))
			for _, id := range ids {
				out[id] = models.AuthorProfile{ID: id, Username: "user"}
			}
			return out, nil
		},
		getSummaryFn: func(_ context.Context, id uint) (*models.UserSummary, error) {
			return &models.UserSummary{ID: id, Username: "user"}, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, uint, uint, time.Time) (bool, error)
	deleteFn         func(context.Context, uint, uint) (bool, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint, uint, int, int) ([]models.UserSummary, error)
	listFollowingFn  func(context.Context, uint, uint, int, int) ([]models.UserSummary, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint, now time.Time) (bool, error) {
	return s.createFn(ctx, followerID, followeeID, now)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error) {
	return s.listFollowersFn(ctx, profileID, viewerID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error) {
	return s.listFollowingFn(ctx, profileID, viewerID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _, _ uint, _ time.Time) (bool, error) { return true, nil },
		deleteFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listFollowersFn: func(_ context.Context, _, _ uint, _, _ int) ([]models.UserSummary, error) {
			return nil, nil
		},
		listFollowingFn: func(_ context.Context, _, _ uint, _, _ int) ([]models.UserSummary, error) {
			return nil, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDFn        func(context.Context, uint) (*models.Comment, error)
	listByContentFn  func(context.Context, uint) ([]*models.Comment, error)
	countByContentFn func(context.Context, uint) (int64, error)
	deleteFn         func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByContent(ctx context.Context, contentID uint) ([]*models.Comment, error) {
	return s.listByContentFn(ctx, contentID)
}
func (s *commentRepoStub) CountByContent(ctx context.Context, contentID uint) (int64, error) {
	return s.countByContentFn(ctx, contentID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, ContentID: 1, UserID: 1}, nil
		},
		listByContentFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		countByContentFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}
