package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ripple/internal/events"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

// RelationPage is one page of a followers or following listing.
type RelationPage struct {
	Users      []models.UserSummary `json:"users"`
	Pagination Pagination           `json:"pagination"`
}

// FollowService manages the directed follow graph. Mutations are applied
// durably before any event leaves the process, so consumers never observe
// an edge that can still roll back.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	bus        events.Bus
	now        func() time.Time
}

// NewFollowService returns a new FollowService publishing on bus.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, bus events.Bus) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		bus:        bus,
		now:        time.Now,
	}
}

// Follow creates the follower -> followee edge. Re-following an existing
// edge is rejected with an already-in-state error and leaves the graph
// untouched.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) error {
	span, ctx := observability.NewSpan(ctx, "follow.create")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("follower.id", int64(followerID)),
		attribute.Int64("followee.id", int64(followeeID)),
	)

	if followerID == followeeID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	created, err := s.followRepo.Create(ctx, followerID, followeeID, s.now().UTC())
	if err != nil {
		span.SetError(err)
		return err
	}
	if !created {
		return models.NewAlreadyInStateError("Already following this user")
	}

	observability.LogMutation(ctx, "follow_created", "follower_id", followerID, "followee_id", followeeID)
	s.publish(ctx, events.Event{
		Type:   events.Followed,
		Actor:  followerID,
		Target: followeeID,
		At:     s.now().UTC(),
	})
	return nil
}

// Unfollow removes the follower -> followee edge. Removing an absent edge
// is reported without mutating anything.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	span, ctx := observability.NewSpan(ctx, "follow.delete")
	defer span.End()
	span.AddAttributes(
		attribute.Int64("follower.id", int64(followerID)),
		attribute.Int64("followee.id", int64(followeeID)),
	)

	if followerID == followeeID {
		return models.NewValidationError("Cannot unfollow yourself")
	}

	removed, err := s.followRepo.Delete(ctx, followerID, followeeID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if !removed {
		return models.NewAlreadyInStateError("Not following this user")
	}

	observability.LogMutation(ctx, "follow_removed", "follower_id", followerID, "followee_id", followeeID)
	s.publish(ctx, events.Event{
		Type:   events.Unfollowed,
		Actor:  followerID,
		Target: followeeID,
		At:     s.now().UTC(),
	})
	return nil
}

// IsFollowing reports whether the follower -> followee edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// Relations lists a user's followers or following, newest edge first, with
// each row's IsFollowing flag computed relative to the viewer.
func (s *FollowService) Relations(ctx context.Context, profileID, viewerID uint, rawKind string, page, pageSize int) (*RelationPage, error) {
	kind, err := models.ParseRelationKind(rawKind)
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

	if _, err := s.userRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}

	var total int64
	var users []models.UserSummary
	offset := (page - 1) * pageSize

	switch kind {
	case models.RelationFollowers:
		total, err = s.followRepo.CountFollowers(ctx, profileID)
		if err != nil {
			return nil, err
		}
		users, err = s.followRepo.ListFollowers(ctx, profileID, viewerID, pageSize, offset)
	case models.RelationFollowing:
		total, err = s.followRepo.CountFollowing(ctx, profileID)
		if err != nil {
			return nil, err
		}
		users, err = s.followRepo.ListFollowing(ctx, profileID, viewerID, pageSize, offset)
	}
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &RelationPage{
		Users: users,
		Pagination: Pagination{
			Page:       page,
			Limit:      pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(page)*int64(pageSize) < total,
		},
	}, nil
}

// publish is best-effort: the edge is already durable and delivery is
// at-least-once, so a failed publish is logged and counted, not rolled back.
func (s *FollowService) publish(ctx context.Context, ev events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		observability.RelationEventPublishFailures.Inc()
		observability.GlobalLogger.Error("failed to publish relation event",
			"type", string(ev.Type), "actor", ev.Actor, "target", ev.Target, "error", err)
		return
	}
	observability.RelationEventsPublished.WithLabelValues(string(ev.Type)).Inc()
}
