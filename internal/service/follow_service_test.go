package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ripple/internal/events"
	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureEvents(bus events.Bus) *[]events.Event {
	var captured []events.Event
	bus.Subscribe(func(ev events.Event) {
		captured = append(captured, ev)
	})
	return &captured
}

func TestFollowService_Follow(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the edge and emits an event", func(t *testing.T) {
		bus := events.NewMemoryBus()
		captured := captureEvents(bus)

		svc := NewFollowService(noopFollowRepo(), noopUserRepo(), bus)
		at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return at }

		require.NoError(t, svc.Follow(ctx, 1, 2))

		require.Len(t, *captured, 1)
		ev := (*captured)[0]
		assert.Equal(t, events.Followed, ev.Type)
		assert.Equal(t, uint(1), ev.Actor)
		assert.Equal(t, uint(2), ev.Target)
		assert.Equal(t, at, ev.At)
	})

	t.Run("self-follow is rejected", func(t *testing.T) {
		bus := events.NewMemoryBus()
		captured := captureEvents(bus)

		svc := NewFollowService(noopFollowRepo(), noopUserRepo(), bus)
		err := svc.Follow(ctx, 1, 1)

		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
		assert.Empty(t, *captured)
	})

	t.Run("missing target user is rejected", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}

		svc := NewFollowService(noopFollowRepo(), users, events.NewMemoryBus())
		err := svc.Follow(ctx, 1, 99)

		require.Error(t, err)
		assert.Equal(t, 404, models.StatusForError(err))
	})

	t.Run("re-follow reports already in state and emits nothing", func(t *testing.T) {
		repo := noopFollowRepo()
		repo.createFn = func(_ context.Context, _, _ uint, _ time.Time) (bool, error) {
			return false, nil
		}
		bus := events.NewMemoryBus()
		captured := captureEvents(bus)

		svc := NewFollowService(repo, noopUserRepo(), bus)
		err := svc.Follow(ctx, 1, 2)

		require.Error(t, err)
		assert.Equal(t, 409, models.StatusForError(err))
		assert.Empty(t, *captured)
	})

	t.Run("no event when the write fails", func(t *testing.T) {
		repo := noopFollowRepo()
		repo.createFn = func(_ context.Context, _, _ uint, _ time.Time) (bool, error) {
			return false, models.NewUnavailableError(errors.New("db down"))
		}
		bus := events.NewMemoryBus()
		captured := captureEvents(bus)

		svc := NewFollowService(repo, noopUserRepo(), bus)
		err := svc.Follow(ctx, 1, 2)

		require.Error(t, err)
		assert.Empty(t, *captured)
	})

	t.Run("publish failure does not fail the mutation", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopUserRepo(), failingBus{})
		assert.NoError(t, svc.Follow(ctx, 1, 2))
	})
}

type failingBus struct{}

func (failingBus) Publish(context.Context, events.Event) error { return errors.New("broker down") }
func (failingBus) Subscribe(func(events.Event)) func()         { return func() {} }

func TestFollowService_Unfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the edge and emits an event", func(t *testing.T) {
		bus := events.NewMemoryBus()
		captured := captureEvents(bus)

		svc := NewFollowService(noopFollowRepo(), noopUserRepo(), bus)
		require.NoError(t, svc.Unfollow(ctx, 1, 2))

		require.Len(t, *captured, 1)
		assert.Equal(t, events.Unfollowed, (*captured)[0].Type)
	})

	t.Run("absent edge reports already in state", func(t *testing.T) {
		repo := noopFollowRepo()
		repo.deleteFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		bus := events.NewMemoryBus()
		captured := captureEvents(bus)

		svc := NewFollowService(repo, noopUserRepo(), bus)
		err := svc.Unfollow(ctx, 1, 2)

		require.Error(t, err)
		assert.Equal(t, 409, models.StatusForError(err))
		assert.Empty(t, *captured)
	})
}

func TestFollowService_Relations(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid kind is rejected", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopUserRepo(), events.NewMemoryBus())
		_, err := svc.Relations(ctx, 1, 2, "friends", 1, 10)
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
	})

	t.Run("followers listing with pagination", func(t *testing.T) {
		repo := noopFollowRepo()
		repo.countFollowersFn = func(_ context.Context, _ uint) (int64, error) { return 12, nil }
		repo.listFollowersFn = func(_ context.Context, profileID, viewerID uint, limit, offset int) ([]models.UserSummary, error) {
			assert.Equal(t, uint(1), profileID)
			assert.Equal(t, uint(2), viewerID)
			assert.Equal(t, 5, limit)
			assert.Equal(t, 5, offset)
			return []models.UserSummary{{ID: 7, IsFollowing: true}}, nil
		}

		svc := NewFollowService(repo, noopUserRepo(), events.NewMemoryBus())
		page, err := svc.Relations(ctx, 1, 2, "followers", 2, 5)
		require.NoError(t, err)

		require.Len(t, page.Users, 1)
		assert.True(t, page.Users[0].IsFollowing)
		assert.Equal(t, int64(12), page.Pagination.Total)
		assert.Equal(t, int64(3), page.Pagination.TotalPages)
		assert.True(t, page.Pagination.HasMore)
	})

	t.Run("following listing", func(t *testing.T) {
		repo := noopFollowRepo()
		called := false
		repo.listFollowingFn = func(_ context.Context, _, _ uint, _, _ int) ([]models.UserSummary, error) {
			called = true
			return nil, nil
		}

		svc := NewFollowService(repo, noopUserRepo(), events.NewMemoryBus())
		page, err := svc.Relations(ctx, 1, 2, "following", 1, 10)
		require.NoError(t, err)
		assert.True(t, called)
		assert.NotNil(t, page.Users)
	})

	t.Run("missing profile is rejected", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}

		svc := NewFollowService(noopFollowRepo(), users, events.NewMemoryBus())
		_, err := svc.Relations(ctx, 99, 2, "followers", 1, 10)
		require.Error(t, err)
		assert.Equal(t, 404, models.StatusForError(err))
	})
}
