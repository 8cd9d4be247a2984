package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// pairLockStripes is the size of the toggle lock table. Locks are striped:
// a (content, kind) pair always maps to the same mutex, unrelated pairs
// almost never share one.
const pairLockStripes = 64

// pairLocks serializes in-process toggles per (content, kind) pair. The
// database's unique index is the cross-process guard; this keeps two racing
// requests in the same process from interleaving their insert/delete halves.
type pairLocks struct {
	stripes [pairLockStripes]sync.Mutex
}

func (p *pairLocks) lock(contentID uint, kind models.InteractionKind) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d/%s", contentID, kind)
	return &p.stripes[h.Sum32()%pairLockStripes]
}

// InteractionService owns interaction set toggles and their derived counts.
type InteractionService struct {
	contentRepo repository.ContentRepository
	locks       pairLocks
	now         func() time.Time
}

// NewInteractionService returns a new InteractionService.
func NewInteractionService(contentRepo repository.ContentRepository) *InteractionService {
	return &InteractionService{
		contentRepo: contentRepo,
		now:         time.Now,
	}
}

// Toggle flips the user's membership in the content item's kind-set and
// returns the outcome plus the set's new cardinality. Two rapid duplicate
// requests land on last-toggle-wins, which is what a binary action wants.
func (s *InteractionService) Toggle(ctx context.Context, userID, contentID uint, kind models.InteractionKind) (*repository.ToggleResult, error) {
	span, ctx := observability.NewSpan(ctx, "interaction.toggle")
	defer span.End()
	span.AddAttributes(
		attribute.String("interaction.kind", string(kind)),
		attribute.Int("content.id", int(contentID)),
	)

	// NotFound before mutating; soft-deleted content is gone to clients.
	if _, err := s.contentRepo.GetByID(ctx, contentID, 0); err != nil {
		span.SetError(err)
		return nil, err
	}

	mu := s.locks.lock(contentID, kind)
	mu.Lock()
	result, err := s.contentRepo.Toggle(ctx, contentID, kind, userID, s.now().UTC())
	mu.Unlock()
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	outcome := "removed"
	if result.Added {
		outcome = "added"
	}
	observability.TogglesApplied.WithLabelValues(string(kind), outcome).Inc()
	observability.LogMutation(ctx, "interaction.toggle",
		slog.Uint64("content_id", uint64(contentID)),
		slog.String("kind", string(kind)),
		slog.String("outcome", outcome),
		slog.Int64("cardinality", result.Cardinality),
	)

	return result, nil
}

// IsMember reports whether the user is in the content item's kind-set.
func (s *InteractionService) IsMember(ctx context.Context, userID, contentID uint, kind models.InteractionKind) (bool, error) {
	return s.contentRepo.IsMember(ctx, contentID, kind, userID)
}

// Cardinality returns the size of the content item's kind-set.
func (s *InteractionService) Cardinality(ctx context.Context, contentID uint, kind models.InteractionKind) (int64, error) {
	return s.contentRepo.Cardinality(ctx, contentID, kind)
}
