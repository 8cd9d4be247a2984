// Package reconcile keeps client-held, already-paginated follow lists
// consistent with pushed relationship events, without refetching.
//
// A CachedList only ever receives relative patches (set a flag, prepend an
// entry, remove an entry by id), never absolute snapshots. That is what makes
// at-least-once, out-of-order delivery safe: a duplicate event re-applies to
// the same state, and a late event about a user not on the page is a no-op.
package reconcile

import (
	"sync"

	"ripple/internal/events"
	"ripple/internal/models"
)

// Lookup resolves a user id to a summary when an event forces a prepend of a
// user the page has never seen. When it reports false the reconciler falls
// back to a bare-id summary the UI can hydrate later.
type Lookup func(userID uint) (models.UserSummary, bool)

// CachedList is one fetched page-set of a profile's followers or following,
// owned by the viewer session that fetched it. Apply patches it in place;
// Snapshot hands renderers a copy so they can never observe a half-applied
// patch.
type CachedList struct {
	mu sync.Mutex

	// Query parameters that produced the cached items.
	ProfileID uint
	Kind      models.RelationKind
	ViewerID  uint
	Page      int
	PageSize  int

	items  []models.UserSummary
	lookup Lookup
}

// NewCachedList wraps an already-fetched list of summaries.
func NewCachedList(profileID uint, kind models.RelationKind, viewerID uint, items []models.UserSummary, lookup Lookup) *CachedList {
	copied := make([]models.UserSummary, len(items))
	copy(copied, items)
	return &CachedList{
		ProfileID: profileID,
		Kind:      kind,
		ViewerID:  viewerID,
		items:     copied,
		lookup:    lookup,
	}
}

// Snapshot returns a copy of the current items for rendering.
func (l *CachedList) Snapshot() []models.UserSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.UserSummary, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the current number of cached entries.
func (l *CachedList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Apply patches the cached list with one relationship event. Applying the
// same event twice leaves the list unchanged the second time.
func (l *CachedList) Apply(ev events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch ev.Type {
	case events.Followed:
		l.applyFollowed(ev)
	case events.Unfollowed:
		l.applyUnfollowed(ev)
	}
}

// applyFollowed handles Actor starting to follow Target.
func (l *CachedList) applyFollowed(ev events.Event) {
	// The list's owner gained a follower. New entries always enter at the
	// head, mirroring the server's most-recent-first order; the
	// already-fetched tail is not re-sorted. An entry already on the page
	// stays as it is: the event carries nothing about the viewer's own
	// relation to it.
	if l.ProfileID == ev.Target && l.Kind == models.RelationFollowers {
		if l.indexOf(ev.Actor) < 0 {
			l.items = append([]models.UserSummary{l.summaryFor(ev.Actor)}, l.items...)
		}
		return
	}

	// The event concerns an entry within the list. The viewer's flag on an
	// entry only changes when the viewer is the one who followed; anyone
	// else's follow says nothing about the viewer's own relation.
	if ev.Actor == l.ViewerID {
		if i := l.indexOf(ev.Target); i >= 0 {
			l.items[i].IsFollowing = true
		}
	}
}

// applyUnfollowed handles Actor ceasing to follow Target. Symmetric to
// applyFollowed, except the owner branch removes rather than re-flags.
func (l *CachedList) applyUnfollowed(ev events.Event) {
	if l.ProfileID == ev.Target && l.Kind == models.RelationFollowers {
		if i := l.indexOf(ev.Actor); i >= 0 {
			l.items = append(l.items[:i], l.items[i+1:]...)
		}
		return
	}

	if ev.Actor == l.ViewerID {
		if i := l.indexOf(ev.Target); i >= 0 {
			l.items[i].IsFollowing = false
		}
	}
}

func (l *CachedList) indexOf(userID uint) int {
	for i := range l.items {
		if l.items[i].ID == userID {
			return i
		}
	}
	return -1
}

// summaryFor resolves a summary for a user entering the list. The lookup's
// IsFollowing is trusted as-is; the fallback is a bare id with no claimed
// relation, which the UI hydrates later.
func (l *CachedList) summaryFor(userID uint) models.UserSummary {
	if l.lookup != nil {
		if s, ok := l.lookup(userID); ok {
			return s
		}
	}
	return models.UserSummary{ID: userID}
}
