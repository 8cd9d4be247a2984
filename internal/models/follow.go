package models

import (
	"time"
)

// Follow is a directed edge in the relationship graph. At most one edge per
// ordered pair (database unique index); unfollow removes the row outright,
// so re-following creates a fresh edge with a fresh timestamp.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// RelationKind scopes a follow-list view to one side of the edge set.
type RelationKind string

const (
	RelationFollowers RelationKind = "followers"
	RelationFollowing RelationKind = "following"
)

// ParseRelationKind validates a client-supplied relation kind.
func ParseRelationKind(s string) (RelationKind, error) {
	switch RelationKind(s) {
	case RelationFollowers, RelationFollowing:
		return RelationKind(s), nil
	}
	return "", NewValidationError("Invalid relation kind: " + s)
}
