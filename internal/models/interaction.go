package models

import (
	"time"
)

// InteractionKind identifies one of the per-content interaction sets.
type InteractionKind string

const (
	KindLike  InteractionKind = "like"
	KindSave  InteractionKind = "save"
	KindShare InteractionKind = "share"
	KindView  InteractionKind = "view"
)

// InteractionKinds lists every valid kind, in serialization order.
var InteractionKinds = []InteractionKind{KindLike, KindSave, KindShare, KindView}

// ParseInteractionKind validates a client-supplied kind string.
func ParseInteractionKind(s string) (InteractionKind, error) {
	switch InteractionKind(s) {
	case KindLike, KindSave, KindShare, KindView:
		return InteractionKind(s), nil
	}
	return "", NewValidationError("Invalid interaction kind: " + s)
}

// Interaction is one membership record in a content item's interaction set.
// The unique index over (content_id, kind, user_id) is what makes the set a
// set: at most one record per user per kind, enforced by the database.
type Interaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ContentID uint            `gorm:"not null;uniqueIndex:idx_content_kind_user" json:"content_id"`
	Kind      InteractionKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_content_kind_user" json:"kind"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_content_kind_user" json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Interaction) TableName() string {
	return "interactions"
}
