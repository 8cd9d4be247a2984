// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Content types supported by the platform.
const (
	ContentTypePost  = "post"
	ContentTypeReel  = "reel"
	ContentTypeStory = "story"
)

// Content represents a post, reel or story. All counts are computed at query
// time from the interaction sets and the comment table; none of them is ever
// persisted on the row itself.
type Content struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ContentType string `gorm:"type:varchar(20);not null;default:'post'" json:"content_type"`
	Caption     string `gorm:"type:text" json:"caption"`
	MediaURL    string `gorm:"not null" json:"media_url"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Archived    bool   `gorm:"not null;default:false" json:"archived"`

	Author AuthorProfile `gorm:"-" json:"author"`

	// Computed at query time; never persisted
	Liked         bool  `gorm:"->" json:"liked"`
	Saved         bool  `gorm:"->" json:"saved"`
	LikesCount    int64 `gorm:"->" json:"likes_count"`
	SavesCount    int64 `gorm:"->" json:"saves_count"`
	SharesCount   int64 `gorm:"->" json:"shares_count"`
	ViewsCount    int64 `gorm:"->" json:"views_count"`
	CommentsCount int64 `gorm:"->" json:"comments_count"`
	// InteractedAt is the requesting user's own membership timestamp for the
	// queried interaction kind; it is the sort key of ranked views.
	InteractedAt *time.Time `gorm:"->" json:"interacted_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidContentType reports whether t is a known content type.
func ValidContentType(t string) bool {
	switch t {
	case ContentTypePost, ContentTypeReel, ContentTypeStory:
		return true
	}
	return false
}

// Presentable reports whether the content may appear in any list view.
// Content without its media is not renderable and is filtered everywhere.
func (c *Content) Presentable() bool {
	return !c.Archived && c.MediaURL != ""
}
