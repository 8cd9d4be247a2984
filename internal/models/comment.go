// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is one node of a content item's comment forest. Rows are stored
// flat with a parent pointer; Replies is assembled in memory by BuildForest.
// Nodes are only ever appended under an existing parent and never re-parented,
// so the structure is acyclic by construction; depth is unbounded.
// Deleting a comment tombstones it (soft delete) to keep reply chains intact.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Body      string `gorm:"type:text;not null" json:"body"`
	UserID    uint   `gorm:"not null" json:"user_id"`
	ContentID uint   `gorm:"not null;index" json:"content_id"`
	ParentID  *uint  `gorm:"index" json:"parent_id,omitempty"`

	Author  AuthorProfile `gorm:"-" json:"author"`
	Replies []*Comment    `gorm:"-" json:"replies"`

	// Deleted marks a tombstone. The node stays in the forest so its
	// replies keep their place, but its body has been redacted.
	Deleted bool `gorm:"-" json:"deleted,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BuildForest assembles flat comment rows into a forest. Input order is
// preserved both for top-level comments and for replies under each parent;
// rows must be ordered the way they should render (oldest first). A row whose
// parent is missing from the batch is treated as top-level rather than lost.
func BuildForest(rows []*Comment) []*Comment {
	byID := make(map[uint]*Comment, len(rows))
	for _, c := range rows {
		c.Replies = nil
		byID[c.ID] = c
	}

	var roots []*Comment
	for _, c := range rows {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// FindComment searches the forest for the comment with the given id and
// returns nil when absent. Traversal is depth-first with an explicit
// work-list: reply chains are as deep as users make them, and native
// recursion would overflow the stack on pathological threads.
func FindComment(forest []*Comment, id uint) *Comment {
	// Preorder: push in reverse so the first sibling is popped first.
	stack := make([]*Comment, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if node.ID == id {
			return node
		}
		for i := len(node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, node.Replies[i])
		}
	}
	return nil
}

// CountComments counts the visible nodes in the forest, replies included.
// Tombstones hold structure but are not counted, keeping this value in step
// with the comment count on content summaries. Same explicit work-list
// strategy as FindComment.
func CountComments(forest []*Comment) int {
	count := 0
	stack := make([]*Comment, len(forest))
	copy(stack, forest)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if !node.Deleted {
			count++
		}
		stack = append(stack, node.Replies...)
	}
	return count
}
