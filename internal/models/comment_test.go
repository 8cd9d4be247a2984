package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeComment(id uint, parentID *uint) *Comment {
	return &Comment{ID: id, ContentID: 1, UserID: 1, ParentID: parentID}
}

func ptr(id uint) *uint { return &id }

func TestBuildForest(t *testing.T) {
	t.Run("nests replies under parents preserving order", func(t *testing.T) {
		rows := []*Comment{
			makeComment(1, nil),
			makeComment(2, nil),
			makeComment(3, ptr(1)),
			makeComment(4, ptr(1)),
			makeComment(5, ptr(3)),
		}

		forest := BuildForest(rows)

		require.Len(t, forest, 2)
		assert.Equal(t, uint(1), forest[0].ID)
		assert.Equal(t, uint(2), forest[1].ID)
		require.Len(t, forest[0].Replies, 2)
		assert.Equal(t, uint(3), forest[0].Replies[0].ID)
		assert.Equal(t, uint(4), forest[0].Replies[1].ID)
		require.Len(t, forest[0].Replies[0].Replies, 1)
		assert.Equal(t, uint(5), forest[0].Replies[0].Replies[0].ID)
	})

	t.Run("missing parent treated as top-level", func(t *testing.T) {
		rows := []*Comment{
			makeComment(1, nil),
			makeComment(2, ptr(99)),
		}

		forest := BuildForest(rows)

		require.Len(t, forest, 2)
		assert.Equal(t, uint(2), forest[1].ID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, BuildForest(nil))
	})
}

func TestFindComment(t *testing.T) {
	forest := BuildForest([]*Comment{
		makeComment(1, nil),
		makeComment(2, ptr(1)),
		makeComment(3, ptr(2)),
		makeComment(4, nil),
	})

	t.Run("finds nested node", func(t *testing.T) {
		found := FindComment(forest, 3)
		require.NotNil(t, found)
		assert.Equal(t, uint(3), found.ID)
	})

	t.Run("finds top-level node", func(t *testing.T) {
		found := FindComment(forest, 4)
		require.NotNil(t, found)
		assert.Equal(t, uint(4), found.ID)
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		assert.Nil(t, FindComment(forest, 42))
	})

	t.Run("survives a very deep reply chain", func(t *testing.T) {
		const depth = 5000
		rows := make([]*Comment, 0, depth)
		rows = append(rows, makeComment(1, nil))
		for i := uint(2); i <= depth; i++ {
			parent := i - 1
			rows = append(rows, makeComment(i, &parent))
		}
		deep := BuildForest(rows)

		found := FindComment(deep, depth)
		require.NotNil(t, found)
		assert.Equal(t, uint(depth), found.ID)
	})
}

func TestCountComments(t *testing.T) {
	t.Run("counts every node including replies", func(t *testing.T) {
		forest := BuildForest([]*Comment{
			makeComment(1, nil),
			makeComment(2, ptr(1)),
			makeComment(3, ptr(2)),
			makeComment(4, nil),
			makeComment(5, ptr(4)),
		})

		assert.Equal(t, 5, CountComments(forest))
	})

	t.Run("zero for empty forest", func(t *testing.T) {
		assert.Equal(t, 0, CountComments(nil))
	})

	t.Run("tombstones hold structure without counting", func(t *testing.T) {
		root := makeComment(1, nil)
		root.Deleted = true
		forest := BuildForest([]*Comment{root, makeComment(2, ptr(1))})

		assert.Equal(t, 1, CountComments(forest))
	})

	t.Run("survives a very deep reply chain", func(t *testing.T) {
		const depth = 5000
		rows := make([]*Comment, 0, depth)
		rows = append(rows, makeComment(1, nil))
		for i := uint(2); i <= depth; i++ {
			parent := i - 1
			rows = append(rows, makeComment(i, &parent))
		}

		assert.Equal(t, depth, CountComments(BuildForest(rows)))
	})
}
