package server

import (
	"fmt"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUsers(t *testing.T, db *gorm.DB, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u := &models.User{
			Username: fmt.Sprintf("user%d", i+1),
			Email:    fmt.Sprintf("user%d@example.com", i+1),
			Password: "hash",
		}
		require.NoError(t, db.Create(u).Error)
		users = append(users, u)
	}
	return users
}

func TestFollowEndpoints(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedUsers(t, db, 3)
	alice, bob := users[0], users[1]

	t.Run("follow creates the edge", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/users/%d/follow", bob.ID), alice.ID)
		require.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, true, decodeBody(t, resp)["following"])
	})

	t.Run("duplicate follow is a conflict", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/users/%d/follow", bob.ID), alice.ID)
		assert.Equal(t, 409, resp.StatusCode)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/users/%d/follow", alice.ID), alice.ID)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("follow unknown user is 404", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", "/api/users/9999/follow", alice.ID)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("follow status reflects the edge", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", fmt.Sprintf("/api/users/%d/follow", bob.ID), alice.ID)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, true, decodeBody(t, resp)["following"])

		resp = authedRequest(t, app, "GET", fmt.Sprintf("/api/users/%d/follow", alice.ID), bob.ID)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, false, decodeBody(t, resp)["following"])
	})

	t.Run("unfollow removes the edge", func(t *testing.T) {
		resp := authedRequest(t, app, "DELETE", fmt.Sprintf("/api/users/%d/follow", bob.ID), alice.ID)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, false, decodeBody(t, resp)["following"])
	})

	t.Run("unfollow without an edge is a conflict", func(t *testing.T) {
		resp := authedRequest(t, app, "DELETE", fmt.Sprintf("/api/users/%d/follow", bob.ID), alice.ID)
		assert.Equal(t, 409, resp.StatusCode)
	})
}

func TestRelationListEndpoints(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedUsers(t, db, 4)
	alice := users[0]

	// Everyone else follows alice.
	for _, u := range users[1:] {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/users/%d/follow", alice.ID), u.ID)
		require.Equal(t, 201, resp.StatusCode)
	}

	t.Run("followers listing", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", fmt.Sprintf("/api/users/%d/followers", alice.ID), alice.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		followers := body["users"].([]any)
		assert.Len(t, followers, 3)

		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(3), pagination["total"])
	})

	t.Run("followers pagination", func(t *testing.T) {
		resp := authedRequest(t, app, "GET",
			fmt.Sprintf("/api/users/%d/followers?page=2&pageSize=2", alice.ID), alice.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["users"].([]any), 1)

		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(2), pagination["page"])
		assert.Equal(t, float64(2), pagination["total_pages"])
	})

	t.Run("following listing is directional", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", fmt.Sprintf("/api/users/%d/following", alice.ID), alice.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Empty(t, body["users"])
	})

	t.Run("listing unknown profile is 404", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", "/api/users/9999/followers", alice.ID)
		assert.Equal(t, 404, resp.StatusCode)
	})
}
