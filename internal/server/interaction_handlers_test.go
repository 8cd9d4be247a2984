package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ripple/internal/config"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-for-handlers"

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{JWTSecret: testSecret, Env: "test"}
	middleware.InitMiddleware(cfg)

	db := testutil.OpenTestDB(t)
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, db
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authedRequest(t *testing.T, app *fiber.App, method, path string, userID uint) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func seedUserAndContent(t *testing.T, db *gorm.DB) (*models.User, *models.Content) {
	t.Helper()
	user := &models.User{Username: "tester", Email: "t@example.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	content := &models.Content{
		ContentType: models.ContentTypePost,
		MediaURL:    "https://example.com/m.jpg",
		UserID:      user.ID,
	}
	require.NoError(t, db.Create(content).Error)
	return user, content
}

func TestToggleEndpoints(t *testing.T) {
	app, db := setupTestApp(t)
	user, content := seedUserAndContent(t, db)

	t.Run("save toggles on", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/contents/%d/save", content.ID), user.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["saved"])
		assert.Equal(t, float64(1), body["saves_count"])
	})

	t.Run("save toggles off", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/contents/%d/save", content.ID), user.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["saved"])
		assert.Equal(t, float64(0), body["saves_count"])
	})

	t.Run("like uses its own response keys", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/contents/%d/like", content.ID), user.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["liked"])
		assert.Equal(t, float64(1), body["likes_count"])
	})

	t.Run("missing content is 404", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", "/api/contents/9999/save", user.ID)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("bad id is 400", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", "/api/contents/abc/save", user.ID)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		req := httptest.NewRequest("POST", fmt.Sprintf("/api/contents/%d/save", content.ID), nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestInteractionStatusEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	user, content := seedUserAndContent(t, db)

	t.Run("reports non-membership before any toggle", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", fmt.Sprintf("/api/contents/%d/like", content.ID), user.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, float64(0), body["likes_count"])
	})

	t.Run("reflects membership after a toggle", func(t *testing.T) {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/contents/%d/like", content.ID), user.ID)
		require.Equal(t, 200, resp.StatusCode)

		resp = authedRequest(t, app, "GET", fmt.Sprintf("/api/contents/%d/like", content.ID), user.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["liked"])
		assert.Equal(t, float64(1), body["likes_count"])
	})

	t.Run("other viewers see the count but not membership", func(t *testing.T) {
		viewer := &models.User{Username: "status-viewer", Email: "sv@example.com", Password: "hash"}
		require.NoError(t, db.Create(viewer).Error)

		resp := authedRequest(t, app, "GET", fmt.Sprintf("/api/contents/%d/like", content.ID), viewer.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, float64(1), body["likes_count"])
	})
}

func TestGetMyInteractions(t *testing.T) {
	app, db := setupTestApp(t)
	user, _ := seedUserAndContent(t, db)

	// Save a second item so the page has two entries.
	other := &models.Content{
		ContentType: models.ContentTypePost,
		MediaURL:    "https://example.com/o.jpg",
		UserID:      user.ID,
	}
	require.NoError(t, db.Create(other).Error)

	for _, id := range []uint{other.ID - 1, other.ID} {
		resp := authedRequest(t, app, "POST", fmt.Sprintf("/api/contents/%d/save", id), user.ID)
		require.Equal(t, 200, resp.StatusCode)
	}

	t.Run("returns saved items with pagination", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", "/api/me/interactions?kind=save&page=1&pageSize=10", user.ID)
		require.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp)
		items := body["items"].([]any)
		assert.Len(t, items, 2)

		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(1), pagination["page"])
		assert.Equal(t, float64(2), pagination["total"])
		assert.Equal(t, float64(1), pagination["total_pages"])
	})

	t.Run("invalid kind is 400", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", "/api/me/interactions?kind=bookmark", user.ID)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("item payloads never include sensitive author fields", func(t *testing.T) {
		resp := authedRequest(t, app, "GET", "/api/me/interactions?kind=save", user.ID)
		require.Equal(t, 200, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
		assert.NotContains(t, string(raw), "email")
		assert.NotContains(t, string(raw), "two_factor")
	})
}
