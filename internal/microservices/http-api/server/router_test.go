package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookrating/database"
	"bookrating/internal/config"
	"bookrating/internal/microservices/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		GoEnv:           "test",
		JWTSecret:       "integration-secret-integration-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		CORSOrigins:     []string{"http://localhost:5173"},
		AuthRateLimit:   100,
		AuthRateBurst:   100,
	}
	app := New(Deps{DB: db, Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	return app, db
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func signUp(t *testing.T, h http.Handler, username string) (string, string) {
	t.Helper()
	code, out := call(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     username,
		"username": username,
		"password": "correct-horse",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, code, out)

	code, out = call(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, code, out)
	return out["user_id"].(string), out["access_token"].(string)
}

func TestReviewFlowEndToEnd(t *testing.T) {
	app, db := newTestApp(t)
	h := app.Engine

	author := &models.Author{Name: "Frank Herbert"}
	require.NoError(t, db.Create(author).Error)
	book := &models.Book{ID: 42, Title: "Dune", Description: "d", PublishedDate: "1965", NumberOfPages: 412, Image: "i", AuthorID: author.ID}
	require.NoError(t, db.Create(book).Error)

	_, alice := signUp(t, h, "alice")
	_, bob := signUp(t, h, "bob")

	code, out := call(t, h, http.MethodPost, "/api/v1/reviews", alice, map[string]any{
		"rating":  9,
		"comment": "Spice, sand and politics.",
		"book_id": 42,
	})
	require.Equal(t, http.StatusCreated, code, out)
	reviewID := int64(out["review"].(map[string]any)["id"].(float64))

	code, out = call(t, h, http.MethodGet, "/api/v1/books/42", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, out["ratings_count"])

	likePath := fmt.Sprintf("/api/v1/reviews/%d/like", reviewID)
	code, out = call(t, h, http.MethodPut, likePath, bob, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Liked successfully", out["message"])
	assert.EqualValues(t, 1, out["likes"])

	code, out = call(t, h, http.MethodPut, likePath, bob, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Unliked successfully", out["message"])
	assert.EqualValues(t, 0, out["likes"])

	// bob cannot edit alice's review
	code, _ = call(t, h, http.MethodPut, fmt.Sprintf("/api/v1/reviews/%d", reviewID), bob, map[string]any{"rating": 1})
	assert.Equal(t, http.StatusForbidden, code)

	code, out = call(t, h, http.MethodPost, "/api/v1/books/reviews/42", bob, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, out["reviews"])

	code, _ = call(t, h, http.MethodPost, "/api/v1/trending_books", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestSessionRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	code, _ := call(t, app.Engine, http.MethodGet, "/api/v1/searchBooks?query=dune", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, app.Engine, http.MethodGet, "/api/v1/books", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminRequiresAdminRole(t *testing.T) {
	app, db := newTestApp(t)
	h := app.Engine

	userID, token := signUp(t, h, "carol")
	code, _ := call(t, h, http.MethodGet, "/api/v1/admin/resources", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Update("role", models.RoleAdmin).Error)
	// the role is carried in the token, so log in again
	code, out := call(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "carol", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, http.MethodGet, "/api/v1/admin/resources", out["access_token"].(string), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t)

	code, out := call(t, app.Engine, http.MethodGet, "/check-conn", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
}
