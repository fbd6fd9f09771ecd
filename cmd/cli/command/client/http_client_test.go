package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"bookrating/cmd/cli/authentication"
	"bookrating/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// fakeAPI accepts "good" as the only valid access token and rotates "r1" into ("good", "r2")
type fakeAPI struct {
	refreshCalls atomic.Int32
	bookCalls    atomic.Int32
	refreshOK    bool
	expiredCode  int
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")

	api.POST("/auth/refresh", func(c *gin.Context) {
		f.refreshCalls.Add(1)
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || !f.refreshOK || req.RefreshToken != "r1" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.JSON(http.StatusOK, dto.RefreshResponse{AccessToken: "good", RefreshToken: "r2", TokenType: "Bearer", ExpiresIn: 900})
	})
	api.POST("/auth/login", func(c *gin.Context) {
		var req dto.LoginRequest
		_ = c.ShouldBindJSON(&req)
		if req.Password != "secret-pass" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusOK, dto.AuthResponse{AccessToken: "good", RefreshToken: "r1", Username: req.Username, ExpiresIn: 900})
	})
	api.GET("/books/:id", func(c *gin.Context) {
		f.bookCalls.Add(1)
		if c.GetHeader("Authorization") != "Bearer good" {
			code := f.expiredCode
			if code == 0 {
				code = http.StatusUnauthorized
			}
			c.JSON(code, gin.H{"error": "token expired"})
			return
		}
		c.JSON(http.StatusOK, dto.BookResponse{ID: 42, Title: "Dune"})
	})
	api.POST("/reviews", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"rating": "must be at most 10"},
		})
	})
	api.GET("/searchBooks", func(c *gin.Context) {
		c.JSON(http.StatusOK, []dto.BookResponse{{ID: 1, Title: c.Query("query")}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, api *fakeAPI, creds *authentication.StoredCredentials) (*HTTPClient, *authentication.KeyringStore) {
	t.Helper()
	keyring.MockInit()
	store := authentication.NewKeyringStore()
	if creds != nil {
		require.NoError(t, store.Save(creds))
	}
	return NewHTTPClient(api.server(t).URL, store), store
}

func TestDo_InjectsBearerToken(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newClient(t, api, &authentication.StoredCredentials{AccessToken: "good", RefreshToken: "r1"})

	book, err := c.Book(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestDo_RefreshesAndReplays(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, statusAuthenticationTimeout} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			api := &fakeAPI{refreshOK: true, expiredCode: code}
			c, store := newClient(t, api, &authentication.StoredCredentials{AccessToken: "stale", RefreshToken: "r1", Username: "alice"})

			book, err := c.Book(context.Background(), 42)

			require.NoError(t, err)
			assert.Equal(t, int64(42), book.ID)
			assert.Equal(t, int32(1), api.refreshCalls.Load())
			assert.Equal(t, int32(2), api.bookCalls.Load())

			creds, err := store.Load()
			require.NoError(t, err)
			require.NotNil(t, creds)
			assert.Equal(t, "good", creds.AccessToken)
			assert.Equal(t, "r2", creds.RefreshToken)
			assert.Equal(t, "alice", creds.Username)
			assert.False(t, creds.Expired(time.Now()))
		})
	}
}

func TestDo_FailedRefreshResetsSession(t *testing.T) {
	api := &fakeAPI{refreshOK: false}
	c, store := newClient(t, api, &authentication.StoredCredentials{AccessToken: "stale", RefreshToken: "r1"})

	var resets int
	c.OnSessionReset(func() { resets++ })
	c.OnSessionReset(func() { resets++ })

	_, err := c.Book(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 2, resets)
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, int32(1), api.bookCalls.Load())

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestDo_NoRefreshTokenSkipsRefresh(t *testing.T) {
	api := &fakeAPI{refreshOK: true}
	c, _ := newClient(t, api, nil)

	reset := false
	c.OnSessionReset(func() { reset = true })

	_, err := c.Book(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, reset)
	assert.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestDo_APIErrorCarriesMessageAndFields(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newClient(t, api, &authentication.StoredCredentials{AccessToken: "good", RefreshToken: "r1"})

	_, err := c.CreateReview(context.Background(), dto.CreateReviewDTO{Rating: 11, BookID: 42})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "validation failed", apiErr.Message)
	assert.Equal(t, "must be at most 10", apiErr.Fields["rating"])
	assert.Equal(t, "validation failed (422)", apiErr.Error())
}

func TestLogin_StoresSessionAndBadPasswordIsNotExpiry(t *testing.T) {
	api := &fakeAPI{}
	c, store := newClient(t, api, nil)

	_, err := c.Login(context.Background(), "alice", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.NotErrorIs(t, err, ErrSessionExpired)

	resp, err := c.Login(context.Background(), "alice", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)

	creds, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "good", creds.AccessToken)
	assert.Equal(t, "r1", creds.RefreshToken)
}

func TestSearchBooks_EncodesQuery(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newClient(t, api, nil)

	books, err := c.SearchBooks(context.Background(), "war & peace")

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "war & peace", books[0].Title)
}
