package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"bookrating/cmd/cli/authentication"
	"bookrating/internal/microservices/http-api/dto"
)

const apiPrefix = "/api/v1"

// statusAuthenticationTimeout is the non-standard 419 some deployments answer with when a session lapses
const statusAuthenticationTimeout = 419

// ErrSessionExpired is returned once the session cannot be recovered; the user has to log in again.
var ErrSessionExpired = errors.New("session expired, please log in again")

// TokenStore persists the current session between invocations
type TokenStore interface {
	Load() (*authentication.StoredCredentials, error)
	Save(creds *authentication.StoredCredentials) error
	Clear() error
}

// APIError carries the {"error"} body of a failed request
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// HTTPClient talks to the bookrating API. Every call carries the stored access token,
// and an expired session is refreshed once before the call is replayed.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore

	refreshMu sync.Mutex
	hooksMu   sync.Mutex
	onReset   []func()
}

func NewHTTPClient(baseURL string, tokens TokenStore) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
	}
}

// OnSessionReset registers a hook that runs when the session is dropped
func (c *HTTPClient) OnSessionReset(hook func()) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.onReset = append(c.onReset, hook)
}

// Session returns the stored credentials, or nil when logged out
func (c *HTTPClient) Session() (*authentication.StoredCredentials, error) {
	return c.tokens.Load()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// anonymous requests never trigger a refresh: a 401 there is a real answer
	anonymous bool
}

func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return err
		}
	}

	creds, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	resp, err := c.send(ctx, r, payload, creds)
	if err != nil {
		return err
	}

	if !r.anonymous && isSessionFailure(resp.StatusCode) {
		resp.Body.Close()

		creds, err = c.refresh(ctx, creds)
		if err != nil {
			return c.expire(err)
		}
		if resp, err = c.send(ctx, r, payload, creds); err != nil {
			return err
		}
		if isSessionFailure(resp.StatusCode) {
			resp.Body.Close()
			return c.expire(nil)
		}
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func (c *HTTPClient) send(ctx context.Context, r request, payload []byte, creds *authentication.StoredCredentials) (*http.Response, error) {
	target := c.baseURL + apiPrefix + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil && creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}
	return c.httpClient.Do(req)
}

// refresh rotates the token pair. Concurrent callers share one rotation: whoever
// arrives second finds a different access token in the store and reuses it.
func (c *HTTPClient) refresh(ctx context.Context, used *authentication.StoredCredentials) (*authentication.StoredCredentials, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.tokens.Load()
	if err != nil {
		return nil, err
	}
	if current == nil || current.RefreshToken == "" {
		return nil, errors.New("no refresh token")
	}
	if used != nil && current.AccessToken != used.AccessToken {
		return current, nil
	}

	var rotated dto.RefreshResponse
	err = c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/refresh",
		body:      dto.RefreshTokenRequest{RefreshToken: current.RefreshToken},
		anonymous: true,
	}, &rotated)
	if err != nil {
		return nil, err
	}

	next := &authentication.StoredCredentials{
		AccessToken:  rotated.AccessToken,
		RefreshToken: rotated.RefreshToken,
		Username:     current.Username,
		ExpiresAt:    time.Now().Add(time.Duration(rotated.ExpiresIn) * time.Second).Unix(),
	}
	if err := c.tokens.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *HTTPClient) expire(cause error) error {
	c.resetSession()
	if cause != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
	}
	return ErrSessionExpired
}

func (c *HTTPClient) resetSession() {
	_ = c.tokens.Clear()

	c.hooksMu.Lock()
	hooks := append([]func(){}, c.onReset...)
	c.hooksMu.Unlock()
	for _, hook := range hooks {
		hook()
	}
}

func isSessionFailure(status int) bool {
	return status == http.StatusUnauthorized || status == statusAuthenticationTimeout
}

func decodeResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
			apiErr.Fields = body.Fields
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func pageQuery(page int) url.Values {
	if page <= 1 {
		return nil
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var result dto.RegisterResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: req, anonymous: true}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Login stores the returned token pair so later calls are authenticated
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      dto.LoginRequest{Username: username, Password: password},
		anonymous: true,
	}, &result)
	if err != nil {
		return nil, err
	}

	creds := &authentication.StoredCredentials{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Username:     result.Username,
		ExpiresAt:    time.Now().Add(time.Duration(result.ExpiresIn) * time.Second).Unix(),
	}
	if err := c.tokens.Save(creds); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &result, nil
}

// Logout revokes the refresh token server side and always drops the local session
func (c *HTTPClient) Logout(ctx context.Context) error {
	creds, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if creds == nil {
		return nil
	}
	defer c.resetSession()

	err = c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/logout",
		body:      dto.RevokeTokenRequest{RefreshToken: creds.RefreshToken},
		anonymous: true,
	}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return nil
	}
	return err
}

// Books

func (c *HTTPClient) Books(ctx context.Context, page int) (*dto.Paginated[dto.BookResponse], error) {
	var result dto.Paginated[dto.BookResponse]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/books", query: pageQuery(page)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Book(ctx context.Context, id int64) (*dto.BookResponse, error) {
	var result dto.BookResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/books/%d", id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SearchBooks(ctx context.Context, query string) ([]dto.BookResponse, error) {
	var result []dto.BookResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/searchBooks", query: url.Values{"query": {query}}}, &result)
	return result, err
}

func (c *HTTPClient) Trending(ctx context.Context) ([]dto.TrendingBookResponse, error) {
	var result []dto.TrendingBookResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/trending_books"}, &result)
	return result, err
}

func (c *HTTPClient) Suggestions(ctx context.Context) ([]dto.BookResponse, error) {
	var result []dto.BookResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/suggestions"}, &result)
	return result, err
}

// Reviews

func (c *HTTPClient) BookReviews(ctx context.Context, bookID int64, page int) (*dto.BookReviewsResponse, error) {
	var result dto.BookReviewsResponse
	err := c.do(ctx, request{method: http.MethodPost, path: idPath("/books/reviews/%d", bookID), query: pageQuery(page)}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) MyReviews(ctx context.Context, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	var result dto.Paginated[dto.ReviewResponse]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reviews", query: pageQuery(page)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateReview(ctx context.Context, req dto.CreateReviewDTO) (*dto.ReviewMutationResponse, error) {
	var result dto.ReviewMutationResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/reviews", body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateReview(ctx context.Context, id int64, req dto.UpdateReviewDTO) (*dto.ReviewMutationResponse, error) {
	var result dto.ReviewMutationResponse
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/reviews/%d", id), body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/reviews/%d", id)}, nil)
}

func (c *HTTPClient) LikeReview(ctx context.Context, id int64) (*dto.LikeToggleResponse, error) {
	var result dto.LikeToggleResponse
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/reviews/%d/like", id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Authors and follows

func (c *HTTPClient) Authors(ctx context.Context, page int) (*dto.Paginated[dto.AuthorResponse], error) {
	var result dto.Paginated[dto.AuthorResponse]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/authors", query: pageQuery(page)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SearchAuthors(ctx context.Context, query string) ([]dto.AuthorResponse, error) {
	var result []dto.AuthorResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/authors/search", query: url.Values{"query": {query}}}, &result)
	return result, err
}

func (c *HTTPClient) Author(ctx context.Context, id int64) (*dto.AuthorResponse, error) {
	var result dto.AuthorResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/authors/%d", id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) FollowAuthor(ctx context.Context, id int64) (*dto.FollowToggleResponse, error) {
	var result dto.FollowToggleResponse
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/authors/%d/follow", id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) FollowUser(ctx context.Context, userID string) (*dto.FollowToggleResponse, error) {
	var result dto.FollowToggleResponse
	path := "/follow/" + url.PathEscape(userID)
	if err := c.do(ctx, request{method: http.MethodPut, path: path}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Profile(ctx context.Context, userID string) (*dto.UserInfo, error) {
	var result dto.UserInfo
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/" + url.PathEscape(userID)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
