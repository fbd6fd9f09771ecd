package handler

import (
	"context"
	"net/http"
	"testing"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, userID string, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, id int64) (*dto.ReviewResponse, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, userID string, id int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, userID string, id int64) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *MockReviewService) ToggleLike(ctx context.Context, userID string, id int64) (*dto.LikeToggleResponse, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeToggleResponse), args.Error(1)
}

func (m *MockReviewService) ListForBook(ctx context.Context, viewerID string, bookID int64, page int) (*dto.BookReviewsResponse, error) {
	args := m.Called(viewerID, bookID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookReviewsResponse), args.Error(1)
}

func (m *MockReviewService) ListForBookPublic(ctx context.Context, bookID int64, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(bookID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) ListAll(ctx context.Context, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func newReviewRouter(svc *MockReviewService, userID string) *gin.Engine {
	router := setupRouter()
	api := router.Group("/api/v1")
	session := api.Group("", asUser(userID))
	NewReviewHandler(svc).RegisterRoutes(api, session)
	return router
}

func strPtr(s string) *string { return &s }

func TestCreateReview_Success(t *testing.T) {
	svc := new(MockReviewService)
	router := setupRouter()
	router.POST("/reviews", asUser("user-1"), NewReviewHandler(svc).Create)

	req := dto.CreateReviewDTO{Rating: 8, Comment: strPtr("A slow but rewarding read."), BookID: 42}
	svc.On("Create", "user-1", req).Return(&dto.ReviewResponse{ID: 1, UserID: "user-1", BookID: 42, Rating: 8}, nil)

	w := performJSON(router, http.MethodPost, "/reviews", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ReviewMutationResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Review created successfully", resp.Message)
	assert.Equal(t, int64(42), resp.Review.BookID)
	svc.AssertExpectations(t)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	svc := new(MockReviewService)
	router := setupRouter()
	router.POST("/reviews", asUser("user-1"), NewReviewHandler(svc).Create)

	w := performJSON(router, http.MethodPost, "/reviews", map[string]any{"rating": 11, "book_id": 42})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, "must be at most 10", resp.Fields["rating"])
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_ShortCommentFromService(t *testing.T) {
	svc := new(MockReviewService)
	router := setupRouter()
	router.POST("/reviews", asUser("user-1"), NewReviewHandler(svc).Create)

	req := dto.CreateReviewDTO{Rating: 5, Comment: strPtr("meh"), BookID: 42}
	svc.On("Create", "user-1", req).Return(nil, &service.ValidationError{
		Fields: map[string]string{"comment": "must be at least 10 characters"},
	})

	w := performJSON(router, http.MethodPost, "/reviews", req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "comment")
}

func TestCreateReview_UnknownBook(t *testing.T) {
	svc := new(MockReviewService)
	router := setupRouter()
	router.POST("/reviews", asUser("user-1"), NewReviewHandler(svc).Create)

	req := dto.CreateReviewDTO{Rating: 5, BookID: 999}
	svc.On("Create", "user-1", req).Return(nil, service.ErrBookNotFound)

	w := performJSON(router, http.MethodPost, "/reviews", req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReview_NotOwner(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "intruder")

	req := dto.UpdateReviewDTO{Rating: 3}
	svc.On("Update", "intruder", int64(7), req).Return(nil, service.ErrNotOwner)

	w := performJSON(router, http.MethodPut, "/api/v1/reviews/7", req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateReview_NotOwnerWithInvalidRating(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "intruder")

	req := dto.UpdateReviewDTO{Rating: 0}
	svc.On("Update", "intruder", int64(7), req).Return(nil, service.ErrNotOwner)

	w := performJSON(router, http.MethodPut, "/api/v1/reviews/7", req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteReview_NotFound(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "user-1")

	svc.On("Delete", "user-1", int64(404)).Return(service.ErrReviewNotFound)

	w := performJSON(router, http.MethodDelete, "/api/v1/reviews/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, service.ErrReviewNotFound.Error(), resp["error"])
}

func TestDeleteReview_Success(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "user-1")

	svc.On("Delete", "user-1", int64(3)).Return(nil)

	w := performJSON(router, http.MethodDelete, "/api/v1/reviews/3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Review deleted successfully"}`, w.Body.String())
}

func TestReview_InvalidID(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "user-1")

	w := performJSON(router, http.MethodGet, "/api/v1/reviews/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything)
}

func TestToggleReviewLike(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "user-1")

	svc.On("ToggleLike", "user-1", int64(5)).Return(&dto.LikeToggleResponse{
		Message: "Liked successfully",
		Likes:   1,
		IsLiked: true,
	}, nil)

	w := performJSON(router, http.MethodPut, "/api/v1/reviews/5/like", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Liked successfully","likes":1,"is_liked":true}`, w.Body.String())
}

func TestListForBook_PassesViewerAndPage(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "viewer")

	svc.On("ListForBook", "viewer", int64(42), 2).Return(&dto.BookReviewsResponse{
		Reviews:    1,
		Ratings:    []dto.BookReviewItem{},
		Pagination: dto.NewPagination(2, 10, 11),
	}, nil)

	w := performJSON(router, http.MethodPost, "/api/v1/books/reviews/42?page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.BookReviewsResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, int64(1), resp.Reviews)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrevious)
	svc.AssertExpectations(t)
}

func TestListAll_BadPageFallsBackToFirst(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, "user-1")

	svc.On("ListAll", 1).Return(dto.NewPaginated([]dto.ReviewResponse{}, 1, 10, 0), nil)

	w := performJSON(router, http.MethodGet, "/api/v1/all-reviews?page=-3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListForBookPublic_NoSession(t *testing.T) {
	svc := new(MockReviewService)
	router := setupRouter()
	api := router.Group("/api/v1")
	NewReviewHandler(svc).RegisterRoutes(api, api.Group("", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}))

	svc.On("ListForBookPublic", int64(42), 1).Return(dto.NewPaginated([]dto.ReviewResponse{}, 1, 10, 0), nil)

	w := performJSON(router, http.MethodPost, "/api/v1/all-reviews/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/api/v1/all-reviews", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
