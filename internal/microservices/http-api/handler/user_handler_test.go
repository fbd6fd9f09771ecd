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

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(ctx context.Context, viewerID, userID string) (*dto.UserInfo, error) {
	args := m.Called(viewerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserInfo), args.Error(1)
}

func (m *MockUserService) ToggleFollow(ctx context.Context, followerID, userID string) (*dto.FollowToggleResponse, error) {
	args := m.Called(followerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FollowToggleResponse), args.Error(1)
}

func (m *MockUserService) Followers(ctx context.Context, viewerID, userID string, page int) (*dto.Paginated[dto.UserInfo], error) {
	args := m.Called(viewerID, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserInfo]), args.Error(1)
}

func (m *MockUserService) Following(ctx context.Context, viewerID, userID string, page int) (*dto.Paginated[dto.UserInfo], error) {
	args := m.Called(viewerID, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserInfo]), args.Error(1)
}

func (m *MockUserService) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileResponse), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileDTO) (*dto.ProfileResponse, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileResponse), args.Error(1)
}

func (m *MockUserService) MyBooks(ctx context.Context, userID string) ([]dto.ShelfItemResponse, error) {
	args := m.Called(userID)
	return args.Get(0).([]dto.ShelfItemResponse), args.Error(1)
}

func (m *MockUserService) SetBookStatus(ctx context.Context, userID string, bookID int64, status string) error {
	return m.Called(userID, bookID, status).Error(0)
}

func (m *MockUserService) RemoveBook(ctx context.Context, userID string, bookID int64) error {
	return m.Called(userID, bookID).Error(0)
}

func (m *MockUserService) MyQuotes(ctx context.Context, userID string) ([]dto.QuoteResponse, error) {
	args := m.Called(userID)
	return args.Get(0).([]dto.QuoteResponse), args.Error(1)
}

func newUserRouter(svc *MockUserService, userID string) *gin.Engine {
	router := setupRouter()
	api := router.Group("/api/v1")
	NewUserHandler(svc).RegisterRoutes(api, api.Group("", asUser(userID)))
	return router
}

func TestProfile_IsFollowedUsesRequestingUser(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "viewer")

	svc.On("Profile", "viewer", "author-of-reviews").Return(&dto.UserInfo{
		ID:         "author-of-reviews",
		Name:       "Ana",
		Reviews:    4,
		Followers:  2,
		IsFollowed: true,
	}, nil)

	w := performJSON(router, http.MethodGet, "/api/v1/users/author-of-reviews", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var info dto.UserInfo
	decodeBody(t, w, &info)
	assert.True(t, info.IsFollowed)
	assert.Equal(t, int64(4), info.Reviews)
	svc.AssertExpectations(t)
}

func TestToggleFollowUser_Self(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "me")

	svc.On("ToggleFollow", "me", "me").Return(nil, service.ErrCannotFollowSelf)

	w := performJSON(router, http.MethodPut, "/api/v1/follow/me", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleFollowUser_Missing(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "me")

	svc.On("ToggleFollow", "me", "ghost").Return(nil, service.ErrUserNotFound)

	w := performJSON(router, http.MethodPut, "/api/v1/follow/ghost", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowers_Paginates(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "me")

	svc.On("Followers", "me", "u2", 2).Return(dto.NewPaginated([]dto.UserInfo{{ID: "u3"}}, 2, 20, 21), nil)

	w := performJSON(router, http.MethodGet, "/api/v1/users/u2/followers?page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var page dto.Paginated[dto.UserInfo]
	decodeBody(t, w, &page)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 20, page.Pagination.PageSize)
	svc.AssertExpectations(t)
}

func TestSetBookStatus_RejectsUnknownStatus(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "me")

	w := performJSON(router, http.MethodPut, "/api/v1/my_books/3", map[string]string{"status": "abandoned"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "must be one of want_to_read, reading, read")
	svc.AssertNotCalled(t, "SetBookStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetBookStatus_Success(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "me")

	svc.On("SetBookStatus", "me", int64(3), "reading").Return(nil)

	w := performJSON(router, http.MethodPut, "/api/v1/my_books/3", dto.SetShelfStatusDTO{Status: "reading"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateProfile_InvalidPictureURL(t *testing.T) {
	svc := new(MockUserService)
	router := newUserRouter(svc, "me")

	w := performJSON(router, http.MethodPut, "/api/v1/profile_edit", map[string]string{"profile_picture": "not a url"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "profile_picture")
}
