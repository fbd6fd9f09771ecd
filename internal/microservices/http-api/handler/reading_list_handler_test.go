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

type MockReadingListService struct {
	mock.Mock
}

func (m *MockReadingListService) list(args mock.Arguments) (*dto.ReadingListResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReadingListResponse), args.Error(1)
}

func (m *MockReadingListService) page(args mock.Arguments) (*dto.Paginated[dto.ReadingListResponse], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReadingListResponse]), args.Error(1)
}

func (m *MockReadingListService) Create(ctx context.Context, userID string, req dto.CreateReadingListDTO) (*dto.ReadingListResponse, error) {
	return m.list(m.Called(userID, req))
}

func (m *MockReadingListService) Get(ctx context.Context, viewerID string, id int64) (*dto.ReadingListResponse, error) {
	return m.list(m.Called(viewerID, id))
}

func (m *MockReadingListService) ListMine(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReadingListResponse], error) {
	return m.page(m.Called(userID, page))
}

func (m *MockReadingListService) ListPublicByUser(ctx context.Context, userID string, page int) (*dto.Paginated[dto.ReadingListResponse], error) {
	return m.page(m.Called(userID, page))
}

func (m *MockReadingListService) ListFeatured(ctx context.Context, page int) (*dto.Paginated[dto.ReadingListResponse], error) {
	return m.page(m.Called(page))
}

func (m *MockReadingListService) Update(ctx context.Context, userID string, id int64, req dto.UpdateReadingListDTO) (*dto.ReadingListResponse, error) {
	return m.list(m.Called(userID, id, req))
}

func (m *MockReadingListService) Delete(ctx context.Context, userID string, id int64) error {
	return m.Called(userID, id).Error(0)
}

func (m *MockReadingListService) AddBook(ctx context.Context, userID string, id, bookID int64) (*dto.ReadingListResponse, error) {
	return m.list(m.Called(userID, id, bookID))
}

func (m *MockReadingListService) RemoveBook(ctx context.Context, userID string, id, bookID int64) (*dto.ReadingListResponse, error) {
	return m.list(m.Called(userID, id, bookID))
}

func newReadingListRouter(svc *MockReadingListService, userID string) *gin.Engine {
	router := setupRouter()
	api := router.Group("/api/v1")
	NewReadingListHandler(svc).RegisterRoutes(api, api.Group("", asUser(userID)))
	return router
}

func TestCreateReadingList(t *testing.T) {
	svc := new(MockReadingListService)
	router := newReadingListRouter(svc, "me")

	req := dto.CreateReadingListDTO{Name: "Summer", IsPublic: true}
	svc.On("Create", "me", req).Return(&dto.ReadingListResponse{ID: 1, Name: "Summer", IsPublic: true}, nil)

	w := performJSON(router, http.MethodPost, "/api/v1/reading-lists", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateReadingList_MissingName(t *testing.T) {
	svc := new(MockReadingListService)
	router := newReadingListRouter(svc, "me")

	w := performJSON(router, http.MethodPost, "/api/v1/reading-lists", map[string]any{"is_public": true})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"is required"`)
}

func TestAddBookToList_Duplicate(t *testing.T) {
	svc := new(MockReadingListService)
	router := newReadingListRouter(svc, "me")

	svc.On("AddBook", "me", int64(1), int64(42)).Return(nil, service.ErrBookAlreadyInList)

	w := performJSON(router, http.MethodPost, "/api/v1/reading-lists/1/books", dto.AddBookToListDTO{BookID: 42})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemoveBookFromList_NotOwner(t *testing.T) {
	svc := new(MockReadingListService)
	router := newReadingListRouter(svc, "intruder")

	svc.On("RemoveBook", "intruder", int64(1), int64(42)).Return(nil, service.ErrNotOwner)

	w := performJSON(router, http.MethodDelete, "/api/v1/reading-lists/1/books/42", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeaturedAndByIDRoutesCoexist(t *testing.T) {
	svc := new(MockReadingListService)
	router := newReadingListRouter(svc, "me")

	svc.On("ListFeatured", 1).Return(dto.NewPaginated([]dto.ReadingListResponse{}, 1, 10, 0), nil)
	svc.On("Get", "me", int64(9)).Return(&dto.ReadingListResponse{ID: 9}, nil)

	assert.Equal(t, http.StatusOK, performJSON(router, http.MethodGet, "/api/v1/reading-lists/featured", nil).Code)
	assert.Equal(t, http.StatusOK, performJSON(router, http.MethodGet, "/api/v1/reading-lists/9", nil).Code)
	svc.AssertExpectations(t)
}
