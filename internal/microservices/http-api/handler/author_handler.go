package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	authorService service.AuthorService
}

func NewAuthorHandler(authorService service.AuthorService) *AuthorHandler {
	return &AuthorHandler{authorService: authorService}
}

func (h *AuthorHandler) RegisterRoutes(_, session *gin.RouterGroup) {
	authors := session.Group("/authors")
	authors.GET("", h.List)
	authors.GET("/search", h.Search)
	authors.GET("/:id", h.Get)
	authors.PUT("/:id/follow", h.ToggleFollow)
	authors.GET("/:id/following-status", h.FollowingStatus)
}

// List pages through authors
// GET /api/v1/authors?page=1
func (h *AuthorHandler) List(c *gin.Context) {
	page, err := h.authorService.List(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search matches author names; a blank query yields []
// GET /api/v1/authors/search?query=...
func (h *AuthorHandler) Search(c *gin.Context) {
	authors, err := h.authorService.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

// Get returns an author with their books and quotes
// GET /api/v1/authors/:id
func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	author, err := h.authorService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// ToggleFollow follows or unfollows an author
// PUT /api/v1/authors/:id/follow
func (h *AuthorHandler) ToggleFollow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.authorService.ToggleFollow(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FollowingStatus reports whether the caller follows the author
// GET /api/v1/authors/:id/following-status
func (h *AuthorHandler) FollowingStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	following, err := h.authorService.IsFollowing(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FollowingStatusResponse{IsFollowing: following})
}
