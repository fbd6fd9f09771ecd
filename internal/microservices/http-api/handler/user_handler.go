package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(_, session *gin.RouterGroup) {
	session.PUT("/follow/:id", h.ToggleFollow)

	users := session.Group("/users")
	users.GET("/:id", h.Profile)
	users.GET("/:id/followers", h.Followers)
	users.GET("/:id/following", h.Following)

	session.POST("/profile", h.Me)
	session.PUT("/profile_edit", h.UpdateProfile)

	session.GET("/my_books", h.MyBooks)
	session.PUT("/my_books/:book_id", h.SetBookStatus)
	session.DELETE("/my_books/:book_id", h.RemoveBook)
	session.GET("/my_quotes", h.MyQuotes)
}

// Profile is the public user summary, is_followed relative to the caller
// GET /api/v1/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	info, err := h.userService.Profile(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ToggleFollow follows or unfollows another user
// PUT /api/v1/follow/:id
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	resp, err := h.userService.ToggleFollow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Followers lists the users following :id
// GET /api/v1/users/:id/followers?page=1
func (h *UserHandler) Followers(c *gin.Context) {
	page, err := h.userService.Followers(c.Request.Context(), currentUserID(c), c.Param("id"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Following lists the users :id follows
// GET /api/v1/users/:id/following?page=1
func (h *UserHandler) Following(c *gin.Context) {
	page, err := h.userService.Following(c.Request.Context(), currentUserID(c), c.Param("id"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Me returns the caller's own profile
// POST /api/v1/profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := h.userService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile changes name, bio or profile picture
// PUT /api/v1/profile_edit
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileDTO
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// MyBooks lists the caller's shelf
// GET /api/v1/my_books
func (h *UserHandler) MyBooks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	shelf, err := h.userService.MyBooks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shelf)
}

// SetBookStatus puts a book on the caller's shelf or changes its status
// PUT /api/v1/my_books/:book_id
func (h *UserHandler) SetBookStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	bookID, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	var req dto.SetShelfStatusDTO
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.SetBookStatus(c.Request.Context(), userID, bookID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Book status updated"})
}

// RemoveBook takes a book off the caller's shelf
// DELETE /api/v1/my_books/:book_id
func (h *UserHandler) RemoveBook(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	bookID, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	if err := h.userService.RemoveBook(c.Request.Context(), userID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Book removed from shelf"})
}

// MyQuotes lists the quotes the caller liked
// GET /api/v1/my_quotes
func (h *UserHandler) MyQuotes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	quotes, err := h.userService.MyQuotes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}
