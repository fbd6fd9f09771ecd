package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes mounts the review comment thread and the author's own comment routes
func (h *CommentHandler) RegisterRoutes(_, session *gin.RouterGroup) {
	session.GET("/reviews/:id/comments", h.ListForReview)
	session.POST("/reviews/:id/comments", h.Create)

	comments := session.Group("/comments")
	comments.GET("", h.ListMine)
	comments.GET("/:id", h.Get)
	comments.PUT("/:id", h.Update)
	comments.DELETE("/:id", h.Delete)
}

// Create posts a comment on a review; it is pending until an admin approves it
// POST /api/v1/reviews/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCommentDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListForReview returns the approved thread plus the caller's pending comments
// GET /api/v1/reviews/:id/comments?page=1
func (h *CommentHandler) ListForReview(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, err := h.commentService.ListForReview(c.Request.Context(), currentUserID(c), reviewID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListMine returns the caller's comments, pending ones included
// GET /api/v1/comments?page=1
func (h *CommentHandler) ListMine(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, err := h.commentService.ListMine(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns one comment; pending comments are visible to their author only
// GET /api/v1/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	comment, err := h.commentService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update edits the caller's own comment
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCommentDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes the caller's own comment
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
