package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.POST("/all-reviews/:book_id", h.ListForBookPublic)

	session.POST("/books/reviews/:book_id", h.ListForBook)
	session.GET("/all-reviews", h.ListAll)

	reviews := session.Group("/reviews")
	reviews.GET("", h.ListMine)
	reviews.POST("", h.Create)
	reviews.GET("/:id", h.Get)
	reviews.PUT("/:id", h.Update)
	reviews.DELETE("/:id", h.Delete)
	reviews.PUT("/:id/like", h.ToggleLike)
}

// Create posts the caller's review of a book
// POST /api/v1/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateReviewDTO
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewMutationResponse{Message: "Review created successfully", Review: *review})
}

// Get returns one review with its reviewer and book
// GET /api/v1/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	review, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// ListMine returns the caller's reviews, newest first
// GET /api/v1/reviews?page=1
func (h *ReviewHandler) ListMine(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, err := h.reviewService.ListMine(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Update edits the caller's own review
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewDTO
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewMutationResponse{Message: "Review updated successfully", Review: *review})
}

// Delete removes the caller's own review
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review deleted successfully"})
}

// ToggleLike likes or unlikes a review
// PUT /api/v1/reviews/:id/like
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reviewService.ToggleLike(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListForBook returns the review page for a book with the viewer's like state
// POST /api/v1/books/reviews/:book_id?page=1
func (h *ReviewHandler) ListForBook(c *gin.Context) {
	bookID, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	resp, err := h.reviewService.ListForBook(c.Request.Context(), currentUserID(c), bookID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListForBookPublic is the review page for visitors without a session
// POST /api/v1/all-reviews/:book_id?page=1
func (h *ReviewHandler) ListForBookPublic(c *gin.Context) {
	bookID, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	page, err := h.reviewService.ListForBookPublic(c.Request.Context(), bookID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListAll is the global review feed, newest first
// GET /api/v1/all-reviews?page=1
func (h *ReviewHandler) ListAll(c *gin.Context) {
	page, err := h.reviewService.ListAll(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
