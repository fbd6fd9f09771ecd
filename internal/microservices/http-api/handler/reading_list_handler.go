package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReadingListHandler struct {
	listService service.ReadingListService
}

func NewReadingListHandler(listService service.ReadingListService) *ReadingListHandler {
	return &ReadingListHandler{listService: listService}
}

func (h *ReadingListHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.GET("/reading-lists/featured", h.ListFeatured)

	session.GET("/users/:id/reading-lists", h.ListPublicByUser)

	lists := session.Group("/reading-lists")
	lists.GET("", h.ListMine)
	lists.POST("", h.Create)
	lists.GET("/:id", h.Get)
	lists.PUT("/:id", h.Update)
	lists.DELETE("/:id", h.Delete)
	lists.POST("/:id/books", h.AddBook)
	lists.DELETE("/:id/books/:book_id", h.RemoveBook)
}

// Create makes a reading list owned by the caller
// POST /api/v1/reading-lists
func (h *ReadingListHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateReadingListDTO
	if !bindJSON(c, &req) {
		return
	}
	list, err := h.listService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// Get shows a public list, or a private one to its owner
// GET /api/v1/reading-lists/:id
func (h *ReadingListHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.listService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMine pages through the caller's lists, private ones included
// GET /api/v1/reading-lists?page=1
func (h *ReadingListHandler) ListMine(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, err := h.listService.ListMine(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListPublicByUser returns another user's public lists
// GET /api/v1/users/:id/reading-lists?page=1
func (h *ReadingListHandler) ListPublicByUser(c *gin.Context) {
	page, err := h.listService.ListPublicByUser(c.Request.Context(), c.Param("id"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListFeatured returns the public lists an admin featured
// GET /api/v1/reading-lists/featured
func (h *ReadingListHandler) ListFeatured(c *gin.Context) {
	page, err := h.listService.ListFeatured(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Update edits the caller's list
// PUT /api/v1/reading-lists/:id
func (h *ReadingListHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReadingListDTO
	if !bindJSON(c, &req) {
		return
	}
	list, err := h.listService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Delete removes the caller's list
// DELETE /api/v1/reading-lists/:id
func (h *ReadingListHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.listService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Reading list deleted successfully"})
}

// AddBook appends a book to the caller's list
// POST /api/v1/reading-lists/:id/books
func (h *ReadingListHandler) AddBook(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddBookToListDTO
	if !bindJSON(c, &req) {
		return
	}
	list, err := h.listService.AddBook(c.Request.Context(), userID, id, req.BookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveBook takes a book off the caller's list
// DELETE /api/v1/reading-lists/:id/books/:book_id
func (h *ReadingListHandler) RemoveBook(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	list, err := h.listService.RemoveBook(c.Request.Context(), userID, id, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
