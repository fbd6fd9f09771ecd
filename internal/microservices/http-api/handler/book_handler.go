package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

func (h *BookHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.GET("/books", h.List)
	public.GET("/books/:id", h.Get)
	public.POST("/trending_books", h.Trending)
	public.POST("/suggestions", h.Suggestions)

	session.GET("/searchBooks", h.Search)
	session.GET("/categories/:id/books", h.ListByCategory)
}

// List pages through the catalogue
// GET /api/v1/books?page=1
func (h *BookHandler) List(c *gin.Context) {
	page, err := h.bookService.List(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns a book with its author and categories
// GET /api/v1/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	book, err := h.bookService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// Search matches title or author name; a blank query yields []
// GET /api/v1/searchBooks?query=...
func (h *BookHandler) Search(c *gin.Context) {
	books, err := h.bookService.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Trending returns the six books with the most ratings
// POST /api/v1/trending_books
func (h *BookHandler) Trending(c *gin.Context) {
	books, err := h.bookService.Trending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Suggestions returns six random books
// POST /api/v1/suggestions
func (h *BookHandler) Suggestions(c *gin.Context) {
	books, err := h.bookService.Suggestions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// ListByCategory pages through the books tagged with a category
// GET /api/v1/categories/:id/books?page=1
func (h *BookHandler) ListByCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, err := h.bookService.ListByCategory(c.Request.Context(), id, pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
