package handler

import (
	"net/http"

	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService service.QuoteService
}

func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (h *QuoteHandler) RegisterRoutes(_, session *gin.RouterGroup) {
	session.GET("/quotes", h.List)
	session.GET("/quotes/:id", h.Get)
	session.PUT("/quotes/:id/like", h.ToggleLike)
	session.GET("/searchQuotes", h.Search)
}

// List pages through quotes with the caller's like state
// GET /api/v1/quotes?page=1
func (h *QuoteHandler) List(c *gin.Context) {
	page, err := h.quoteService.List(c.Request.Context(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns a quote with its author
// GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Search matches quote text
// GET /api/v1/searchQuotes?query=...
func (h *QuoteHandler) Search(c *gin.Context) {
	quotes, err := h.quoteService.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// ToggleLike likes or unlikes a quote
// PUT /api/v1/quotes/:id/like
func (h *QuoteHandler) ToggleLike(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.quoteService.ToggleLike(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
