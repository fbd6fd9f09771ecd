package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	registry *Registry
	store    *Store
	logger   *slog.Logger
}

// NewHandler serves the registry's resources from db. cache may be nil.
func NewHandler(db *gorm.DB, cache *repository.BookCache, registry *Registry, logger *slog.Logger) *Handler {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{registry: registry, store: NewStore(db, cache, logger), logger: logger}
}

// RegisterRoutes mounts /admin on a group that already enforces the admin role
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.GET("/resources", h.Resources)
	admin.GET("/stats/ratings", h.RatingStats)
	admin.POST("/actions/feature-reading-lists", h.FeatureReadingLists)
	admin.POST("/actions/approve-comments", h.ApproveComments)

	admin.GET("/:resource", h.List)
	admin.POST("/:resource", h.Create)
	admin.GET("/:resource/:id", h.Get)
	admin.PUT("/:resource/:id", h.Update)
	admin.DELETE("/:resource/:id", h.Delete)
}

func (h *Handler) Resources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resources": h.registry.List()})
}

func (h *Handler) resource(c *gin.Context) (*Resource, bool) {
	r, ok := h.registry.Get(c.Param("resource"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown resource"})
	}
	return r, ok
}

func (h *Handler) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fieldErrs FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fieldErrs})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("admin_request_failed", "path", c.FullPath(), "resource", c.Param("resource"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// List supports ?page, ?search, ?sort=field|-field and ?filter[field]=value
func (h *Handler) List(c *gin.Context) {
	r, ok := h.resource(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	rows, total, err := h.store.List(c.Request.Context(), r, ListParams{
		Page:    page,
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Filters: c.QueryMap("filter"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "pagination": dto.NewPagination(page, PageSize, total)})
}

func (h *Handler) Get(c *gin.Context) {
	r, ok := h.resource(c)
	if !ok {
		return
	}
	id, ok := h.id(c)
	if !ok {
		return
	}
	record, err := h.store.Get(c.Request.Context(), r, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) decode(c *gin.Context, r *Resource, creating bool) (*payload, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return nil, false
	}
	p, errs := decodePayload(r, body, creating)
	if errs != nil {
		h.fail(c, errs)
		return nil, false
	}
	return p, true
}

func (h *Handler) Create(c *gin.Context) {
	r, ok := h.resource(c)
	if !ok {
		return
	}
	p, ok := h.decode(c, r, true)
	if !ok {
		return
	}
	record, err := h.store.Create(c.Request.Context(), r, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("admin_record_created", "resource", r.Name, "admin_id", c.GetString("userID"))
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) Update(c *gin.Context) {
	r, ok := h.resource(c)
	if !ok {
		return
	}
	id, ok := h.id(c)
	if !ok {
		return
	}
	p, ok := h.decode(c, r, false)
	if !ok {
		return
	}
	record, err := h.store.Update(c.Request.Context(), r, id, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("admin_record_updated", "resource", r.Name, "id", id, "admin_id", c.GetString("userID"))
	c.JSON(http.StatusOK, record)
}

func (h *Handler) Delete(c *gin.Context) {
	r, ok := h.resource(c)
	if !ok {
		return
	}
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), r, id); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("admin_record_deleted", "resource", r.Name, "id", id, "admin_id", c.GetString("userID"))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted successfully"})
}

func (h *Handler) RatingStats(c *gin.Context) {
	stats, err := h.store.RatingStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type featureRequest struct {
	IDs      []int64 `json:"ids" binding:"required,min=1,dive,min=1"`
	Featured *bool   `json:"featured" binding:"required"`
}

func (h *Handler) FeatureReadingLists(c *gin.Context) {
	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ids and featured are required"})
		return
	}
	n, err := h.store.FeatureReadingLists(c.Request.Context(), req.IDs, *req.Featured)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("reading_lists_featured", "count", n, "featured", *req.Featured)
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

type approveRequest struct {
	IDs      []int64 `json:"ids" binding:"required,min=1,dive,min=1"`
	Approved *bool   `json:"approved"`
}

// ApproveComments moderates review comments in bulk; approved defaults to true
// POST /api/v1/admin/actions/approve-comments
func (h *Handler) ApproveComments(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ids are required"})
		return
	}
	approved := req.Approved == nil || *req.Approved
	n, err := h.store.ApproveComments(c.Request.Context(), req.IDs, approved)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("comments_moderated", "count", n, "approved", approved)
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
