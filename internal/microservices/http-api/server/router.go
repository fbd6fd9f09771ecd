// Package server assembles the gin engine: repositories, services, handlers
// and middleware for the /api/v1 surface.
package server

import (
	"log/slog"
	"net/http"

	"bookrating/internal/admin"
	"bookrating/internal/config"
	"bookrating/internal/microservices/http-api/handler"
	"bookrating/internal/microservices/http-api/middleware"
	"bookrating/internal/microservices/http-api/repository"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	// Cache may be nil, caching is then skipped
	Cache  *repository.BookCache
	Logger *slog.Logger
}

// App is the wired HTTP application
type App struct {
	Engine *gin.Engine
	Auth   service.AuthService
}

type routeRegistrar interface {
	RegisterRoutes(public, session *gin.RouterGroup)
}

func New(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	db := deps.DB

	reviewRepo := repository.NewReviewRepository(db)
	bookRepo := repository.NewBookRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	userRepo := repository.NewUserRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	listRepo := repository.NewReadingListRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS(cfg.CORSOrigins))
	if cfg.PrometheusEnabled {
		engine.Use(middleware.Metrics())
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	engine.GET("/check-conn", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Error("health_check_failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	public := api.Group("")
	session := api.Group("", middleware.AuthMiddleware(authService))

	// credential endpoints are throttled per client IP
	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	handler.NewAuthHandler(authService).RegisterRoutes(public.Group("", middleware.RateLimit(limiter)), session)

	registrars := []routeRegistrar{
		handler.NewReviewHandler(service.NewReviewService(reviewRepo, bookRepo, userRepo, deps.Cache, logger)),
		handler.NewCommentHandler(service.NewCommentService(commentRepo, reviewRepo, logger)),
		handler.NewBookHandler(service.NewBookService(bookRepo, categoryRepo, deps.Cache, logger)),
		handler.NewAuthorHandler(service.NewAuthorService(authorRepo, logger)),
		handler.NewUserHandler(service.NewUserService(userRepo, bookRepo, quoteRepo, logger)),
		handler.NewQuoteHandler(service.NewQuoteService(quoteRepo, logger)),
		handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, logger)),
		handler.NewReadingListHandler(service.NewReadingListService(listRepo, bookRepo, userRepo, logger)),
	}
	for _, r := range registrars {
		r.RegisterRoutes(public, session)
	}

	adminGroup := session.Group("", middleware.RequireAdmin())
	admin.NewHandler(db, deps.Cache, admin.DefaultRegistry(), logger).RegisterRoutes(adminGroup)

	return &App{Engine: engine, Auth: authService}
}
