package handler

import (
	"log/slog"
	"net/http"

	"bookrating/internal/microservices/http-api/dto"
	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts /auth. Logout needs a session, the rest do not.
func (h *AuthHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	auth := public.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.RefreshToken)

	session.POST("/auth/logout", h.RevokeToken)
}

// Register creates an account; the caller logs in afterwards
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login checks the credentials and issues an access and refresh token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken rotates both tokens: the presented refresh token is revoked
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RevokeToken logs the caller out by revoking the refresh token
// POST /api/v1/auth/logout
func (h *AuthHandler) RevokeToken(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.RevokeTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), userID, req.RefreshToken); err != nil {
		slog.Warn("token_revoke_failed", "user_id", userID, "error", err)
	}

	// always succeed so the endpoint cannot be used to probe tokens
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Refresh token revoked successfully"})
}
