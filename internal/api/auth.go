package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// AuthHandler handles account registration and sign-in.
type AuthHandler struct {
	authService service.IAuthService
	limiter     *middleware.RateLimiter
}

// NewAuthHandler creates an AuthHandler. limiter may be nil.
func NewAuthHandler(authService service.IAuthService, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterRoutes registers the public auth routes and the authenticated /me.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	auth := public.Group("/auth")
	auth.Use(h.limiter.RateLimitMiddleware())
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	protected.GET("/auth/me", h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the signed-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
