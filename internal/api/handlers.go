package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/realtime"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// Services are the collaborators the handlers call.
type Services struct {
	Auth        service.IAuthService
	Profile     service.IProfileService
	Onboarding  service.IOnboardingService
	Meals       service.IMealService
	Foods       service.IFoodService
	Templates   service.ITemplateService
	Water       service.IWaterService
	Supplements service.ISupplementService
	Progress    service.IProgressService
	Dashboard   service.IDashboardService
}

// Limiters are the optional Redis rate limiters. Nil limiters let every
// request through.
type Limiters struct {
	Auth       *middleware.RateLimiter
	FoodSearch *middleware.RateLimiter
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheck returns the health status of the API. With a pinger the
// database is checked too.
func HealthCheck(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "database unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Nutriplan API is running",
			"version": "v1.0.0",
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svcs Services, limiters Limiters, hub *realtime.Hub, origins []string, db Pinger) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(db))
	router.GET("/api/health", HealthCheck(db))

	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svcs.Auth))

	NewAuthHandler(svcs.Auth, limiters.Auth).RegisterRoutes(v1, protected)
	NewProfileHandler(svcs.Profile, svcs.Onboarding).RegisterRoutes(protected)
	NewMealHandler(svcs.Meals).RegisterRoutes(protected)
	NewFoodHandler(svcs.Foods, limiters.FoodSearch).RegisterRoutes(protected)
	NewTemplateHandler(svcs.Templates).RegisterRoutes(protected)
	NewLogHandler(svcs.Water, svcs.Supplements).RegisterRoutes(protected)
	NewProgressHandler(svcs.Progress).RegisterRoutes(protected)
	NewDashboardHandler(svcs.Dashboard).RegisterRoutes(protected)

	if hub != nil {
		NewRealtimeHandler(hub, origins).RegisterRoutes(protected)
	}

	if limiters.FoodSearch != nil {
		RegisterRateLimitRoutes(protected, limiters.FoodSearch)
	}
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, foodSearchLimiter *middleware.RateLimiter) {
	router.GET("/rate-limits/food-search", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		remaining, resetTime, err := foodSearchLimiter.GetRemainingRequests(c.Request.Context(), userID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"limit":      foodSearchLimiter.Limit(),
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     "1m",
		})
	})
}
