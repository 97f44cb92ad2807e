package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/realtime"
)

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, svcs api.Services, limiters api.Limiters, hub *realtime.Hub, db api.Pinger) *gin.Engine {
	if config.ReleaseMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	api.RegisterRoutes(router, svcs, limiters, hub, cfg.CORSOrigins, db)
	return router
}
