package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/realtime"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg   *config.Config
	http  *http.Server
	db    *database.DB
	redis *redis.Client
	hub   *realtime.Hub
}

// New connects the stores, builds the services and the router. Redis and S3
// are optional: without Redis drafts live in memory and nothing is rate
// limited; without S3 photo uploads are refused.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db.Gorm, cfg.MigrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Server{cfg: cfg, db: db, hub: realtime.NewHub()}

	var drafts service.DraftStore
	var limiters api.Limiters
	if client, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("[Server] Redis unavailable, using in-memory drafts and no rate limiting: %v", err)
		drafts = service.NewMemoryDraftStore()
	} else {
		s.redis = client
		drafts = service.NewRedisDraftStore(client)
		limiters = api.Limiters{
			Auth:       middleware.NewAuthRateLimiter(client),
			FoodSearch: middleware.NewFoodSearchRateLimiter(client),
		}
	}

	var photos service.PhotoStore
	if cfg.S3Bucket != "" {
		store, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("[Server] S3 unavailable, progress photos disabled: %v", err)
		} else {
			photos = store
		}
	}

	gdb := db.Gorm
	profiles := service.NewProfileService(gdb)
	meals := service.NewMealService(gdb, s.hub)
	water := service.NewWaterService(gdb, s.hub)
	supplements := service.NewSupplementService(gdb, s.hub)
	progress := service.NewProgressService(gdb, photos)

	svcs := api.Services{
		Auth:        service.NewAuthService(gdb, cfg.JWTSecret),
		Profile:     profiles,
		Onboarding:  service.NewOnboardingService(gdb, drafts),
		Meals:       meals,
		Foods:       service.NewFoodService(gdb, service.NewFoodFactsClient(cfg.FoodFactsURL)),
		Templates:   service.NewTemplateService(gdb, meals, s.hub),
		Water:       water,
		Supplements: supplements,
		Progress:    progress,
		Dashboard:   service.NewDashboardService(profiles, meals, water, supplements, progress),
	}

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router.SetupRouter(cfg, svcs, limiters, s.hub, db),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			log.Printf("[Server] closing redis: %v", cerr)
		}
	}
	if cerr := s.db.Close(); cerr != nil {
		log.Printf("[Server] closing database: %v", cerr)
	}
	return err
}
