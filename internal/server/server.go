package server

import (
	"fmt"
	"net/http"
	"time"

	"lexron-admin/internal/config"
	"lexron-admin/internal/database"
	"lexron-admin/internal/domain"
	custommiddleware "lexron-admin/internal/middleware"
	"lexron-admin/internal/repository"
	"lexron-admin/internal/service"
	"lexron-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// tableRoutes is satisfied by every transport.TableHandler instantiation
type tableRoutes interface {
	Name() string
	Routes() chi.Router
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	return NewServerWithStorage(cfg, logger, db, redisClient, service.NewStorageService(cfg.Storage))
}

// NewServerWithStorage builds the server around an explicit storage backend
func NewServerWithStorage(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client, storage service.StorageService) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	sqlDB := db.DB()

	userService := service.NewUserService(
		repository.NewUserRepository(sqlDB),
		repository.NewRefreshTokenRepository(sqlDB),
		cfg.JWT,
	)

	apiKey := custommiddleware.APIKeyMiddleware(cfg.Backend.PublicKey, logger)
	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.AuthRateLimit, logger)

	router.Group(func(r chi.Router) {
		r.Use(apiKey)
		transport.NewAuthHandler(userService, logger).RegisterRoutes(r, authMiddleware, rateLimit)
	})

	tables := []tableRoutes{
		transport.NewTableHandler[domain.Category](repository.NewCategoryRepository(sqlDB), transport.TableOptions[domain.Category]{
			Name: "categories",
			ID:   func(c *domain.Category) *string { return &c.ID },
		}, logger),
		transport.NewTableHandler[domain.Subcategory](repository.NewSubcategoryRepository(sqlDB), transport.TableOptions[domain.Subcategory]{
			Name: "subcategories",
			ID:   func(s *domain.Subcategory) *string { return &s.ID },
		}, logger),
		transport.NewTableHandler[domain.Brand](repository.NewBrandRepository(sqlDB), transport.TableOptions[domain.Brand]{
			Name: "brands",
			ID:   func(b *domain.Brand) *string { return &b.ID },
		}, logger),
		transport.NewTableHandler[domain.Product](repository.NewProductRepository(sqlDB), transport.TableOptions[domain.Product]{
			Name: "products",
			ID:   func(p *domain.Product) *string { return &p.ID },
		}, logger),
		transport.NewTableHandler[domain.Profile](repository.NewProfileRepository(sqlDB), transport.TableOptions[domain.Profile]{
			Name:      "profiles",
			ID:        func(p *domain.Profile) *string { return &p.ID },
			ClientIDs: true,
		}, logger),
	}

	router.Route("/rest/v1", func(r chi.Router) {
		r.Use(apiKey)
		r.Use(authMiddleware)
		r.Use(requireAdmin)
		r.Use(custommiddleware.ServerTimingMiddleware)
		for _, table := range tables {
			r.Mount("/"+table.Name(), table.Routes())
		}
	})

	transport.NewStorageHandler(storage, logger).RegisterRoutes(router, func(next http.Handler) http.Handler {
		return apiKey(authMiddleware(requireAdmin(next)))
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
