// Package routes handles the setup and configuration of API routes
package routes

import (
	"strings"

	_ "financialproducts/docs" // Import swagger docs
	"financialproducts/internal/api/handlers"
	"financialproducts/internal/api/middleware"
	"financialproducts/internal/config"
	"financialproducts/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// SetupRoutes configures all API routes and their handlers.
// A nil runner leaves the on-demand review route unmounted.
// The returned cleanup stops background work and must be called once the engine is no longer served.
func SetupRoutes(cfg *config.Config, repo repository.ProductRepository, runner handlers.ReviewRunner, logger *zap.Logger) (*gin.Engine, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.API.CORSOrigin))

	compression := middleware.DefaultCompressionConfig()
	compression.Logger = logger
	r.Use(middleware.Compression(compression))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health checks bypass the limiter
	limiter := middleware.NewRateLimiter(cfg.RateLimit, logger, healthPath(cfg.API.BasePath))
	r.Use(limiter.Middleware())

	backend := cfg.Storage
	if cfg.Redis.Enabled() {
		backend += "+redis"
	}

	healthHandler := handlers.NewHealthHandler(repo, backend)
	productHandler := handlers.NewProductHandler(repo, logger)

	base := r.Group(cfg.API.BasePath)
	{
		base.GET("/health", healthHandler.Health)

		products := base.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/verification/:id", productHandler.VerifyIdentifier)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		if runner != nil {
			reviewHandler := handlers.NewReviewHandler(runner)
			base.POST("/reviews/run", reviewHandler.RunReview)
		}
	}

	return r, limiter.Stop
}

func healthPath(basePath string) string {
	return strings.TrimRight(basePath, "/") + "/health"
}
