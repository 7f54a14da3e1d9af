package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/ledger_core/cmd/docs"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// IdempotencyKeyHeader carries the client supplied key on write requests.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotentReplayedHeader is set to "true" when a write was answered from
// an earlier request with the same key.
const IdempotentReplayedHeader = "Idempotent-Replayed"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	registerValidators()

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to configure rate limiting: %w", err)
	}
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1", middleware.RateLimit(limiter))
	registerAPIV1Routes(v1, cfg, services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// registerAPIV1Routes delegates to the per-resource route registrations.
func registerAPIV1Routes(v1 *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerHomeRoutes(v1)
	registerAccountRoutes(v1, services.Account)
	registerTransactionRoutes(v1, services.Journal)
	registerReportingRoutes(v1, services.Reporting, services.Integrity)
	registerAnalyticsRoutes(v1, services.Analytics, cfg.AnalyticsTimeout)
	registerGoalRoutes(v1, services.Goal, services.Analytics)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// markReplayed sets the replay header on idempotent retries.
func markReplayed(c *gin.Context, replayed bool) {
	if replayed {
		c.Header(IdempotentReplayedHeader, "true")
	}
}
