package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/myspendr/cmd/docs"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/SscSPs/myspendr/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes. A nil limiter disables rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) error {
	if err := registerValidators(); err != nil {
		return err
	}

	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	var limited []gin.HandlerFunc
	if limiterInstance != nil {
		limited = append(limited, middleware.RateLimit(limiterInstance))
	}

	// Telegram authenticates with its own secret header, not a bearer token.
	RegisterTelegramWebhook(r.Group("", limited...), services.Intake, services.ChatAck, cfg.TelegramWebhookSecret)

	setupAPIV1Routes(r, cfg, services, limited)

	setupSwaggerRoutes(r, cfg)
	return nil
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return dto.RegisterValidators(v)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limited []gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", append(limited, middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))...)

	RegisterCapitalRoutes(v1, services.Capital, services.Ledger)
	RegisterMovementRoutes(v1, services.Ledger, services.Movement)
	RegisterBudgetRoutes(v1, services.Budget)
	RegisterChatLinkRoutes(v1, services.ChatLink)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
