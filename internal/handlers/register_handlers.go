package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SscSPs/finance_tracker/cmd/docs"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/pkg/config"
)

// SchedulerStatus reports whether the background engine loop is running.
type SchedulerStatus interface {
	IsRunning() bool
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	scheduler SchedulerStatus,
) {
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "OK"}
		if scheduler != nil {
			body["scheduler"] = scheduler.IsRunning()
		}
		c.JSON(http.StatusOK, body)
	})

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	RegisterWalletRoutes(v1, services.Wallet)
	RegisterTransactionRoutes(v1, services.Transaction, services.Transfer)
	RegisterRecurringRoutes(v1, services.Recurring)
	RegisterReminderRoutes(v1, services.Reminder)
	RegisterNotificationRoutes(v1, services.Notification)
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
