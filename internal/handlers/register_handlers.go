package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/middleware"
	"github.com/gitayam/short-term-land-lord-sub001/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerPricingRoutes(v1, services.Pricing)
	registerInvoiceRoutes(v1, services.Invoice)
	registerExpenseRoutes(v1, services.Expense)
	registerReportingRoutes(v1, services.Reporting)
}
