package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/handler"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/interfaces/http/middleware"
)

type Handlers struct {
	Cars   *handler.CarHandler
	Orders *handler.OrderHandler
	Users  *handler.UserHandler
	Audit  *handler.AuditHandler
}

// RegisterRoutes wires the public endpoints and the authenticated API group.
func RegisterRoutes(r *gin.Engine, jwtSecret string, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/register", h.Users.Register)

	api := r.Group("/api", middleware.Auth(jwtSecret))
	{
		api.GET("/cars", h.Cars.List)
		api.POST("/cars", h.Cars.Create)
		api.GET("/cars/:id", h.Cars.Get)
		api.PUT("/cars/:id/state", h.Cars.ChangeState)
		api.DELETE("/cars/:id", h.Cars.Delete)

		api.GET("/orders", h.Orders.List)
		api.POST("/orders", h.Orders.Create)
		api.GET("/orders/:id", h.Orders.Get)
		api.POST("/orders/:id/complete", h.Orders.Complete)
		api.POST("/orders/:id/cancel", h.Orders.Cancel)
		api.POST("/orders/:id/progress", h.Orders.SetInProgress)

		api.GET("/users", h.Users.List)
		api.GET("/users/:id", h.Users.Get)
		api.PUT("/users/:id/role", h.Users.ChangeRole)
		api.DELETE("/users/:id", h.Users.Delete)

		api.GET("/audit", h.Audit.List)
		api.GET("/audit/export", h.Audit.Export)
	}
}
