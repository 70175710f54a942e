package attendance

import (
	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	sessions := r.Group("/attendance")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("/check-in",
			rbac.Authorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.CheckIn,
		)
		sessions.POST("/check-out", rbac.Authorize(rbacService, "attendance", "create"), h.CheckOut)
		sessions.POST("/:id/force-checkout", rbac.Authorize(rbacService, "attendance", "force_checkout"), h.ForceCheckOut)
		sessions.GET("/active", rbac.Authorize(rbacService, "attendance", "read"), h.Active)
		sessions.GET("", rbac.Authorize(rbacService, "attendance", "read"), h.GetAll)
		sessions.GET("/export", rbac.Authorize(rbacService, "attendance", "export"), h.ExportCSV)
	}
}
