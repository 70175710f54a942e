package alert

import (
	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	alerts := r.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.GET("", rbac.Authorize(rbacService, "alert", "read"), h.GetAll)
		alerts.POST("", rbac.Authorize(rbacService, "alert", "create"), h.Create)
		alerts.POST("/:id/resolve", rbac.Authorize(rbacService, "alert", "resolve"), h.Resolve)
	}
}
