package shift

import (
	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	shifts := r.Group("/shifts")
	shifts.Use(middleware.AuthMiddleware())
	{
		shifts.GET("", rbac.Authorize(rbacService, "shift", "read"), h.GetAll)
		shifts.GET("/:id", rbac.Authorize(rbacService, "shift", "read"), h.GetByID)
		shifts.POST("", rbac.Authorize(rbacService, "shift", "create"), h.Create)
		shifts.PUT("/:id", rbac.Authorize(rbacService, "shift", "update"), h.Update)
		shifts.DELETE("/:id", rbac.Authorize(rbacService, "shift", "delete"), h.Delete)
	}
}
