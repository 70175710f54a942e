package guard

import (
	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	guards := r.Group("/guards")
	guards.Use(middleware.AuthMiddleware())
	{
		guards.GET("", rbac.Authorize(rbacService, "guard", "read"), h.GetAll)
		guards.GET("/options", rbac.Authorize(rbacService, "guard", "read"), h.GetOptions)
		guards.GET("/:id", rbac.Authorize(rbacService, "guard", "read"), h.GetByID)
		guards.POST("", rbac.Authorize(rbacService, "guard", "create"), h.Create)
		guards.PUT("/:id", rbac.Authorize(rbacService, "guard", "update"), h.Update)
		guards.DELETE("/:id", rbac.Authorize(rbacService, "guard", "delete"), h.Delete)
	}
}
