package user

import (
	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", rbac.Authorize(rbacService, "user", "read"), h.GetAll)
		users.GET("/:id", rbac.Authorize(rbacService, "user", "read"), h.GetByID)
		users.POST("", rbac.Authorize(rbacService, "user", "create"), h.Create)
		users.PUT("/:id", rbac.Authorize(rbacService, "user", "update"), h.Update)
		users.DELETE("/:id", rbac.Authorize(rbacService, "user", "delete"), h.Delete)
	}
}
