package report

import (
	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/dashboard", rbac.Authorize(rbacService, "report", "read"), h.Dashboard)
	}
}
