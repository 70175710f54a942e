package tracking

import (
	"time"

	"fieldwatch/internal/middleware"
	"fieldwatch/internal/rbac"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	locations := r.Group("/locations")
	locations.Use(middleware.AuthMiddleware())
	{
		// One ping every 10s per guard, small burst for flaky connections.
		locations.POST("",
			rbac.Authorize(rbacService, "location", "create"),
			middleware.RateLimitByGuard(rate.Every(10*time.Second), 5),
			h.Ingest,
		)
		locations.GET("/live", rbac.Authorize(rbacService, "location", "read"), h.Live)
		locations.GET("/:guard_id/latest", rbac.Authorize(rbacService, "location", "read"), h.Latest)
		locations.GET("/:guard_id/track", rbac.Authorize(rbacService, "location", "read"), h.Track)
	}
}
