package auth

import (
	"time"

	"fieldwatch/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		loginLimiter := middleware.RateLimitByIP(rate.Every(time.Second), 5)
		authGroup.POST("/register", loginLimiter, h.Register)
		authGroup.POST("/login", loginLimiter, h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}
