package app

import (
	"database/sql"

	"fieldwatch/internal/alert"
	"fieldwatch/internal/attendance"
	"fieldwatch/internal/auth"
	"fieldwatch/internal/guard"
	"fieldwatch/internal/organization"
	"fieldwatch/internal/rbac"
	"fieldwatch/internal/report"
	"fieldwatch/internal/shared/counter"
	"fieldwatch/internal/shift"
	"fieldwatch/internal/tracking"
	"fieldwatch/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	alertRepo := alert.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	guardRepo := guard.NewRepository(gormDB)
	orgRepo := organization.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	trackingRepo := tracking.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	alertService := alert.NewService(db, alertRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, guardRepo, shiftRepo, orgRepo, trackingRepo)
	authService := auth.NewService(db, userRepo, orgRepo)
	guardService := guard.NewService(db, guardRepo, counterRepo, rdb)
	reportService := report.NewService(reportRepo, rdb)
	shiftService := shift.NewService(db, shiftRepo)
	trackingService := tracking.NewService(trackingRepo)
	userService := user.NewService(db, userRepo)

	// --- Handlers ---
	alertHandler := alert.NewHandler(alertService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	authHandler := auth.NewHandler(authService)
	guardHandler := guard.NewHandler(guardService)
	reportHandler := report.NewHandler(reportService)
	shiftHandler := shift.NewHandler(shiftService)
	trackingHandler := tracking.NewHandler(trackingService)
	userHandler := user.NewHandler(userService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		alert.RegisterRoutes(api, alertHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		auth.RegisterRoutes(api, authHandler)
		guard.RegisterRoutes(api, guardHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		shift.RegisterRoutes(api, shiftHandler, rbacService)
		tracking.RegisterRoutes(api, trackingHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
	}

	return nil
}
