package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/handlers"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/middlewares"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// Deps is everything the route table needs to build its handlers.
type Deps struct {
	DB           *gorm.DB
	Auth         middlewares.AuthConfig
	SecureCookie bool
	Ledger       []ledger.Option
}

// Register wires all HTTP routes.
func Register(e *echo.Echo, d Deps) {
	dir := ledger.NewUserDirectory(d.DB)
	sink := ledger.NewNotificationSink(d.DB, ledger.ClockFrom(d.Ledger...))
	timeLedger := ledger.NewTimeLedger(d.DB, d.Ledger...)
	leaveLedger := ledger.NewLeaveLedger(d.DB, dir, sink, d.Ledger...)

	// ===== Handlers =====
	health := handlers.NewHealthHandler(d.DB)
	auth := handlers.NewAuthHandler(d.DB, dir, d.Auth, d.SecureCookie)
	att := handlers.NewAttendanceHandler(timeLedger)
	lv := handlers.NewLeaveRequestHandler(leaveLedger)
	nt := handlers.NewNotificationHandler(sink)
	ua := handlers.NewUserAccountHandler(d.DB)
	prof := handlers.NewProfileHandler(d.DB)

	// ===== Public =====
	e.GET("/health", health.Health)
	e.POST("/auth/login", auth.Login)
	e.POST("/auth/logout", auth.Logout)

	// ===== Any authenticated user =====
	authMW := middlewares.RequireAuth(d.Auth, dir)
	e.GET("/auth/me", auth.Me, authMW)
	e.PUT("/auth/profile", prof.Update, authMW)
	e.PUT("/auth/password", prof.ChangePassword, authMW)

	attendance := e.Group("/attendance", authMW)
	attendance.POST("", att.Action)
	attendance.POST("/checkin", att.CheckIn)
	attendance.POST("/checkout", att.CheckOut)
	attendance.POST("/break/start", att.StartBreak)
	attendance.POST("/break/end", att.EndBreak)
	attendance.GET("/today", att.Today)
	attendance.GET("/weekly", att.Weekly)
	attendance.GET("/summary", att.Summary)

	leave := e.Group("/leave", authMW)
	leave.GET("", lv.List)
	leave.POST("", lv.Create)
	leave.DELETE("", lv.Delete)
	leave.GET("/balance", lv.Balance)

	notifications := e.Group("/notifications", authMW)
	notifications.GET("", nt.List)
	notifications.PUT("", nt.MarkRead)
	notifications.DELETE("", nt.Delete)

	// ===== Managers and admins =====
	approver := middlewares.RequireRole(models.RoleManager, models.RoleAdmin)
	attendance.GET("/records", att.Records, approver)
	attendance.GET("/daily", att.Daily, approver)
	leave.POST("/approve", lv.Decide, approver)
	leave.GET("/team", lv.Team, approver)
	leave.GET("/pending-count", lv.PendingCount, approver)

	// ===== Admin =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole(models.RoleAdmin))
	admin.GET("/users", ua.List)
	admin.POST("/users", ua.Create)
	admin.PATCH("/users/:id", ua.Patch)
	admin.POST("/users/:id/reset-password", ua.ResetPassword)
}
