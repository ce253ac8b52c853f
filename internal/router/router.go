// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/deskhub/seatdesk/internal/config"
	"github.com/deskhub/seatdesk/internal/handler"
	"github.com/deskhub/seatdesk/internal/middleware"
)

// Handlers carries every handler the router needs.
type Handlers struct {
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Provision  *handler.ProvisionHandler
	Allocation *handler.AllocationHandler
	Employee   *handler.EmployeeHandler
	Log        *handler.LogHandler
}

// Register wires all routes. Unauthenticated: health check, login/refresh
// and the OA webhook. Everything else sits behind JWT auth; mutating routes
// additionally require the ADMIN role, reads accept VIEWER too. The rate
// limiter covers the whole API surface and the Redis response cache fronts
// the seat map listing.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", handler.Health)

	// Auth: login and refresh are anonymous, logout and user info need a
	// valid token.
	auth := e.Group("/api/auth", rl)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	authed := e.Group("/api/auth", rl, middleware.JWTAuth(cfg.JWTSecret))
	authed.POST("/logout", h.Auth.Logout)
	authed.GET("/user/info", h.Auth.UserInfo)

	// The OA system authenticates with a shared secret at the gateway, not
	// with a console JWT, so the webhook route carries only the limiter.
	e.POST("/api/webhook/user-change", h.Employee.Webhook, rl)

	read := []echo.MiddlewareFunc{rl, middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("ADMIN", "VIEWER")}
	write := []echo.MiddlewareFunc{rl, middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("ADMIN")}

	// Directory reads and sync.
	users := e.Group("/api/users")
	users.GET("", h.Employee.List, read...)
	users.GET("/search", h.Employee.Search, read...)
	users.GET("/:id", h.Employee.Get, read...)
	users.POST("/sync", h.Employee.Sync, write...)

	// Hierarchy management.
	venues := e.Group("/api/admin/venue/venues")
	venues.GET("", h.Admin.ListVenues, read...)
	venues.GET("/:id", h.Admin.GetVenue, read...)
	venues.POST("", h.Admin.CreateVenue, write...)
	venues.PUT("/:id", h.Admin.UpdateVenue, write...)
	venues.DELETE("/:id", h.Admin.DeleteVenue, write...)

	floors := e.Group("/api/admin/floor/floors")
	floors.GET("", h.Admin.ListFloors, read...)
	floors.GET("/:id", h.Admin.GetFloor, read...)
	floors.POST("", h.Admin.CreateFloor, write...)
	floors.PUT("/:id", h.Admin.UpdateFloor, write...)
	floors.DELETE("/:id", h.Admin.DeleteFloor, write...)

	areas := e.Group("/api/admin/area/areas")
	areas.GET("", h.Admin.ListAreas, read...)
	areas.GET("/:id", h.Admin.GetArea, read...)
	areas.POST("", h.Admin.CreateArea, write...)
	areas.PUT("/:id", h.Admin.UpdateArea, write...)
	areas.DELETE("/:id", h.Admin.DeleteArea, write...)

	// Seats: the list feeds the floor map and is cached; everything that
	// mutates state invalidates naturally via the short cache TTL.
	seats := e.Group("/api/admin/seats")
	seats.GET("", h.Admin.ListSeats, append(read, cache)...)
	seats.GET("/:id", h.Admin.GetSeat, read...)
	seats.POST("", h.Admin.CreateSeat, write...)
	seats.PUT("/:id", h.Admin.UpdateSeat, write...)
	seats.DELETE("/:id", h.Admin.DeleteSeat, write...)
	seats.POST("/generate", h.Provision.GenerateSeats, write...)

	// Occupancy transitions.
	seats.POST("/bind", h.Allocation.Bind, write...)
	seats.POST("/unbind", h.Allocation.Unbind, write...)
	seats.POST("/transfer", h.Allocation.Transfer, write...)
	seats.POST("/extra-bind", h.Allocation.BindSecondary, write...)

	// Audit trail.
	logs := e.Group("/api/admin/log/logs")
	logs.GET("", h.Log.List, read...)
	logs.GET("/statistics", h.Log.Statistics, read...)
	logs.GET("/:id", h.Log.Get, read...)
}
