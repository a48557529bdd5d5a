// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/handler"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/middleware"
)

// Handlers groups everything the router needs to register the API.
type Handlers struct {
	Auth   *handler.AuthHandler
	Public *handler.PublicHandler
	Admin  *handler.AdminHandler
	Member *handler.MemberHandler
	Hostel *handler.HostelHandler

	JWTSecret string
	// Cache wraps public read endpoints; nil disables caching.
	Cache echo.MiddlewareFunc
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Public browsing, cached when a cache middleware is supplied.
	pub := e.Group("/v1")
	if h.Cache != nil {
		pub.Use(h.Cache)
	}
	pub.GET("/rooms", h.Public.ListRooms)
	pub.GET("/rooms/:id", h.Public.GetRoom)
	pub.GET("/hostel/availability", h.Public.HostelAvailability)
	pub.GET("/hostel/rooms/:id", h.Public.GetHostelRoom)

	// Session management.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	// Any authenticated user.
	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(h.JWTSecret))
	me.Use(middleware.RequireRole("ADMIN", "MEMBER"))
	me.GET("/me", h.Auth.Me)

	// Member dashboard and hostel booking.
	member := e.Group("/v1")
	member.Use(middleware.JWTAuth(h.JWTSecret))
	member.Use(middleware.RequireRole("MEMBER", "ADMIN"))
	member.GET("/me/seat", h.Member.MySeat)
	member.POST("/hostel/quote", h.Hostel.Quote)
	member.POST("/hostel/purchase", h.Hostel.Purchase)

	// Room, layout and assignment management.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(h.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/rooms", h.Admin.CreateRoom)
	admin.GET("/admin/rooms", h.Admin.ListRooms)
	admin.GET("/admin/rooms/:id", h.Admin.GetRoom)
	admin.DELETE("/rooms/:id", h.Admin.DeleteRoom)
	admin.POST("/rooms/:id/lock", h.Admin.ToggleLock)
	admin.POST("/rooms/:id/elements", h.Admin.AddElement)
	admin.PUT("/rooms/:id/elements/:eid", h.Admin.MoveElement)
	admin.DELETE("/rooms/:id/elements/:eid", h.Admin.DeleteElement)
	admin.GET("/rooms/:id/assignments", h.Admin.ListAssignments)
	admin.POST("/rooms/:id/assignments", h.Admin.Assign)
	admin.DELETE("/assignments/:id", h.Admin.Unassign)
}
