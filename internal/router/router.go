// Package router wires HTTP routes to handlers and middleware chains.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/handler"
	"github.com/ravelor/dealer-inventory/internal/middleware"
	"github.com/ravelor/dealer-inventory/internal/model"
)

// RegisterRoutes registers routes that need no dependencies. Currently only
// the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAccount registers registration, login and profile routes under
// /account. ResolveIdentity is assumed to be installed globally; only the
// login gate is applied here.
func RegisterAccount(e *echo.Echo, a *handler.AccountHandler, notices *flash.Store) {
	g := e.Group("/account")
	g.GET("/login", a.LoginForm)
	g.POST("/login", a.Login)
	g.GET("/register", a.RegisterForm)
	g.POST("/register", a.Register)
	g.GET("/logout", a.Logout)

	// everything below requires a live session
	auth := g.Group("", middleware.RequireLogin(notices))
	auth.GET("/", a.Management)
	auth.POST("/update", a.Update)
	auth.POST("/password", a.UpdatePassword)
}

// RegisterInventory registers the public browsing routes (optionally
// cached) and the role-gated management and moderation routes under /inv.
// Inventory management admits admins and employees; the pending-review
// workflow admits admins only.
func RegisterInventory(e *echo.Echo, inv *handler.InventoryHandler, mod *handler.ModerationHandler, notices *flash.Store, cache echo.MiddlewareFunc) {
	g := e.Group("/inv")

	public := g.Group("")
	if cache != nil {
		public.Use(cache)
	}
	public.GET("/classifications", inv.ListClassifications)
	public.GET("/type/:classificationId", inv.ListByClassification)
	public.GET("/detail/:invId", inv.Detail)

	staff := g.Group("", middleware.RequireRole(notices, model.RoleAdmin, model.RoleEmployee))
	staff.GET("/", inv.Management)
	staff.POST("/new/classification", inv.CreateClassification)
	staff.POST("/new/inventory", inv.Create)
	staff.POST("/update", inv.Update)
	staff.POST("/delete", inv.Delete)

	admin := g.Group("", middleware.RequireRole(notices, model.RoleAdmin))
	admin.GET("/pending", mod.Pending)
	admin.POST("/inventory/:action", mod.ResolveInventory)
	admin.POST("/classification/:action", mod.ResolveClassification)
}
