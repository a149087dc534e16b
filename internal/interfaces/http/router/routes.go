package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth     *handler.AuthHandler
	Admins   *handler.AdminHandler
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Health   *handler.HealthHandler
}

// Limits bound request bodies per route group
type Limits struct {
	MaxBodySize   int64
	MaxUploadSize int64
	// AuthLimit throttles the public session endpoints; nil disables it
	AuthLimit gin.HandlerFunc
}

// PublicGroups returns the groups reachable without a session
func PublicGroups(h Handlers, limits Limits) []RouteRegistrar {
	authGroup := NewDomainGroup("auth", "/auth").Use(middleware.BodyLimit(limits.MaxBodySize))
	if limits.AuthLimit != nil {
		authGroup.Use(limits.AuthLimit)
	}
	authGroup.
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.RefreshToken)

	health := NewDomainGroup("health", "/health").
		GET("", h.Health.Health).
		GET("/live", h.Health.Live).
		GET("/ready", h.Health.Ready)

	return []RouteRegistrar{authGroup, health}
}

// ProtectedGroups returns the groups that require an admin session
func ProtectedGroups(h Handlers, limits Limits) []RouteRegistrar {
	body := middleware.BodyLimit(limits.MaxBodySize)

	session := NewDomainGroup("session", "/auth").Use(body).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser)

	admins := NewDomainGroup("admins", "/admins").Use(body).
		GET("", h.Admins.List).
		POST("", h.Admins.Add).
		DELETE("/:email", h.Admins.Remove)

	users := NewDomainGroup("users", "/users").Use(body).
		GET("", h.Users.List).
		POST("/password-reset", h.Users.SendPasswordReset).
		GET("/:id", h.Users.Get).
		PUT("/:id", h.Users.Update).
		DELETE("/:id", h.Users.Delete)

	products := NewDomainGroup("products", "/products").Use(body).
		GET("", h.Products.List).
		POST("", h.Products.Create).
		GET("/stream", h.Products.Stream).
		GET("/:id", h.Products.Get).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Delete)

	// Mounted outside products: nested body limits enforce the smaller cap
	images := NewDomainGroup("product-images", "/products/images").
		Use(middleware.BodyLimit(limits.MaxUploadSize)).
		POST("", h.Products.UploadImage)

	orders := NewDomainGroup("orders", "/orders").Use(body).
		GET("", h.Orders.List).
		GET("/stats", h.Orders.Stats).
		GET("/:id", h.Orders.Get).
		GET("/:id/tracking", h.Orders.GetTracking).
		PUT("/:id/status", h.Orders.UpdateStatus)

	return []RouteRegistrar{session, admins, users, products, images, orders}
}
