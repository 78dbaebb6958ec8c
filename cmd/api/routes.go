package main

import (
	"devsecops-platform/internal/httpapi"
	"devsecops-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal
// modules; authorization is declared here, next to the route it protects.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/login", h.Login)

	// Mailing list management is public: subscribing to notifications does
	// not require an account.
	r.POST("/subscribe", h.Subscribe)
	r.POST("/unsubscribe", h.Unsubscribe)

	// protected API group
	v1 := r.Group("/")
	v1.Use(authMW)
	{
		// ADMIN routes: account CRUD and the subscriber list.
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAdmin())
		{
			admin.POST("/users", h.CreateUser)
			admin.GET("/users", h.ListUsers)
			admin.PUT("/users/:id", h.UpdateUser)
			admin.DELETE("/users/:id", h.DeleteUser)
			admin.GET("/subscribers", h.ListSubscribers)
		}

		// FILE routes: any authenticated account, scoped to its own files.
		filesGroup := v1.Group("/files")
		filesGroup.Use(rbac.Require(rbac.AnyAuthenticated()))
		{
			filesGroup.POST("", h.Files.Upload)
			filesGroup.GET("", h.Files.List)
			filesGroup.GET("/:id", h.Files.Download)
			filesGroup.DELETE("/:id", h.Files.Delete)
		}
	}
}
