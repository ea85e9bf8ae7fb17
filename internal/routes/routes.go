// Package routes declares the HTTP surface. Access policy is annotated per
// route here, at registration time: routes without a guard are public, the
// rest name their allowed-role set explicitly.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wintercraft/storefront/internal/auth"
	"github.com/wintercraft/storefront/internal/handlers"
	"github.com/wintercraft/storefront/internal/middleware"
	"github.com/wintercraft/storefront/internal/models"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth     *handlers.AuthHandler
	Products *handlers.ProductHandler
	Tokens   *auth.TokenManager
}

// Register mounts every endpoint under /api.
func Register(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", d.Auth.SignUp)
		authGroup.POST("/signin", d.Auth.SignIn)
		authGroup.POST("/signout", d.Auth.SignOut)
		authGroup.POST("/forgot-password", d.Auth.ForgotPassword)
		authGroup.POST("/reset-password", d.Auth.ResetPassword)
	}

	api.GET("/public/public-route", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Public route accessed by everyone"})
	})

	userGroup := api.Group("/user", middleware.RequireRoles(d.Tokens, models.RoleAdmin, models.RoleUser))
	{
		userGroup.GET("/user-route", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "User route accessed"})
		})
	}

	adminGroup := api.Group("/admin", middleware.RequireRoles(d.Tokens, models.RoleAdmin))
	{
		adminGroup.GET("/admin-route", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin route accessed"})
		})
	}

	products := api.Group("/products")
	{
		products.GET("", d.Products.List)
		products.GET("/:customId", d.Products.Get)

		adminOnly := middleware.RequireRoles(d.Tokens, models.RoleAdmin)
		products.POST("", adminOnly, d.Products.Create)
		products.PUT("/:customId", adminOnly, d.Products.Update)
		products.DELETE("/:customId", adminOnly, d.Products.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not Found"})
	})
}
