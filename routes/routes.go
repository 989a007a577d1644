package routes

import (
	"catalog-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all application routes onto the engine.
func RegisterRoutes(r *gin.Engine, products *controllers.ProductController, auth *controllers.AuthController, requireAuth, rateLimit gin.HandlerFunc) {
	api := r.Group("/api")

	productRoutes := api.Group("/products")
	{
		productRoutes.GET("", products.GetProducts)
		productRoutes.GET("/images/:imageName", products.GetProductImage)
		productRoutes.GET("/:id", products.GetProductByID)
		productRoutes.GET("/:id/image", products.GetProductImageByID)
		productRoutes.POST("", products.CreateProduct)
		productRoutes.PUT("/:id", products.UpdateProduct)
		productRoutes.DELETE("/:id", products.DeleteProduct)
	}

	authRoutes := api.Group("/auth")
	authRoutes.Use(rateLimit)
	{
		authRoutes.POST("/register", auth.Register)
		authRoutes.POST("/login", auth.Login)
		authRoutes.POST("/refresh", auth.Refresh)
		authRoutes.POST("/logout", auth.Logout)
		authRoutes.GET("/me", requireAuth, auth.Me)
	}
}
