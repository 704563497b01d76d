package routes

import (
	"github.com/gin-gonic/gin"

	"sodaclub_back_end/internal/handlers"
	"sodaclub_back_end/internal/handlers/product"
	"sodaclub_back_end/internal/middleware"
)

type Deps struct {
	Cart     *handlers.CartHandler
	Order    *handlers.OrderHandler
	Contact  *handlers.ContactHandler
	Products *product.Handler
}

func RegisterRoutes(r *gin.Engine, d *Deps) {
	api := r.Group("/api", middleware.APIRateLimit())

	// Catalogue (lecture publique)
	api.GET("/products", d.Products.List)
	api.GET("/products/:id", d.Products.Get)
	api.GET("/search", d.Products.Search)

	// Panier & commande (session)
	api.POST("/cart", d.Cart.Handle)
	api.GET("/cart/ws", d.Cart.CartWebSocket)
	api.POST("/order", d.Order.Process)

	// Formulaires
	api.POST("/contact", d.Contact.Contact)
	api.POST("/newsletter", d.Contact.Newsletter)

	// Admin
	api.POST("/auth/login", handlers.AdminLogin)
	admin := api.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	admin.POST("/products", d.Products.Create)
	admin.PUT("/products/:id", d.Products.Update)
	admin.DELETE("/products/:id", d.Products.Delete)
	admin.POST("/products/:id/stock", d.Products.UpdateStock)
	admin.GET("/products/:id/movements", d.Products.StockMovements)
}
