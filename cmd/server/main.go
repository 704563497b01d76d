package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sodaclub_back_end/internal/cart"
	"sodaclub_back_end/internal/catalog"
	"sodaclub_back_end/internal/config"
	"sodaclub_back_end/internal/database"
	"sodaclub_back_end/internal/handlers"
	"sodaclub_back_end/internal/handlers/product"
	"sodaclub_back_end/internal/order"
	"sodaclub_back_end/internal/routes"
	"sodaclub_back_end/internal/services"
	"sodaclub_back_end/internal/session"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.Close()

	if err := database.InitSchema(context.Background()); err != nil {
		log.Fatal("❌ Erreur initialisation schéma:", err)
	}

	session.Init(os.Getenv("SESSION_SECRET"))

	// File entrepôt optionnelle
	var warehouse *services.WarehousePublisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		var err error
		warehouse, err = services.NewWarehousePublisher(url, config.Getenv("AMQP_QUEUE", "stock_movements"))
		if err != nil {
			log.Println("⚠️ RabbitMQ injoignable, événements entrepôt désactivés:", err)
		} else {
			defer warehouse.Close()
		}
	}

	catalogStore := catalog.NewStore(database.DB, database.Redis)
	cartStore := cart.NewRedisStore(database.Redis)
	cartManager := cart.NewManager(cartStore, catalogStore)
	processor := order.NewProcessor(database.DB, cartStore, catalogStore, warehouse)

	// Pré-remplir l'index de recherche
	if database.Elastic != nil {
		go catalogStore.ReindexAll(context.Background())
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	routes.RegisterRoutes(r, &routes.Deps{
		Cart:     handlers.NewCartHandler(cartManager),
		Order:    handlers.NewOrderHandler(processor),
		Contact:  handlers.NewContactHandler(database.DB),
		Products: product.NewHandler(catalogStore),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Soda Club lancé sur le port", port)
	r.Run(":" + port)
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()

	// Le panier est lié à la session : il faut les cookies, donc des
	// origines explicites plutôt que le wildcard.
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	cfg.AllowOrigins = strings.Split(origins, ",")
	cfg.AllowCredentials = true

	return cors.New(cfg)
}
