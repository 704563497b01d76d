package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sodaclub_back_end/internal/database"
	"sodaclub_back_end/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse le panier à jour vers le navigateur à chaque
// mutation, via le pub/sub Redis alimenté par le store du panier.
func (h *CartHandler) CartWebSocket(c *gin.Context) {
	cartID, err := session.CartID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+cartID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	// Détecter la fermeture côté client
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			items, err := h.Manager.GetCart(ctx, cartID)
			if err != nil {
				continue
			}
			if err := conn.WriteJSON(map[string]interface{}{
				"type":  "cart",
				"cart":  items,
				"total": items.Total(),
				"count": items.Count(),
			}); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
