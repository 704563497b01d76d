package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sodaclub_back_end/internal/cart"
	"sodaclub_back_end/internal/order"
	"sodaclub_back_end/internal/session"
)

type OrderHandler struct {
	Processor *order.Processor
}

func NewOrderHandler(processor *order.Processor) *OrderHandler {
	return &OrderHandler{Processor: processor}
}

//
// 💰 POST /api/order — checkout du panier de la session
//
func (h *OrderHandler) Process(c *gin.Context) {
	cartID, err := session.CartID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur session"})
		return
	}

	summary, err := h.Processor.ProcessOrder(c.Request.Context(), cartID)
	if err != nil {
		if cart.IsBusinessError(err) {
			respondCartError(c, err)
		} else {
			// Panne transactionnelle : rollback déjà fait, pas de retry automatique
			log.Printf("❌ Erreur checkout panier %s: %v", cartID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors du traitement de la commande"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order": gin.H{
			"id":    summary.ID,
			"total": summary.Total,
			"items": summary.Items,
		},
	})
}
