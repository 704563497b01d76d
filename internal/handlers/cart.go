package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sodaclub_back_end/internal/cart"
	"sodaclub_back_end/internal/catalog"
	"sodaclub_back_end/internal/session"
)

// CartHandler expose le panier de session en une seule route à actions,
// le contrat attendu par le front de la boutique.
type CartHandler struct {
	Manager *cart.Manager
}

func NewCartHandler(manager *cart.Manager) *CartHandler {
	return &CartHandler{Manager: manager}
}

type cartRequest struct {
	Action    string `json:"action"`
	ProductID int64  `json:"productId"`
	Quantity  *int   `json:"quantity"` // absent = 1, quelle que soit l'action
}

//
// 🛒 POST /api/cart — actions: add | remove | update | clear | get
//
func (h *CartHandler) Handle(c *gin.Context) {
	cartID, err := session.CartID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur session"})
		return
	}

	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	// Quantité par défaut : un zéro explicite garde son sens (retrait via
	// update), seule l'absence du champ vaut 1.
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	switch req.Action {
	case "add":
		count, err := h.Manager.AddToCart(ctx, cartID, req.ProductID, quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart_count": count})

	case "remove":
		count, err := h.Manager.RemoveFromCart(ctx, cartID, req.ProductID)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart_count": count})

	case "update":
		count, err := h.Manager.UpdateQuantity(ctx, cartID, req.ProductID, quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart_count": count})

	case "clear":
		if err := h.Manager.ClearCart(ctx, cartID); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart_count": 0})

	case "get":
		items, err := h.Manager.GetCart(ctx, cartID)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"cart":    items,
			"total":   items.Total(),
			"count":   items.Count(),
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Action non valide"})
	}
}

// respondCartError convertit les erreurs métier en {success:false, message}
// et tout le reste en erreur serveur générique.
func respondCartError(c *gin.Context, err error) {
	var stockErr *cart.StockError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Stock insuffisant pour: " + stockErr.Product,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produit non trouvé"})
	case errors.Is(err, cart.ErrNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produit non trouvé dans le panier"})
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Panier vide"})
	case errors.Is(err, cart.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Quantité invalide"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
	}
}
