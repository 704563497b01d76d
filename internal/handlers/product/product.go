package product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sodaclub_back_end/internal/catalog"
	"sodaclub_back_end/internal/models"
)

// Handler expose le catalogue : lectures publiques, CRUD réservé admin.
type Handler struct {
	Store *catalog.Store
}

func NewHandler(store *catalog.Store) *Handler {
	return &Handler{Store: store}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return 0, false
	}
	return id, true
}

//
// 🛍️ GET /api/products — produits actifs, plus récents d'abord
//
func (h *Handler) List(c *gin.Context) {
	products, err := h.Store.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	c.JSON(http.StatusOK, products)
}

//
// 🔎 GET /api/products/:id
//
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit non trouvé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	if !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit non trouvé"})
		return
	}

	c.JSON(http.StatusOK, p)
}

//
// 🔍 GET /api/search?q=
//
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Terme de recherche vide"})
		return
	}

	results, err := h.Store.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erreur lors de la recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
		"count":   len(results),
	})
}

type productInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Stock       int      `json:"stock"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

func (in *productInput) validate() string {
	if in.Price <= 0 {
		return "Le prix doit être positif"
	}
	if in.Stock < 0 {
		return "Le stock ne peut pas être négatif"
	}
	return ""
}

//
// ➕ POST /api/admin/products
//
func (h *Handler) Create(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
		Tags:        tags,
		IsActive:    active,
	}

	if err := h.Store.CreateProduct(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

//
// ✏️ PUT /api/admin/products/:id
//
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	existing, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit non trouvé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.Image = in.Image
	if in.Tags != nil {
		existing.Tags = in.Tags
	}
	if in.IsActive != nil {
		existing.IsActive = *in.IsActive
	}

	if err := h.Store.UpdateProduct(c.Request.Context(), existing); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit non trouvé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	c.JSON(http.StatusOK, existing)
}

//
// ❌ DELETE /api/admin/products/:id
//
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit non trouvé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}
