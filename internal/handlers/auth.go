package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"sodaclub_back_end/internal/middleware"
	"sodaclub_back_end/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

//
// 🔐 POST /api/auth/login — connexion admin
//
// Les identifiants admin viennent de l'environnement : ADMIN_EMAIL et
// ADMIN_PASSWORD_HASH (Argon2id). Pas de table utilisateurs, la boutique
// n'a pas de comptes clients.
func AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminEmail == "" || adminHash == "" {
		log.Println("⚠️ ADMIN_EMAIL / ADMIN_PASSWORD_HASH non configurés")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Connexion admin désactivée"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, adminHash)
	if err != nil || !ok || req.Email != adminEmail {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	token, err := middleware.GenerateToken(req.Email, "admin")
	if err != nil {
		log.Printf("❌ Erreur génération token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
