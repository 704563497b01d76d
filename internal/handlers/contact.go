package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"sodaclub_back_end/internal/models"
	"sodaclub_back_end/internal/utils"
)

type ContactHandler struct {
	DB *sql.DB
}

func NewContactHandler(db *sql.DB) *ContactHandler {
	return &ContactHandler{DB: db}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

//
// ✉️ POST /api/contact
//
func (h *ContactHandler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if len(req.Name) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Veuillez saisir un nom valide (2 caractères minimum)"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Veuillez saisir un e-mail valide"})
		return
	}
	if len(req.Message) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Veuillez écrire un message plus détaillé (10 caractères minimum)"})
		return
	}

	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	err := h.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		msg.Name, msg.Email, msg.Subject, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		log.Printf("❌ Erreur enregistrement message contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de l'envoi du message"})
		return
	}

	// Notification en tâche de fond, l'échec n'affecte pas la réponse
	go func() {
		if to := os.Getenv("CONTACT_NOTIFY_EMAIL"); to != "" {
			if err := utils.SendMail(to, "Nouveau message de contact", utils.ContactNotificationHTML(msg)); err != nil {
				log.Printf("⚠️ Erreur envoi notification contact: %v", err)
			}
		}
	}()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Merci pour votre message ! Nous vous contacterons bientôt."})
}

type newsletterRequest struct {
	Email string `json:"email"`
}

//
// 📬 POST /api/newsletter
//
func (h *ContactHandler) Newsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Veuillez saisir un e-mail valide"})
		return
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		"INSERT INTO newsletter (email) VALUES ($1)", req.Email)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Cet e-mail est déjà inscrit à la newsletter"})
			return
		}
		log.Printf("❌ Erreur inscription newsletter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Merci de rejoindre le Soda Club !"})
}
