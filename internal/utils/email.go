package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"sodaclub_back_end/internal/models"
)

// SendMail envoie un e-mail HTML via le SMTP configuré. No-op silencieux
// quand SMTP_HOST est absent (environnement de dev).
func SendMail(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️ SMTP non configuré, e-mail ignoré:", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// ContactNotificationHTML génère la notification envoyée à la boutique
// quand un message de contact arrive.
func ContactNotificationHTML(msg models.ContactMessage) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Nouveau message de contact</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Nouveau message de contact</h2>
		<p><strong>De :</strong> %s &lt;%s&gt;</p>
		<p><strong>Sujet :</strong> %s</p>
		<p style="white-space: pre-wrap;">%s</p>
	</div>
</body>
</html>`, msg.Name, msg.Email, msg.Subject, msg.Message)
}
