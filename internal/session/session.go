package session

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	Name      = "sodaclub_session"
	cartIDKey = "cart_id"
)

var store *sessions.CookieStore

// Init configure le store de sessions cookie.
func Init(secret string) {
	if secret == "" {
		log.Fatal("❌ SESSION_SECRET manquant dans .env")
	}

	store = sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
}

// CartID retourne l'identifiant de panier de la session, créé à la
// première requête. Le panier lui-même vit côté serveur, jamais dans le
// cookie.
func CartID(c *gin.Context) (string, error) {
	sess, err := store.Get(c.Request, Name)
	if err != nil {
		// Cookie corrompu ou secret changé : on repart sur une session neuve
		sess, _ = store.New(c.Request, Name)
	}

	if id, ok := sess.Values[cartIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[cartIDKey] = id
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return "", err
	}
	return id, nil
}
