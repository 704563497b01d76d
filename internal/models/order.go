package models

import (
	"time"

	"github.com/google/uuid"
)

// Order est le récapitulatif retourné après un checkout réussi.
// Seule la décrémentation du stock est durable, la commande elle-même
// n'est pas persistée.
type Order struct {
	ID        uuid.UUID `json:"id"`
	Total     float64   `json:"total"`
	Items     Cart      `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}
