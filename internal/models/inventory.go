package models

import (
	"time"

	"github.com/google/uuid"
)

type StockMovement struct {
	ID        uuid.UUID  `json:"id"`
	ProductID int64      `json:"product_id"`
	Type      string     `json:"type"` // "sale", "restock", "adjustment"
	Quantity  int        `json:"quantity"`
	PrevStock int        `json:"prev_stock"`
	NewStock  int        `json:"new_stock"`
	Reason    string     `json:"reason"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
