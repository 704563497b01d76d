package models

// CartItem fige le nom, le prix et l'image du produit au moment de l'ajout.
type CartItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Cart est le panier d'une session : product_id → item.
type Cart map[int64]CartItem

// Count retourne la somme des quantités du panier.
func (c Cart) Count() int {
	count := 0
	for _, item := range c {
		count += item.Quantity
	}
	return count
}

// Total calcule le total avec les prix figés à l'ajout, pas les prix actuels.
func (c Cart) Total() float64 {
	total := 0.0
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
