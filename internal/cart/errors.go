package cart

import (
	"errors"
	"fmt"
)

// Les échecs métier sont des valeurs : les handlers les convertissent en
// {success:false, message} sans jamais les laisser remonter en panique.
var (
	// ErrNotInCart : le produit n'est pas dans le panier de la session.
	ErrNotInCart = errors.New("produit non trouvé dans le panier")

	// ErrEmptyCart : checkout tenté sur un panier vide.
	ErrEmptyCart = errors.New("panier vide")

	// ErrInvalidInput : quantité non positive ou identifiant mal formé.
	ErrInvalidInput = errors.New("données invalides")
)

// StockError signale un stock insuffisant en nommant le produit fautif.
type StockError struct {
	Product   string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour: %s", e.Product)
}
