package cart

import (
	"context"
	"errors"

	"sodaclub_back_end/internal/catalog"
	"sodaclub_back_end/internal/models"
)

// ProductReader est la vue du catalogue dont le panier a besoin pour
// valider le stock à chaque mutation.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// Manager maintient le panier d'une session. Chaque mutation revalide le
// stock courant du produit concerné ; la validation définitive a lieu au
// checkout, sous verrou de ligne.
type Manager struct {
	Store    Store
	Products ProductReader
}

func NewManager(store Store, products ProductReader) *Manager {
	return &Manager{Store: store, Products: products}
}

// AddToCart ajoute quantity unités d'un produit au panier et retourne le
// nouveau nombre d'articles. Si le produit est déjà présent, la quantité
// s'additionne sans re-vérifier le cumul : le checkout tranchera sous
// verrou, un cumul trop grand ne peut donc jamais sur-vendre.
func (m *Manager) AddToCart(ctx context.Context, cartID string, productID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidInput
	}

	product, err := m.Products.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if !product.IsActive {
		return 0, catalog.ErrNotFound
	}

	if product.Stock < quantity {
		return 0, &StockError{Product: product.Name, Available: product.Stock, Requested: quantity}
	}

	items, err := m.Store.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}

	if item, ok := items[productID]; ok {
		item.Quantity += quantity
		items[productID] = item
	} else {
		items[productID] = models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Image:     product.Image,
		}
	}

	if err := m.Store.Save(ctx, cartID, items); err != nil {
		return 0, err
	}
	return items.Count(), nil
}

// RemoveFromCart retire complètement un produit du panier.
func (m *Manager) RemoveFromCart(ctx context.Context, cartID string, productID int64) (int, error) {
	items, err := m.Store.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}

	if _, ok := items[productID]; !ok {
		return items.Count(), ErrNotInCart
	}

	delete(items, productID)
	if err := m.Store.Save(ctx, cartID, items); err != nil {
		return 0, err
	}
	return items.Count(), nil
}

// UpdateQuantity fixe la quantité d'une ligne du panier. Une quantité
// nulle ou négative équivaut à un retrait.
func (m *Manager) UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return m.RemoveFromCart(ctx, cartID, productID)
	}

	items, err := m.Store.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}

	item, ok := items[productID]
	if !ok {
		return items.Count(), ErrNotInCart
	}

	// Revalider contre le stock courant, pas celui de l'ajout
	product, err := m.Products.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if quantity > product.Stock {
		return 0, &StockError{Product: product.Name, Available: product.Stock, Requested: quantity}
	}

	item.Quantity = quantity
	items[productID] = item

	if err := m.Store.Save(ctx, cartID, items); err != nil {
		return 0, err
	}
	return items.Count(), nil
}

// GetCart retourne le contenu du panier.
func (m *Manager) GetCart(ctx context.Context, cartID string) (models.Cart, error) {
	return m.Store.Get(ctx, cartID)
}

// CartCount retourne la somme des quantités.
func (m *Manager) CartCount(ctx context.Context, cartID string) (int, error) {
	items, err := m.Store.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return items.Count(), nil
}

// CartTotal retourne le total aux prix figés à l'ajout.
func (m *Manager) CartTotal(ctx context.Context, cartID string) (float64, error) {
	items, err := m.Store.Get(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return items.Total(), nil
}

// ClearCart vide le panier sans condition.
func (m *Manager) ClearCart(ctx context.Context, cartID string) error {
	return m.Store.Clear(ctx, cartID)
}

// IsBusinessError distingue les échecs métier (réponse {success:false})
// des pannes techniques (réponse 500 générique).
func IsBusinessError(err error) bool {
	var stockErr *StockError
	return errors.Is(err, catalog.ErrNotFound) ||
		errors.Is(err, ErrNotInCart) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.As(err, &stockErr)
}
