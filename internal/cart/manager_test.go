package cart_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sodaclub_back_end/internal/cart"
	"sodaclub_back_end/internal/catalog"
	"sodaclub_back_end/internal/models"
)

type memStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]models.Cart)}
}

func (s *memStore) Get(_ context.Context, cartID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := models.Cart{}
	for id, item := range s.carts[cartID] {
		items[id] = item
	}
	return items, nil
}

func (s *memStore) Save(_ context.Context, cartID string, items models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = items
	return nil
}

func (s *memStore) Clear(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

type fakeProducts struct {
	products map[int64]models.Product
}

func (f *fakeProducts) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func newManager(products ...models.Product) (*cart.Manager, *fakeProducts) {
	f := &fakeProducts{products: make(map[int64]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return cart.NewManager(newMemStore(), f), f
}

func soda(id int64, stock int, price float64) models.Product {
	return models.Product{ID: id, Name: "Limonade", Price: price, Stock: stock, IsActive: true}
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	count, err := m.AddToCart(ctx, "s1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	items, err := m.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, items, int64(1))
	assert.Equal(t, "Limonade", items[1].Name)
	assert.Equal(t, 2.50, items[1].Price)
	assert.Equal(t, 3, items[1].Quantity)
}

func TestAddToCart_ProduitInconnu(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()

	_, err := m.AddToCart(ctx, "s1", 42, 1)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAddToCart_ProduitInactif(t *testing.T) {
	ctx := context.Background()
	p := soda(1, 5, 2.50)
	p.IsActive = false
	m, _ := newManager(p)

	_, err := m.AddToCart(ctx, "s1", 1, 1)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAddToCart_StockInsuffisant(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 2, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 5)

	var stockErr *cart.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Limonade", stockErr.Product)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// L'échec ne crée pas de ligne de panier
	count, err := m.CartCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAddToCart_QuantiteInvalide(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	for _, q := range []int{0, -1} {
		_, err := m.AddToCart(ctx, "s1", 1, q)
		assert.ErrorIs(t, err, cart.ErrInvalidInput)
	}
}

// Un produit déjà présent s'additionne sans re-vérifier le cumul : le
// checkout sous verrou fait foi.
func TestAddToCart_CumulSansRevalidation(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 3)
	require.NoError(t, err)

	count, err := m.AddToCart(ctx, "s1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 1)
	require.NoError(t, err)

	count, err := m.UpdateQuantity(ctx, "s1", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestUpdateQuantity_RevalideLeStock(t *testing.T) {
	ctx := context.Background()
	m, f := newManager(soda(1, 5, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 2)
	require.NoError(t, err)

	// Le stock baisse entre l'ajout et la mise à jour
	p := f.products[1]
	p.Stock = 2
	f.products[1] = p

	_, err = m.UpdateQuantity(ctx, "s1", 1, 3)

	var stockErr *cart.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)

	// Quantité inchangée après l'échec
	items, _ := m.GetCart(ctx, "s1")
	assert.Equal(t, 2, items[1].Quantity)
}

func TestUpdateQuantity_ZeroRetire(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 2)
	require.NoError(t, err)

	count, err := m.UpdateQuantity(ctx, "s1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	items, _ := m.GetCart(ctx, "s1")
	assert.Empty(t, items)
}

func TestUpdateQuantity_AbsentDuPanier(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.UpdateQuantity(ctx, "s1", 1, 2)
	assert.ErrorIs(t, err, cart.ErrNotInCart)
}

func TestRemoveFromCart_Absent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.RemoveFromCart(ctx, "s1", 1)
	assert.ErrorIs(t, err, cart.ErrNotInCart)
}

func TestCartTotal_PrixFigeALAjout(t *testing.T) {
	ctx := context.Background()
	m, f := newManager(soda(1, 5, 2.50), models.Product{ID: 2, Name: "Cola", Price: 3.00, Stock: 10, IsActive: true})

	_, err := m.AddToCart(ctx, "s1", 1, 2) // 5.00
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, "s1", 2, 1) // 3.00
	require.NoError(t, err)

	// Changement de prix après l'ajout : le total garde le prix figé
	p := f.products[1]
	p.Price = 9.99
	f.products[1] = p

	total, err := m.CartTotal(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 8.00, total, 1e-9)

	count, err := m.CartCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 2)
	require.NoError(t, err)

	require.NoError(t, m.ClearCart(ctx, "s1"))

	count, err := m.CartCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// Les paniers sont isolés par session.
func TestCart_IsolationParSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(soda(1, 5, 2.50))

	_, err := m.AddToCart(ctx, "s1", 1, 2)
	require.NoError(t, err)

	count, err := m.CartCount(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
