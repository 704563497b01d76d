package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sodaclub_back_end/internal/cart"
	"sodaclub_back_end/internal/catalog"
	"sodaclub_back_end/internal/handlers"
	"sodaclub_back_end/internal/models"
	"sodaclub_back_end/internal/session"
)

type memStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
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

func newCartRouter(products ...models.Product) *gin.Engine {
	gin.SetMode(gin.TestMode)
	session.Init("test-secret")

	f := &fakeProducts{products: make(map[int64]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	manager := cart.NewManager(&memStore{carts: make(map[string]models.Cart)}, f)
	h := handlers.NewCartHandler(manager)

	r := gin.New()
	r.POST("/api/cart", h.Handle)
	return r
}

// client rejoue le cookie de session d'une requête à l'autre.
type client struct {
	r       *gin.Engine
	cookies []*http.Cookie
}

func (c *client) post(t *testing.T, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestCartEndpoint_Add(t *testing.T) {
	c := &client{r: newCartRouter(models.Product{ID: 1, Name: "Limonade", Price: 2.5, Stock: 5, IsActive: true})}

	code, resp := c.post(t, "/api/cart", `{"action":"add","productId":1,"quantity":2}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])
	assert.EqualValues(t, 2, resp["cart_count"])
}

// Sans quantité explicite, on ajoute une unité.
func TestCartEndpoint_AddQuantiteParDefaut(t *testing.T) {
	c := &client{r: newCartRouter(models.Product{ID: 1, Name: "Limonade", Price: 2.5, Stock: 5, IsActive: true})}

	code, resp := c.post(t, "/api/cart", `{"action":"add","productId":1}`)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["cart_count"])
}

func TestCartEndpoint_AddStockInsuffisant(t *testing.T) {
	c := &client{r: newCartRouter(models.Product{ID: 1, Name: "Limonade", Price: 2.5, Stock: 2, IsActive: true})}

	code, resp := c.post(t, "/api/cart", `{"action":"add","productId":1,"quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "Limonade")
}

func TestCartEndpoint_AddProduitInconnu(t *testing.T) {
	c := &client{r: newCartRouter()}

	code, resp := c.post(t, "/api/cart", `{"action":"add","productId":42,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, resp["success"])
}

func TestCartEndpoint_CycleComplet(t *testing.T) {
	c := &client{r: newCartRouter(
		models.Product{ID: 1, Name: "Limonade", Price: 2.5, Stock: 5, IsActive: true},
		models.Product{ID: 2, Name: "Cola", Price: 3, Stock: 5, IsActive: true},
	)}

	_, resp := c.post(t, "/api/cart", `{"action":"add","productId":1,"quantity":2}`)
	assert.EqualValues(t, 2, resp["cart_count"])

	_, resp = c.post(t, "/api/cart", `{"action":"add","productId":2,"quantity":1}`)
	assert.EqualValues(t, 3, resp["cart_count"])

	_, resp = c.post(t, "/api/cart", `{"action":"update","productId":1,"quantity":1}`)
	assert.EqualValues(t, 2, resp["cart_count"])

	_, resp = c.post(t, "/api/cart", `{"action":"get"}`)
	assert.Equal(t, true, resp["success"])
	assert.EqualValues(t, 2, resp["count"])
	assert.InDelta(t, 5.5, resp["total"].(float64), 1e-9)

	_, resp = c.post(t, "/api/cart", `{"action":"remove","productId":2}`)
	assert.EqualValues(t, 1, resp["cart_count"])

	code, resp := c.post(t, "/api/cart", `{"action":"clear"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, resp["cart_count"])
}

// Sans quantité, update fixe la ligne à une unité au lieu de la retirer.
func TestCartEndpoint_UpdateSansQuantite(t *testing.T) {
	c := &client{r: newCartRouter(models.Product{ID: 1, Name: "Limonade", Price: 2.5, Stock: 5, IsActive: true})}

	_, resp := c.post(t, "/api/cart", `{"action":"add","productId":1,"quantity":3}`)
	assert.EqualValues(t, 3, resp["cart_count"])

	code, resp := c.post(t, "/api/cart", `{"action":"update","productId":1}`)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["cart_count"])
}

// Un zéro explicite, lui, retire bien la ligne.
func TestCartEndpoint_UpdateQuantiteZeroRetire(t *testing.T) {
	c := &client{r: newCartRouter(models.Product{ID: 1, Name: "Limonade", Price: 2.5, Stock: 5, IsActive: true})}

	_, resp := c.post(t, "/api/cart", `{"action":"add","productId":1,"quantity":3}`)
	assert.EqualValues(t, 3, resp["cart_count"])

	code, resp := c.post(t, "/api/cart", `{"action":"update","productId":1,"quantity":0}`)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, resp["cart_count"])
}

func TestCartEndpoint_ActionInvalide(t *testing.T) {
	c := &client{r: newCartRouter()}

	code, resp := c.post(t, "/api/cart", `{"action":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Action non valide", resp["message"])
}

func TestCartEndpoint_JSONInvalide(t *testing.T) {
	c := &client{r: newCartRouter()}

	code, resp := c.post(t, "/api/cart", `{`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, resp["success"])
}
