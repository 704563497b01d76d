package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"sodaclub_back_end/internal/models"
	"sodaclub_back_end/internal/services"
)

var ErrNotFound = errors.New("produit introuvable")

const ProductCacheTTL = 10 * time.Minute

const productColumns = "id, name, description, price, stock, image, tags, active, created_at, updated_at"

// Store expose le catalogue produits : lectures côté boutique, CRUD côté
// admin. Redis est optionnel (nil = pas de cache).
type Store struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{DB: db, Redis: rdb}
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Image,
		pq.Array(&p.Tags), &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct récupère un produit depuis Redis ou PostgreSQL.
// Les produits inactifs sont retournés aussi : le filtrage "actif"
// appartient aux appelants (boutique vs admin).
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	key := fmt.Sprintf("product:%d", id)

	// 1. Essayer le cache Redis
	if s.Redis != nil {
		data, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var p models.Product
			if json.Unmarshal([]byte(data), &p) == nil {
				return &p, nil
			}
		}
	}

	// 2. Récupérer de PostgreSQL
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// 3. Mettre en cache
	if s.Redis != nil {
		jsonData, _ := json.Marshal(p)
		s.Redis.Set(ctx, key, jsonData, ProductCacheTTL)
	}

	return p, nil
}

// InvalidateProduct invalide le cache d'un produit
func (s *Store) InvalidateProduct(ctx context.Context, id int64) {
	if s.Redis != nil {
		s.Redis.Del(ctx, fmt.Sprintf("product:%d", id))
	}
}

// ListActive retourne les produits actifs, les plus récents d'abord.
func (s *Store) ListActive(ctx context.Context) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE active = TRUE ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Search cherche par sous-chaîne de nom. Passe par Elasticsearch quand il
// est configuré, sinon retombe sur un ILIKE PostgreSQL.
func (s *Store) Search(ctx context.Context, query string) ([]models.Product, error) {
	if results, err := services.SearchProducts(query); err == nil {
		return results, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE name ILIKE '%' || $1 || '%' AND active = TRUE ORDER BY name ASC",
		query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// CreateProduct insère un produit et l'indexe pour la recherche.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, image, tags, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.Price, p.Stock, p.Image, pq.Array(p.Tags), p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	services.IndexProduct(*p)
	return nil
}

// UpdateProduct remplace les champs modifiables d'un produit.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, image = $5, tags = $6, active = $7, updated_at = now()
		WHERE id = $8`,
		p.Name, p.Description, p.Price, p.Stock, p.Image, pq.Array(p.Tags), p.IsActive, p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	s.InvalidateProduct(ctx, p.ID)
	if p.IsActive {
		services.IndexProduct(*p)
	} else {
		services.RemoveProduct(p.ID)
	}
	return nil
}

// DeleteProduct supprime définitivement un produit.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	s.InvalidateProduct(ctx, id)
	services.RemoveProduct(id)
	return nil
}

// UpdateStock applique un réassort ("restock", delta) ou un ajustement
// ("adjustment", quantité absolue) et journalise le mouvement.
func (s *Store) UpdateStock(ctx context.Context, id int64, movementType string, quantity int, reason string) (*models.StockMovement, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var currentStock int
	var name string
	err = tx.QueryRowContext(ctx,
		"SELECT stock, name FROM products WHERE id = $1 FOR UPDATE", id).
		Scan(&currentStock, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var newStock int
	switch movementType {
	case "restock":
		newStock = currentStock + quantity
	case "adjustment":
		newStock = quantity // Quantité absolue
	default:
		return nil, fmt.Errorf("type d'opération invalide: %s", movementType)
	}

	if newStock < 0 {
		return nil, errors.New("le stock ne peut pas être négatif")
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE products SET stock = $1, updated_at = now() WHERE id = $2",
		newStock, id); err != nil {
		return nil, err
	}

	movement := &models.StockMovement{
		ID:        uuid.New(),
		ProductID: id,
		Type:      movementType,
		Quantity:  quantity,
		PrevStock: currentStock,
		NewStock:  newStock,
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PrevStock, movement.NewStock, movement.Reason, movement.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.InvalidateProduct(ctx, id)
	log.Printf("✅ Stock mis à jour pour %s: %d -> %d", name, currentStock, newStock)
	return movement, nil
}

// ListMovements retourne l'historique des mouvements d'un produit.
func (s *Store) ListMovements(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, product_id, type, quantity, prev_stock, new_stock, reason, order_id, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity,
			&m.PrevStock, &m.NewStock, &m.Reason, &m.OrderID, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// ReindexAll pousse tous les produits actifs dans Elasticsearch au démarrage.
func (s *Store) ReindexAll(ctx context.Context) {
	products, err := s.ListActive(ctx)
	if err != nil {
		log.Println("⚠️ Réindexation impossible:", err)
		return
	}
	for _, p := range products {
		services.IndexProduct(p)
	}
}
