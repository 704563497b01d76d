package order

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"sodaclub_back_end/internal/cart"
	"sodaclub_back_end/internal/models"
	"sodaclub_back_end/internal/services"
)

// ProductInvalidator invalide les fiches produit en cache après une
// vente. *catalog.Store l'implémente.
type ProductInvalidator interface {
	InvalidateProduct(ctx context.Context, id int64)
}

// Processor convertit le panier d'une session en décrément de stock
// durable, dans une transaction unique.
type Processor struct {
	DB        *sql.DB
	Carts     cart.Store
	Cache     ProductInvalidator           // optionnel
	Warehouse *services.WarehousePublisher // optionnel
}

func NewProcessor(db *sql.DB, carts cart.Store, cache ProductInvalidator, warehouse *services.WarehousePublisher) *Processor {
	return &Processor{DB: db, Carts: carts, Cache: cache, Warehouse: warehouse}
}

// ProcessOrder verrouille chaque ligne produit du panier (SELECT FOR
// UPDATE), revalide tout le stock, puis décrémente tout — jamais l'un
// sans l'autre. Deux checkouts qui se chevauchent sont sérialisés par les
// verrous de ligne : le second relit le stock déjà décrémenté du premier.
// En cas d'échec, rollback complet et panier intact.
func (p *Processor) ProcessOrder(ctx context.Context, cartID string) (*models.Order, error) {
	items, err := p.Carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Verrouiller en ordre croissant d'identifiant pour que deux checkouts
	// aux paniers chevauchants ne s'interbloquent pas.
	productIDs := make([]int64, 0, len(items))
	for id := range items {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	prevStocks := make(map[int64]int, len(items))
	for _, id := range productIDs {
		item := items[id]

		var stock int
		err := tx.QueryRowContext(ctx,
			"SELECT stock FROM products WHERE id = $1 FOR UPDATE", id).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			// Produit supprimé entre l'ajout au panier et le checkout
			return nil, &cart.StockError{Product: item.Name, Available: 0, Requested: item.Quantity}
		}
		if err != nil {
			return nil, err
		}

		if stock < item.Quantity {
			return nil, &cart.StockError{Product: item.Name, Available: stock, Requested: item.Quantity}
		}
		prevStocks[id] = stock
	}

	orderID := uuid.New()
	now := time.Now()

	for _, id := range productIDs {
		item := items[id]

		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2",
			item.Quantity, id); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, reason, order_id, created_at)
			VALUES ($1, $2, 'sale', $3, $4, $5, 'commande', $6, $7)`,
			uuid.New(), id, item.Quantity, prevStocks[id], prevStocks[id]-item.Quantity, orderID, now,
		); err != nil {
			return nil, err
		}
	}

	// Le récapitulatif vient du panier, pas d'une relecture en base
	summary := &models.Order{
		ID:        orderID,
		Total:     items.Total(),
		Items:     items,
		CreatedAt: now,
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// Les fiches en cache montrent encore le stock d'avant-vente
	if p.Cache != nil {
		for _, id := range productIDs {
			p.Cache.InvalidateProduct(ctx, id)
		}
	}

	// Le panier n'est vidé qu'après commit réussi
	if err := p.Carts.Clear(ctx, cartID); err != nil {
		log.Printf("⚠️ Commande %s validée mais panier %s non vidé: %v", orderID, cartID, err)
	}

	p.Warehouse.PublishOrder(ctx, summary)

	log.Printf("✅ Commande %s validée: %d article(s), total %.2f€", orderID, items.Count(), summary.Total)
	return summary, nil
}
