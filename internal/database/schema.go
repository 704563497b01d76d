package database

import (
	"context"
	"log"
)

// Le schéma est appliqué au démarrage. Les CREATE sont idempotents, un
// déploiement existant n'est jamais modifié.
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(10,2) NOT NULL CHECK (price > 0),
	stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	image       TEXT NOT NULL DEFAULT '',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stock_movements (
	id         UUID PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	type       TEXT NOT NULL,
	quantity   INTEGER NOT NULL,
	prev_stock INTEGER NOT NULL,
	new_stock  INTEGER NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	order_id   UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_id, created_at DESC);

CREATE TABLE IF NOT EXISTS contact_messages (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS newsletter (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// InitSchema crée les tables si elles n'existent pas encore.
func InitSchema(ctx context.Context) error {
	if _, err := DB.ExecContext(ctx, schema); err != nil {
		return err
	}
	log.Println("✅ Schéma PostgreSQL vérifié")
	return nil
}
