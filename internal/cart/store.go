package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"sodaclub_back_end/internal/models"
)

const CartTTL = 30 * 24 * time.Hour // 30 jours

// Store persiste le panier d'une session entre deux requêtes.
type Store interface {
	Get(ctx context.Context, cartID string) (models.Cart, error)
	Save(ctx context.Context, cartID string, cart models.Cart) error
	Clear(ctx context.Context, cartID string) error
}

// RedisStore stocke chaque panier en JSON sous "cart:<id>" et notifie les
// WebSockets abonnés via pub/sub sur le même canal.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

func (s *RedisStore) Get(ctx context.Context, cartID string) (models.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(cartID)).Result()
	if err == redis.Nil || (err == nil && data == "") {
		// Panier absent = panier vide, init à la première lecture
		return models.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cartID string, cart models.Cart) error {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, cartKey(cartID), jsonData, CartTTL).Err(); err != nil {
		return err
	}

	s.rdb.Publish(ctx, cartKey(cartID), "updated")
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	if err := s.rdb.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return err
	}

	s.rdb.Publish(ctx, cartKey(cartID), "cleared")
	return nil
}
