package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const keyPrefix = "basket:"

// BasketRepository implements repository.BasketRepository using Redis. Each
// basket is one JSON value that expires ttl after its last write.
type BasketRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBasketRepository creates a new Redis-backed basket repository.
func NewBasketRepository(client *redis.Client, ttl time.Duration) *BasketRepository {
	return &BasketRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the basket of userID from Redis.
func (r *BasketRepository) Get(ctx context.Context, userID string) (*domain.Basket, error) {
	data, err := r.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("basket", userID)
		}
		return nil, fmt.Errorf("redis get basket: %w", err)
	}

	var b domain.Basket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal basket: %w", err)
	}

	return domain.NewBasket(b.Lines), nil
}

// Save persists the basket of userID with the configured TTL.
func (r *BasketRepository) Save(ctx context.Context, userID string, basket *domain.Basket) error {
	data, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("marshal basket: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+userID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set basket: %w", err)
	}

	return nil
}

// Delete removes the basket of userID from Redis.
func (r *BasketRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del basket: %w", err)
	}

	return nil
}
