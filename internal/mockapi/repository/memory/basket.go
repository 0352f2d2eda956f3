package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// BasketRepository implements repository.BasketRepository in process
// memory. Baskets are copied on the way in and out.
type BasketRepository struct {
	mu      sync.RWMutex
	baskets map[string]*domain.Basket
}

// NewBasketRepository creates an empty in-memory basket repository.
func NewBasketRepository() *BasketRepository {
	return &BasketRepository{baskets: make(map[string]*domain.Basket)}
}

// Get retrieves the basket of userID.
func (r *BasketRepository) Get(_ context.Context, userID string) (*domain.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.baskets[userID]
	if !ok {
		return nil, apperrors.NotFound("basket", userID)
	}
	return b.Clone(), nil
}

// Save stores a copy of basket for userID.
func (r *BasketRepository) Save(_ context.Context, userID string, basket *domain.Basket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baskets[userID] = basket.Clone()
	return nil
}

// Delete removes the basket of userID.
func (r *BasketRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.baskets, userID)
	return nil
}
