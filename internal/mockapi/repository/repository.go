package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// BasketRepository defines the interface for basket persistence operations.
type BasketRepository interface {
	// Get retrieves the basket of userID. It returns an error wrapping
	// errors.ErrNotFound when the user has no basket.
	Get(ctx context.Context, userID string) (*domain.Basket, error)

	// Save persists the basket of userID, overwriting any existing one.
	Save(ctx context.Context, userID string, basket *domain.Basket) error

	// Delete removes the basket of userID. Deleting a missing basket is not
	// an error.
	Delete(ctx context.Context, userID string) error
}
