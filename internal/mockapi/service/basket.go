package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/mockapi/catalog"
	"github.com/utafrali/storefront/internal/mockapi/event"
	"github.com/utafrali/storefront/internal/mockapi/payment"
	"github.com/utafrali/storefront/internal/mockapi/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Basket upper bounds.
const (
	// MaxQuantityPerLine is the highest quantity one line may reach.
	MaxQuantityPerLine = 100
	// MaxLinesPerBasket is the maximum number of distinct products.
	MaxLinesPerBasket = 50
)

// PaymentResult describes a successful basket payment.
type PaymentResult struct {
	ProviderPaymentID string
	Amount            int64
	ItemCount         int
}

// BasketService implements the basket operations of the mock API.
type BasketService struct {
	repo     repository.BasketRepository
	catalog  *catalog.Catalog
	provider payment.Provider
	producer *event.Producer
	logger   *slog.Logger
	locks    *userLocks
}

// NewBasketService creates a new basket service.
func NewBasketService(
	repo repository.BasketRepository,
	c *catalog.Catalog,
	provider payment.Provider,
	producer *event.Producer,
	logger *slog.Logger,
) *BasketService {
	return &BasketService{
		repo:     repo,
		catalog:  c,
		provider: provider,
		producer: producer,
		logger:   logger,
		locks:    newUserLocks(),
	}
}

// GetBasket returns the basket of userID, empty when none is stored.
func (s *BasketService) GetBasket(ctx context.Context, userID string) (*domain.Basket, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	return s.load(ctx, userID)
}

// AddItem adds one unit of productID.
func (s *BasketService) AddItem(ctx context.Context, userID string, productID int64) (*domain.Basket, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	product, err := s.catalog.Product(productID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if b.FindLineIndex(productID) < 0 && len(b.Lines) >= MaxLinesPerBasket {
		return nil, apperrors.InvalidInput(fmt.Sprintf("basket must not contain more than %d products", MaxLinesPerBasket))
	}
	if b.Quantity(productID) >= MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	b.Add(product)
	if err := s.repo.Save(ctx, userID, b); err != nil {
		return nil, fmt.Errorf("save basket: %w", err)
	}

	s.publishUpdated(ctx, userID, b)
	s.logger.InfoContext(ctx, "item added to basket",
		slog.String("user_id", userID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", b.Quantity(productID)),
	)
	return b, nil
}

// RemoveItem removes one unit of productID. Removing a product that is not
// in the basket is a no-op.
func (s *BasketService) RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Basket, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !b.Remove(productID) {
		return b, nil
	}
	if err := s.repo.Save(ctx, userID, b); err != nil {
		return nil, fmt.Errorf("save basket: %w", err)
	}

	s.publishUpdated(ctx, userID, b)
	s.logger.InfoContext(ctx, "item removed from basket",
		slog.String("user_id", userID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", b.Quantity(productID)),
	)
	return b, nil
}

// Clear empties the basket of userID.
func (s *BasketService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear basket: %w", err)
	}

	if err := s.producer.PublishBasketCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish basket.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "basket cleared", slog.String("user_id", userID))
	return nil
}

// Pay charges the basket total to card and empties the basket on success.
// An empty basket is rejected before the provider is contacted.
func (s *BasketService) Pay(ctx context.Context, userID string, card domain.PaymentToken) (*PaymentResult, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if card.IsZero() {
		return nil, apperrors.InvalidInput("card is required")
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return nil, apperrors.InvalidInput("basket is empty")
	}

	amount := b.TotalAmount()
	res, err := s.provider.Charge(ctx, &payment.ChargeInput{UserID: userID, Card: card, Amount: amount})
	if err != nil {
		return nil, apperrors.ServiceUnavailable("payment provider unavailable: " + err.Error())
	}
	if !res.Succeeded() {
		s.logger.WarnContext(ctx, "payment declined",
			slog.String("user_id", userID),
			slog.Any("card", card),
			slog.String("reason", res.FailureReason),
		)
		return nil, apperrors.PaymentFailed(res.FailureReason)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		// The charge went through; the basket is left for the client to clear.
		return nil, fmt.Errorf("clear paid basket: %w", err)
	}

	result := &PaymentResult{
		ProviderPaymentID: res.ProviderPaymentID,
		Amount:            amount,
		ItemCount:         b.ItemCount(),
	}

	if err := s.producer.PublishBasketPaid(ctx, event.BasketPaidData{
		UserID:            userID,
		ProviderPaymentID: result.ProviderPaymentID,
		Amount:            result.Amount,
		ItemCount:         result.ItemCount,
		Card:              card.String(),
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish basket.paid event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "basket paid",
		slog.String("user_id", userID),
		slog.Any("card", card),
		slog.Int64("amount", amount),
		slog.String("provider", s.provider.Name()),
		slog.String("provider_payment_id", res.ProviderPaymentID),
	)
	return result, nil
}

func (s *BasketService) load(ctx context.Context, userID string) (*domain.Basket, error) {
	b, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewBasket(nil), nil
		}
		return nil, fmt.Errorf("get basket: %w", err)
	}
	return b, nil
}

func (s *BasketService) publishUpdated(ctx context.Context, userID string, b *domain.Basket) {
	if err := s.producer.PublishBasketUpdated(ctx, userID, b); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish basket.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
