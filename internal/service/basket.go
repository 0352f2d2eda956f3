package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/storefront/internal/basket"
	"github.com/utafrali/storefront/internal/decoder"
	"github.com/utafrali/storefront/internal/dispatch"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/network"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// BasketService mirrors the server-side basket in a basket.Store. Every
// mutation is sent to the API first and applied locally only once the API
// has acknowledged it.
type BasketService struct {
	fetcher network.Fetcher
	store   *basket.Store
	queue   *dispatch.Queue
	logger  *slog.Logger
}

// NewBasketService creates a basket service.
func NewBasketService(fetcher network.Fetcher, store *basket.Store, queue *dispatch.Queue, logger *slog.Logger) *BasketService {
	return &BasketService{fetcher: fetcher, store: store, queue: queue, logger: logger}
}

// Basket returns a copy of the local basket and whether it has been fetched.
func (s *BasketService) Basket() (*domain.Basket, bool) {
	return s.store.Snapshot()
}

// Quantity returns how many units of productID the local basket holds.
func (s *BasketService) Quantity(productID int64) int {
	return s.store.Quantity(productID)
}

// Subscribe forwards to the store's change notifications.
func (s *BasketService) Subscribe() (<-chan *domain.Basket, func()) {
	return s.store.Subscribe()
}

// Fetch loads the basket from the API, replacing the local copy. When a
// local mutation started while the request was in flight the fetched state
// is discarded and the local basket returned.
func (s *BasketService) Fetch(ctx context.Context) (*domain.Basket, error) {
	version := s.store.Version()
	data, err := s.fetcher.Fetch(ctx, network.Basket())
	if err != nil {
		return nil, failure(ctx, s.logger, "fetch basket", err)
	}

	lines, err := decoder.Decode[[]domain.BasketLine](data)
	if err != nil {
		return nil, failure(ctx, s.logger, "fetch basket", err)
	}

	if !s.store.ReplaceAt(lines, version) {
		s.logger.DebugContext(ctx, "discarding basket fetched during a mutation")
	}
	b, loaded := s.store.Snapshot()
	if !loaded {
		return nil, basket.ErrNotLoaded
	}
	return b, nil
}

// AddItem adds one unit of p.
func (s *BasketService) AddItem(ctx context.Context, p domain.Product) error {
	if err := s.requireLoaded(ctx, "add item"); err != nil {
		return err
	}
	done := s.store.Begin()
	defer done()
	if err := s.mutate(ctx, "add item", network.AddToBasket(p.ID)); err != nil {
		return err
	}
	return s.store.Add(p)
}

// RemoveItem removes one unit of productID. Removing a product that is not
// in the basket leaves it unchanged.
func (s *BasketService) RemoveItem(ctx context.Context, productID int64) error {
	if err := s.requireLoaded(ctx, "remove item"); err != nil {
		return err
	}
	done := s.store.Begin()
	defer done()
	if err := s.mutate(ctx, "remove item", network.RemoveItemFromBasket(productID)); err != nil {
		return err
	}
	_, err := s.store.Remove(productID)
	return err
}

// Clear removes every line.
func (s *BasketService) Clear(ctx context.Context) error {
	if err := s.requireLoaded(ctx, "clear basket"); err != nil {
		return err
	}
	done := s.store.Begin()
	defer done()
	if err := s.mutate(ctx, "clear basket", network.RemoveAllFromBasket()); err != nil {
		return err
	}
	return s.store.Clear()
}

// Pay charges the basket to token and empties it on success.
func (s *BasketService) Pay(ctx context.Context, token domain.PaymentToken) error {
	if token.IsZero() {
		return apperrors.InvalidInput("payment token is required")
	}
	if err := s.requireLoaded(ctx, "pay basket"); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "paying basket", slog.Any("card", token))
	done := s.store.Begin()
	defer done()
	if err := s.mutate(ctx, "pay basket", network.PayBasket(token)); err != nil {
		return err
	}
	return s.store.Clear()
}

// FetchAsync runs Fetch on the background queue. onDone, when set, receives
// the fetched basket; failures are only logged.
func (s *BasketService) FetchAsync(ctx context.Context, onDone func(*domain.Basket)) {
	s.queue.Go(ctx, "fetch_basket", func(ctx context.Context) error {
		b, err := s.Fetch(ctx)
		if err != nil {
			return err
		}
		if onDone != nil {
			onDone(b)
		}
		return nil
	})
}

// AddItemAsync runs AddItem on the background queue.
func (s *BasketService) AddItemAsync(ctx context.Context, p domain.Product, onDone func()) {
	s.runAsync(ctx, "add_item", func(ctx context.Context) error { return s.AddItem(ctx, p) }, onDone)
}

// RemoveItemAsync runs RemoveItem on the background queue.
func (s *BasketService) RemoveItemAsync(ctx context.Context, productID int64, onDone func()) {
	s.runAsync(ctx, "remove_item", func(ctx context.Context) error { return s.RemoveItem(ctx, productID) }, onDone)
}

// ClearAsync runs Clear on the background queue.
func (s *BasketService) ClearAsync(ctx context.Context, onDone func()) {
	s.runAsync(ctx, "clear_basket", s.Clear, onDone)
}

// PayAsync runs Pay on the background queue.
func (s *BasketService) PayAsync(ctx context.Context, token domain.PaymentToken, onDone func()) {
	s.runAsync(ctx, "pay_basket", func(ctx context.Context) error { return s.Pay(ctx, token) }, onDone)
}

func (s *BasketService) runAsync(ctx context.Context, name string, fn func(context.Context) error, onDone func()) {
	s.queue.Go(ctx, name, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		if onDone != nil {
			onDone()
		}
		return nil
	})
}

func (s *BasketService) requireLoaded(ctx context.Context, op string) error {
	if s.store.Loaded() {
		return nil
	}
	s.logger.WarnContext(ctx, "basket not loaded", slog.String("operation", op))
	return basket.ErrNotLoaded
}

func (s *BasketService) mutate(ctx context.Context, op string, ep network.Endpoint) error {
	data, err := s.fetcher.Fetch(ctx, ep)
	if err != nil {
		return failure(ctx, s.logger, op, err)
	}
	if err := checkResult(data); err != nil {
		return failure(ctx, s.logger, op, err)
	}
	return nil
}
