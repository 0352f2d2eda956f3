package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/decoder"
	"github.com/utafrali/storefront/internal/dispatch"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/network"
)

// ProductService fetches product detail and keeps the last product seen.
type ProductService struct {
	fetcher network.Fetcher
	queue   *dispatch.Queue
	logger  *slog.Logger

	mu      sync.RWMutex
	product *domain.Product
}

// NewProductService creates a product service.
func NewProductService(fetcher network.Fetcher, queue *dispatch.Queue, logger *slog.Logger) *ProductService {
	return &ProductService{fetcher: fetcher, queue: queue, logger: logger}
}

// Product returns the last fetched product.
func (s *ProductService) Product() (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.product == nil {
		return domain.Product{}, false
	}
	return *s.product, true
}

// Fetch loads product id and remembers it.
func (s *ProductService) Fetch(ctx context.Context, id int64) (domain.Product, error) {
	data, err := s.fetcher.Fetch(ctx, network.Product(id))
	if err != nil {
		return domain.Product{}, failure(ctx, s.logger, "fetch product", err)
	}

	p, err := decoder.Decode[domain.Product](data)
	if err != nil {
		return domain.Product{}, failure(ctx, s.logger, "fetch product", err)
	}

	s.mu.Lock()
	s.product = &p
	s.mu.Unlock()
	return p, nil
}

// FetchAsync runs Fetch on the background queue; failures are only logged.
func (s *ProductService) FetchAsync(ctx context.Context, id int64, onDone func(domain.Product)) {
	s.queue.Go(ctx, "fetch_product", func(ctx context.Context) error {
		p, err := s.Fetch(ctx, id)
		if err != nil {
			return err
		}
		if onDone != nil {
			onDone(p)
		}
		return nil
	})
}
