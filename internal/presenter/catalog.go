package presenter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/dispatch"
	"github.com/utafrali/storefront/internal/domain"
)

// View is the catalog screen. Its methods are only ever called from the
// MainLoop.
type View interface {
	ReloadData()
	LoadingAnimation(enabled bool)
	BasketChanged(index, quantity int)
}

// CatalogSource pages through the catalog.
type CatalogSource interface {
	FetchPage(ctx context.Context, page int, category *int64) (*domain.CatalogPage, error)
}

// BasketOperator is the part of the basket service the catalog screen uses.
type BasketOperator interface {
	FetchAsync(ctx context.Context, onDone func(*domain.Basket))
	AddItemAsync(ctx context.Context, p domain.Product, onDone func())
	Quantity(productID int64) int
	Subscribe() (<-chan *domain.Basket, func())
}

// CatalogPresenter drives the catalog screen: it loads pages in the
// background, keeps the accumulated product list, and adds products to the
// basket by their position in that list.
type CatalogPresenter struct {
	catalog CatalogSource
	basket  BasketOperator
	queue   *dispatch.Queue
	loop    *dispatch.MainLoop
	view    View
	logger  *slog.Logger

	mu          sync.RWMutex
	data        []domain.Product
	currentPage int
	maxPage     int
	generation  uint64
}

// NewCatalogPresenter creates a presenter with no data loaded.
func NewCatalogPresenter(
	catalog CatalogSource,
	basket BasketOperator,
	queue *dispatch.Queue,
	loop *dispatch.MainLoop,
	view View,
	logger *slog.Logger,
) *CatalogPresenter {
	return &CatalogPresenter{
		catalog: catalog,
		basket:  basket,
		queue:   queue,
		loop:    loop,
		view:    view,
		logger:  logger,
	}
}

// MaxPage returns the total page count reported by the last fetch.
func (p *CatalogPresenter) MaxPage() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxPage
}

// CurrentPage returns the last page successfully loaded, or 0.
func (p *CatalogPresenter) CurrentPage() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentPage
}

// Data returns a copy of the products loaded so far.
func (p *CatalogPresenter) Data() []domain.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Product, len(p.data))
	copy(out, p.data)
	return out
}

// FetchData loads page in the background. Page 1 replaces the list, later
// pages are appended. A result is dropped when a newer page 1 was requested
// after it or when it does not directly follow the current page. The loading
// animation runs for the duration of the request whether or not it succeeds.
func (p *CatalogPresenter) FetchData(ctx context.Context, page int, category *int64) {
	p.loop.Post(func() { p.view.LoadingAnimation(true) })

	p.mu.Lock()
	if page == 1 {
		p.generation++
	}
	generation := p.generation
	p.mu.Unlock()

	p.queue.Go(ctx, "fetch_catalog", func(ctx context.Context) error {
		defer p.loop.Post(func() { p.view.LoadingAnimation(false) })

		result, err := p.catalog.FetchPage(ctx, page, category)
		if err != nil {
			return err
		}

		p.mu.Lock()
		if generation != p.generation || (page != 1 && page != p.currentPage+1) {
			current := p.currentPage
			p.mu.Unlock()
			p.logger.DebugContext(ctx, "dropping out-of-order catalog page",
				slog.Int("page", page),
				slog.Int("current_page", current),
			)
			return nil
		}
		if page == 1 {
			p.data = append([]domain.Product(nil), result.Products...)
		} else {
			p.data = append(p.data, result.Products...)
		}
		p.currentPage = page
		p.maxPage = result.TotalPages
		p.mu.Unlock()

		p.loop.Post(p.view.ReloadData)
		return nil
	})
}

// AddProductToBasket adds the product at index to the basket and reports the
// new quantity to the view.
func (p *CatalogPresenter) AddProductToBasket(ctx context.Context, index int) {
	product, ok := p.productAt(ctx, index)
	if !ok {
		return
	}

	p.basket.AddItemAsync(ctx, product, func() {
		qty := p.basket.Quantity(product.ID)
		p.loop.Post(func() { p.view.BasketChanged(index, qty) })
	})
}

// FetchBasket refreshes the basket and reloads the view once it arrives.
func (p *CatalogPresenter) FetchBasket(ctx context.Context) {
	p.basket.FetchAsync(ctx, func(*domain.Basket) {
		p.loop.Post(p.view.ReloadData)
	})
}

// QuantityInBasket returns the basket quantity of the product at index.
func (p *CatalogPresenter) QuantityInBasket(index int) int {
	product, ok := p.productAt(context.Background(), index)
	if !ok {
		return 0
	}
	return p.basket.Quantity(product.ID)
}

// Watch subscribes to the basket and reloads the view on every change until
// ctx is done. The returned channel is closed once watching has stopped.
func (p *CatalogPresenter) Watch(ctx context.Context) <-chan struct{} {
	ch, cancel := p.basket.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				p.loop.Post(p.view.ReloadData)
			}
		}
	}()
	return done
}

func (p *CatalogPresenter) productAt(ctx context.Context, index int) (domain.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if index < 0 || index >= len(p.data) {
		p.logger.WarnContext(ctx, "product index out of range",
			slog.Int("index", index),
			slog.Int("count", len(p.data)),
		)
		return domain.Product{}, false
	}
	return p.data[index], true
}
