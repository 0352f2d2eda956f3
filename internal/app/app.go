package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/basket"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/dispatch"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/network"
	"github.com/utafrali/storefront/internal/presenter"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// App wires the storefront client: HTTP transport, services, the basket
// store and the catalog presenter.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	queue     *dispatch.Queue
	loop      *dispatch.MainLoop
	basket    *service.BasketService
	products  *service.ProductService
	catalog   *service.CatalogService
	presenter *presenter.CatalogPresenter
	view      *consoleView

	stopWatch context.CancelFunc
	watching  <-chan struct{}
}

// New builds the client from cfg.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	client := httpclient.New(cfg.HTTPClient())
	breaker := httpclient.NewCircuitBreakerClient(client, cfg.CircuitBreaker(), logger)

	fetcher, err := network.NewClient(network.Config{BaseURL: cfg.APIURL, UserID: cfg.UserID}, breaker, logger)
	if err != nil {
		return nil, fmt.Errorf("create storefront client: %w", err)
	}

	queue := dispatch.NewQueue(cfg.DispatchConcurrency, logger)
	loop := dispatch.NewMainLoop()
	view := newConsoleView(logger)

	basketService := service.NewBasketService(fetcher, basket.NewStore(), queue, logger)
	catalogService := service.NewCatalogService(fetcher, logger)

	catalogPresenter := presenter.NewCatalogPresenter(catalogService, basketService, queue, loop, view, logger)
	watchCtx, stopWatch := context.WithCancel(context.Background())

	return &App{
		cfg:       cfg,
		logger:    logger,
		queue:     queue,
		loop:      loop,
		basket:    basketService,
		products:  service.NewProductService(fetcher, queue, logger),
		catalog:   catalogService,
		presenter: catalogPresenter,
		view:      view,
		stopWatch: stopWatch,
		watching:  catalogPresenter.Watch(watchCtx),
	}, nil
}

// CatalogItem is a product with the quantity the basket holds.
type CatalogItem struct {
	domain.Product
	InBasket int `json:"in_basket"`
}

// CatalogResult is one loaded catalog page.
type CatalogResult struct {
	Page     int           `json:"page"`
	MaxPage  int           `json:"max_page"`
	Products []CatalogItem `json:"products"`
}

// BasketResult is the basket with its totals.
type BasketResult struct {
	Lines       []domain.BasketLine `json:"lines"`
	ItemCount   int                 `json:"item_count"`
	TotalAmount int64               `json:"total_amount"`
}

func newBasketResult(b *domain.Basket) *BasketResult {
	return &BasketResult{Lines: b.Lines, ItemCount: b.ItemCount(), TotalAmount: b.TotalAmount()}
}

// Catalog loads pages through the catalog presenter up to page, together
// with the basket so each product carries its basket quantity. Pages already
// loaded are kept; a page that is not next in line reloads from page 1.
func (a *App) Catalog(ctx context.Context, page int, category *int64) (*CatalogResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", page)
	}

	a.presenter.FetchBasket(ctx)

	start := a.presenter.CurrentPage() + 1
	if page < start || page == 1 {
		start = 1
	}
	for n := start; n <= page; n++ {
		a.presenter.FetchData(ctx, n, category)
		a.settle()
		if a.presenter.CurrentPage() != n {
			return nil, fmt.Errorf("catalog page %d could not be loaded", n)
		}
	}

	data := a.presenter.Data()
	items := make([]CatalogItem, len(data))
	for i, p := range data {
		items[i] = CatalogItem{Product: p, InBasket: a.presenter.QuantityInBasket(i)}
	}
	return &CatalogResult{Page: page, MaxPage: a.presenter.MaxPage(), Products: items}, nil
}

// Product loads one product.
func (a *App) Product(ctx context.Context, id int64) (domain.Product, error) {
	return a.products.Fetch(ctx, id)
}

// Basket fetches the basket.
func (a *App) Basket(ctx context.Context) (*BasketResult, error) {
	b, err := a.basket.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return newBasketResult(b), nil
}

// Add adds one unit of product id.
func (a *App) Add(ctx context.Context, id int64) (*BasketResult, error) {
	return a.mutate(ctx, func(ctx context.Context) error {
		p, err := a.products.Fetch(ctx, id)
		if err != nil {
			return err
		}
		return a.basket.AddItem(ctx, p)
	})
}

// Remove removes one unit of product id.
func (a *App) Remove(ctx context.Context, id int64) (*BasketResult, error) {
	return a.mutate(ctx, func(ctx context.Context) error {
		return a.basket.RemoveItem(ctx, id)
	})
}

// Clear empties the basket.
func (a *App) Clear(ctx context.Context) (*BasketResult, error) {
	return a.mutate(ctx, a.basket.Clear)
}

// Pay charges the basket to card, or to the configured card when card is
// empty.
func (a *App) Pay(ctx context.Context, card string) (*BasketResult, error) {
	if card == "" {
		card = a.cfg.PaymentCard
	}
	token, err := domain.NewPaymentToken(card)
	if err != nil {
		return nil, fmt.Errorf("payment card: %w", err)
	}

	return a.mutate(ctx, func(ctx context.Context) error {
		return a.basket.Pay(ctx, token)
	})
}

// Close stops watching the basket, waits for background work and flushes
// pending view updates.
func (a *App) Close() {
	a.stopWatch()
	<-a.watching
	a.settle()
}

// mutate fetches the basket, applies fn and returns the local basket.
func (a *App) mutate(ctx context.Context, fn func(context.Context) error) (*BasketResult, error) {
	if _, err := a.basket.Fetch(ctx); err != nil {
		return nil, err
	}
	if err := fn(ctx); err != nil {
		return nil, err
	}
	b, _ := a.basket.Basket()
	return newBasketResult(b), nil
}

func (a *App) settle() {
	a.queue.Wait()
	a.loop.Drain()
}
