package service

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/mockapi/catalog"
	"github.com/utafrali/storefront/pkg/pagination"
)

// CatalogService serves product listings from the seeded catalog.
type CatalogService struct {
	catalog *catalog.Catalog
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// Page returns one page of products, optionally restricted to a category.
// Pages past the end are empty.
func (s *CatalogService) Page(_ context.Context, params pagination.Params, category *int64) pagination.Result[domain.Product] {
	products := s.catalog.List(category)
	start, end := params.Window(len(products))
	return pagination.NewResult(products[start:end], len(products), params)
}

// Product returns one product.
func (s *CatalogService) Product(_ context.Context, id int64) (domain.Product, error) {
	return s.catalog.Product(id)
}
