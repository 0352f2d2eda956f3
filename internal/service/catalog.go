package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/storefront/internal/decoder"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/network"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CatalogService pages through the product catalog.
type CatalogService struct {
	fetcher network.Fetcher
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(fetcher network.Fetcher, logger *slog.Logger) *CatalogService {
	return &CatalogService{fetcher: fetcher, logger: logger}
}

// FetchPage loads page (1-based), optionally restricted to a category.
func (s *CatalogService) FetchPage(ctx context.Context, page int, category *int64) (*domain.CatalogPage, error) {
	if page < 1 {
		return nil, apperrors.InvalidInput("page must be at least 1")
	}

	data, err := s.fetcher.Fetch(ctx, network.Catalog(page, category))
	if err != nil {
		return nil, failure(ctx, s.logger, "fetch catalog", err)
	}

	result, err := decoder.Decode[domain.CatalogPage](data)
	if err != nil {
		return nil, failure(ctx, s.logger, "fetch catalog", err)
	}
	return &result, nil
}
