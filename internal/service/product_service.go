package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ProductService defines the public catalog endpoints
type ProductService interface {
	List(ctx context.Context, filter *dto.ProductFilter) (*dto.ProductPage, error)
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type productService struct {
	api Requester
}

// NewProductService creates a new product service
func NewProductService(api Requester) ProductService {
	return &productService{api: api}
}

func (s *productService) List(ctx context.Context, filter *dto.ProductFilter) (*dto.ProductPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.list")
	defer span.End()

	var page dto.ProductPage
	if err := s.api.Get(ctx, "/products", filter.Query(), &page); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int("result.count", len(page.Content)))
	return &page, end(span, nil)
}

func (s *productService) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.get")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	span.SetAttributes(attribute.Int64("product_id", productID))

	var product domain.Product
	if err := s.api.Get(ctx, fmt.Sprintf("/products/%d", productID), nil, &product); err != nil {
		return nil, end(span, err)
	}
	return &product, end(span, nil)
}

func (s *productService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.search")
	defer span.End()

	var products []domain.Product
	if err := s.api.Get(ctx, "/products/search", url.Values{"query": {query}}, &products); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, end(span, nil)
}
