package service

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// WishlistService defines the wishlist endpoints
type WishlistService interface {
	Get(ctx context.Context) (*domain.Wishlist, error)
	// AddProduct toggles the product on the wishlist and returns the result
	AddProduct(ctx context.Context, productID int64) (*domain.Wishlist, error)
}

type wishlistService struct {
	api Requester
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(api Requester) WishlistService {
	return &wishlistService{api: api}
}

func (s *wishlistService) Get(ctx context.Context) (*domain.Wishlist, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wishlist.get")
	defer span.End()

	var wl domain.Wishlist
	if err := s.api.Get(ctx, "/api/wishlist", nil, &wl); err != nil {
		return nil, end(span, err)
	}
	return &wl, end(span, nil)
}

func (s *wishlistService) AddProduct(ctx context.Context, productID int64) (*domain.Wishlist, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wishlist.add_product")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	span.SetAttributes(attribute.Int64("product_id", productID))

	var wl domain.Wishlist
	if err := s.api.Post(ctx, fmt.Sprintf("/api/wishlist/add-product/%d", productID), nil, &wl); err != nil {
		return nil, end(span, err)
	}
	return &wl, end(span, nil)
}
