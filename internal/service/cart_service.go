package service

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// CartService defines the server cart endpoints
type CartService interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, req *dto.AddItemRequest) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, cartItemID int64, req *dto.UpdateItemRequest) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, cartItemID int64) error
}

type cartService struct {
	api Requester
}

// NewCartService creates a new cart service
func NewCartService(api Requester) CartService {
	return &cartService{api: api}
}

func (s *cartService) GetCart(ctx context.Context) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.get")
	defer span.End()

	var cart domain.Cart
	if err := s.api.Get(ctx, "/api/cart", nil, &cart); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int("cart.total_items", cart.TotalItems))
	return &cart, end(span, nil)
}

func (s *cartService) AddItem(ctx context.Context, req *dto.AddItemRequest) (*domain.CartItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.add_item")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int64("product_id", req.ProductID), attribute.Int("quantity", req.Quantity))

	var item domain.CartItem
	if err := s.api.Put(ctx, "/api/cart/add", req, &item); err != nil {
		return nil, end(span, err)
	}
	return &item, end(span, nil)
}

func (s *cartService) UpdateItem(ctx context.Context, cartItemID int64, req *dto.UpdateItemRequest) (*domain.CartItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.update_item")
	defer span.End()

	if cartItemID <= 0 {
		return nil, end(span, domain.ErrInvalidCartItemID)
	}
	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int64("cart_item_id", cartItemID))

	var item domain.CartItem
	if err := s.api.Put(ctx, fmt.Sprintf("/api/cart/item/%d", cartItemID), req, &item); err != nil {
		return nil, end(span, err)
	}
	return &item, end(span, nil)
}

func (s *cartService) RemoveItem(ctx context.Context, cartItemID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.remove_item")
	defer span.End()

	if cartItemID <= 0 {
		return end(span, domain.ErrInvalidCartItemID)
	}
	span.SetAttributes(attribute.Int64("cart_item_id", cartItemID))
	return end(span, s.api.Delete(ctx, fmt.Sprintf("/api/cart/item/%d", cartItemID), nil))
}
