package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// OrderService defines the customer order endpoints
type OrderService interface {
	// Create checks out the current cart to the shipping address
	Create(ctx context.Context, address *domain.Address, method domain.PaymentMethod) (*domain.PaymentLink, error)
	History(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
	// Cancel asks the backend to cancel; returns its confirmation text
	Cancel(ctx context.Context, orderID int64) (string, error)
}

type orderService struct {
	api Requester
}

// NewOrderService creates a new order service
func NewOrderService(api Requester) OrderService {
	return &orderService{api: api}
}

func (s *orderService) Create(ctx context.Context, address *domain.Address, method domain.PaymentMethod) (*domain.PaymentLink, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.create")
	defer span.End()

	if !method.IsValid() {
		return nil, end(span, domain.ErrInvalidPayment)
	}
	if err := dto.ValidateAddress(address); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.String("payment_method", string(method)))

	var link domain.PaymentLink
	query := url.Values{"paymentMethod": {string(method)}}
	if err := s.api.Do(ctx, http.MethodPost, "/api/orders", address, query, &link); err != nil {
		return nil, end(span, err)
	}
	return &link, end(span, nil)
}

func (s *orderService) History(ctx context.Context) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.history")
	defer span.End()

	var orders []domain.Order
	if err := s.api.Get(ctx, "/api/orders/user", nil, &orders); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int("result.count", len(orders)))
	return orders, end(span, nil)
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.get")
	defer span.End()

	if orderID <= 0 {
		return nil, end(span, domain.ErrInvalidOrderID)
	}
	span.SetAttributes(attribute.Int64("order_id", orderID))

	var order domain.Order
	if err := s.api.Get(ctx, fmt.Sprintf("/api/orders/%d", orderID), nil, &order); err != nil {
		return nil, end(span, err)
	}
	return &order, end(span, nil)
}

func (s *orderService) Cancel(ctx context.Context, orderID int64) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.cancel")
	defer span.End()

	if orderID <= 0 {
		return "", end(span, domain.ErrInvalidOrderID)
	}
	span.SetAttributes(attribute.Int64("order_id", orderID))

	var msg string
	if err := s.api.Put(ctx, fmt.Sprintf("/api/orders/%d/cancel", orderID), nil, &msg); err != nil {
		return "", end(span, err)
	}
	return msg, end(span, nil)
}
