package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// SellerService defines the seller dashboard endpoints
type SellerService interface {
	// Register creates a seller account; the backend emails a verification code
	Register(ctx context.Context, req *dto.SellerSignupRequest) (*domain.Seller, error)
	// VerifyEmail redeems the registration code for a seller token
	VerifyEmail(ctx context.Context, otp string) (*dto.AuthResponse, error)
	Update(ctx context.Context, seller *domain.Seller) (*domain.Seller, error)
	Report(ctx context.Context) (*domain.SellerReport, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopSellingProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)

	Products(ctx context.Context) ([]domain.Product, error)
	ProductStats(ctx context.Context) (*domain.ProductStats, error)
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error

	Orders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error)
	SendToDelivery(ctx context.Context, orderID int64) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

type sellerService struct {
	api Requester
}

// NewSellerService creates a new seller service
func NewSellerService(api Requester) SellerService {
	return &sellerService{api: api}
}

func (s *sellerService) Register(ctx context.Context, req *dto.SellerSignupRequest) (*domain.Seller, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.register")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	var seller domain.Seller
	if err := s.api.Post(ctx, "/sellers", req, &seller); err != nil {
		return nil, end(span, err)
	}
	return &seller, end(span, nil)
}

func (s *sellerService) VerifyEmail(ctx context.Context, otp string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.verify_email")
	defer span.End()

	if otp == "" {
		return nil, end(span, domain.ErrInvalidOTP)
	}
	var res dto.AuthResponse
	if err := s.api.Patch(ctx, "/sellers/verify/"+url.PathEscape(otp), nil, &res); err != nil {
		return nil, end(span, err)
	}
	if res.JWT == "" {
		return nil, end(span, domain.ErrNoToken)
	}
	return &res, end(span, nil)
}

func (s *sellerService) Update(ctx context.Context, seller *domain.Seller) (*domain.Seller, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.update")
	defer span.End()

	var out domain.Seller
	if err := s.api.Patch(ctx, "/sellers", seller, &out); err != nil {
		return nil, end(span, err)
	}
	return &out, end(span, nil)
}

func (s *sellerService) Report(ctx context.Context) (*domain.SellerReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.report")
	defer span.End()

	var report domain.SellerReport
	if err := s.api.Get(ctx, "/sellers/report", nil, &report); err != nil {
		return nil, end(span, err)
	}
	return &report, end(span, nil)
}

func (s *sellerService) TopProducts(ctx context.Context, limit int) ([]domain.TopSellingProduct, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.top_products")
	defer span.End()

	var rows []domain.TopSellingProduct
	if err := s.api.Get(ctx, "/sellers/analytics/top-products", limitQuery(limit), &rows); err != nil {
		return nil, end(span, err)
	}
	return rows, end(span, nil)
}

func (s *sellerService) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.recent_orders")
	defer span.End()

	var orders []domain.Order
	if err := s.api.Get(ctx, "/sellers/analytics/recent-orders", limitQuery(limit), &orders); err != nil {
		return nil, end(span, err)
	}
	return orders, end(span, nil)
}

func (s *sellerService) Products(ctx context.Context) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.products")
	defer span.End()

	var products []domain.Product
	if err := s.api.Get(ctx, "/api/sellers/products", nil, &products); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, end(span, nil)
}

func (s *sellerService) ProductStats(ctx context.Context) (*domain.ProductStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.product_stats")
	defer span.End()

	var stats domain.ProductStats
	if err := s.api.Get(ctx, "/api/sellers/products/statistics", nil, &stats); err != nil {
		return nil, end(span, err)
	}
	return &stats, end(span, nil)
}

func (s *sellerService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.create_product")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	var product domain.Product
	if err := s.api.Post(ctx, "/api/sellers/products", req, &product); err != nil {
		return nil, end(span, err)
	}
	return &product, end(span, nil)
}

func (s *sellerService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.update_product")
	defer span.End()

	if product == nil || product.ID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	var out domain.Product
	if err := s.api.Put(ctx, fmt.Sprintf("/api/sellers/products/%d", product.ID), product, &out); err != nil {
		return nil, end(span, err)
	}
	return &out, end(span, nil)
}

func (s *sellerService) DeleteProduct(ctx context.Context, productID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.delete_product")
	defer span.End()

	if productID <= 0 {
		return end(span, domain.ErrInvalidProductID)
	}
	return end(span, s.api.Delete(ctx, fmt.Sprintf("/api/sellers/products/%d", productID), nil))
}

func (s *sellerService) Orders(ctx context.Context) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.orders")
	defer span.End()

	var orders []domain.Order
	if err := s.api.Get(ctx, "/api/seller/orders", nil, &orders); err != nil {
		return nil, end(span, err)
	}
	return orders, end(span, nil)
}

func (s *sellerService) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.update_order_status")
	defer span.End()

	if orderID <= 0 {
		return nil, end(span, domain.ErrInvalidOrderID)
	}
	if !status.IsValid() {
		return nil, end(span, domain.ErrInvalidOrderStatus)
	}
	span.SetAttributes(attribute.Int64("order_id", orderID), attribute.String("status", string(status)))

	var order domain.Order
	path := fmt.Sprintf("/api/seller/orders/%d/status/%s", orderID, status)
	if err := s.api.Patch(ctx, path, nil, &order); err != nil {
		return nil, end(span, err)
	}
	return &order, end(span, nil)
}

func (s *sellerService) SendToDelivery(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.send_to_delivery")
	defer span.End()

	if orderID <= 0 {
		return nil, end(span, domain.ErrInvalidOrderID)
	}
	var order domain.Order
	if err := s.api.Post(ctx, fmt.Sprintf("/api/seller/orders/%d/send-to-delivery", orderID), nil, &order); err != nil {
		return nil, end(span, err)
	}
	return &order, end(span, nil)
}

func (s *sellerService) DeleteOrder(ctx context.Context, orderID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.seller.delete_order")
	defer span.End()

	if orderID <= 0 {
		return end(span, domain.ErrInvalidOrderID)
	}
	return end(span, s.api.Delete(ctx, fmt.Sprintf("/api/seller/orders/%d/delete", orderID), nil))
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
