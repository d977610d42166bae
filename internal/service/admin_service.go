package service

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
)

// AdminService defines the admin console endpoints. The backend checks the
// admin role on every call.
type AdminService interface {
	Users(ctx context.Context, q *dto.AdminListQuery) (*dto.UserPage, error)
	UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*domain.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) (*dto.APIResponse, error)

	Sellers(ctx context.Context, q *dto.AdminListQuery) (*dto.SellerPage, error)
	UpdateSellerStatus(ctx context.Context, sellerID int64, status domain.AccountStatus) (*domain.Seller, error)
	VerifySellerEmail(ctx context.Context, sellerID int64) (*domain.Seller, error)
	DeleteSeller(ctx context.Context, sellerID int64) (*dto.APIResponse, error)

	Products(ctx context.Context, q *dto.AdminListQuery) (*dto.AdminProductPage, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) (*dto.APIResponse, error)

	Categories(ctx context.Context, q *dto.AdminListQuery) (*dto.CategoryPage, error)
	AllCategories(ctx context.Context) ([]dto.CategorySummary, error)
	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, req *dto.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) (*dto.APIResponse, error)

	Coupons(ctx context.Context) ([]domain.Coupon, error)
	CreateCoupon(ctx context.Context, req *dto.CouponRequest) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID int64) error
}

type adminService struct {
	api Requester
}

// NewAdminService creates a new admin service
func NewAdminService(api Requester) AdminService {
	return &adminService{api: api}
}

func (s *adminService) Users(ctx context.Context, q *dto.AdminListQuery) (*dto.UserPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.users")
	defer span.End()

	var page dto.UserPage
	if err := s.api.Get(ctx, "/admin/users", q.Query(), &page); err != nil {
		return nil, end(span, err)
	}
	return &page, end(span, nil)
}

func (s *adminService) UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_user")
	defer span.End()

	var user domain.User
	if err := s.api.Put(ctx, fmt.Sprintf("/admin/users/%d", userID), req, &user); err != nil {
		return nil, end(span, err)
	}
	return &user, end(span, nil)
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_user_role")
	defer span.End()

	if !role.IsValid() {
		return nil, end(span, domain.ErrInvalidRole)
	}
	var user domain.User
	path := fmt.Sprintf("/admin/users/%d/role", userID)
	if err := s.api.Put(ctx, path, &dto.UpdateRoleRequest{Role: role}, &user); err != nil {
		return nil, end(span, err)
	}
	return &user, end(span, nil)
}

func (s *adminService) DeleteUser(ctx context.Context, userID int64) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_user")
	defer span.End()

	var res dto.APIResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/admin/users/%d", userID), &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *adminService) Sellers(ctx context.Context, q *dto.AdminListQuery) (*dto.SellerPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.sellers")
	defer span.End()

	var page dto.SellerPage
	if err := s.api.Get(ctx, "/admin/sellers", q.Query(), &page); err != nil {
		return nil, end(span, err)
	}
	return &page, end(span, nil)
}

func (s *adminService) UpdateSellerStatus(ctx context.Context, sellerID int64, status domain.AccountStatus) (*domain.Seller, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_seller_status")
	defer span.End()

	if !status.IsValid() {
		return nil, end(span, fmt.Errorf("unknown account status %q", status))
	}
	var seller domain.Seller
	path := fmt.Sprintf("/admin/sellers/%d/status", sellerID)
	if err := s.api.Patch(ctx, path, &dto.UpdateSellerStatusRequest{Status: status}, &seller); err != nil {
		return nil, end(span, err)
	}
	return &seller, end(span, nil)
}

func (s *adminService) VerifySellerEmail(ctx context.Context, sellerID int64) (*domain.Seller, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.verify_seller_email")
	defer span.End()

	var seller domain.Seller
	if err := s.api.Patch(ctx, fmt.Sprintf("/admin/sellers/%d/verify-email", sellerID), nil, &seller); err != nil {
		return nil, end(span, err)
	}
	return &seller, end(span, nil)
}

func (s *adminService) DeleteSeller(ctx context.Context, sellerID int64) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_seller")
	defer span.End()

	var res dto.APIResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/admin/sellers/%d", sellerID), &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *adminService) Products(ctx context.Context, q *dto.AdminListQuery) (*dto.AdminProductPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.products")
	defer span.End()

	var page dto.AdminProductPage
	if err := s.api.Get(ctx, "/admin/products", q.Query(), &page); err != nil {
		return nil, end(span, err)
	}
	return &page, end(span, nil)
}

func (s *adminService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_product")
	defer span.End()

	if product == nil || product.ID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	var out domain.Product
	if err := s.api.Put(ctx, fmt.Sprintf("/admin/products/%d", product.ID), product, &out); err != nil {
		return nil, end(span, err)
	}
	return &out, end(span, nil)
}

func (s *adminService) DeleteProduct(ctx context.Context, productID int64) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_product")
	defer span.End()

	var res dto.APIResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/admin/products/%d", productID), &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *adminService) Categories(ctx context.Context, q *dto.AdminListQuery) (*dto.CategoryPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.categories")
	defer span.End()

	var page dto.CategoryPage
	if err := s.api.Get(ctx, "/admin/categories", q.Query(), &page); err != nil {
		return nil, end(span, err)
	}
	return &page, end(span, nil)
}

func (s *adminService) AllCategories(ctx context.Context) ([]dto.CategorySummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.all_categories")
	defer span.End()

	var cats []dto.CategorySummary
	if err := s.api.Get(ctx, "/admin/categories/all", nil, &cats); err != nil {
		return nil, end(span, err)
	}
	return cats, end(span, nil)
}

func (s *adminService) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.create_category")
	defer span.End()

	var c domain.Category
	if err := s.api.Post(ctx, "/admin/categories", req, &c); err != nil {
		return nil, end(span, err)
	}
	return &c, end(span, nil)
}

func (s *adminService) UpdateCategory(ctx context.Context, categoryID int64, req *dto.CategoryRequest) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_category")
	defer span.End()

	var c domain.Category
	if err := s.api.Put(ctx, fmt.Sprintf("/admin/categories/%d", categoryID), req, &c); err != nil {
		return nil, end(span, err)
	}
	return &c, end(span, nil)
}

func (s *adminService) DeleteCategory(ctx context.Context, categoryID int64) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_category")
	defer span.End()

	var res dto.APIResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/admin/categories/%d", categoryID), &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *adminService) Coupons(ctx context.Context) ([]domain.Coupon, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.coupons")
	defer span.End()

	var coupons []domain.Coupon
	if err := s.api.Get(ctx, "/api/coupons/admin/all", nil, &coupons); err != nil {
		return nil, end(span, err)
	}
	return coupons, end(span, nil)
}

func (s *adminService) CreateCoupon(ctx context.Context, req *dto.CouponRequest) (*domain.Coupon, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.create_coupon")
	defer span.End()

	var coupon domain.Coupon
	if err := s.api.Post(ctx, "/api/coupons/admin/create", req, &coupon); err != nil {
		return nil, end(span, err)
	}
	return &coupon, end(span, nil)
}

func (s *adminService) DeleteCoupon(ctx context.Context, couponID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_coupon")
	defer span.End()
	return end(span, s.api.Delete(ctx, fmt.Sprintf("/api/coupons/admin/delete/%d", couponID), nil))
}
