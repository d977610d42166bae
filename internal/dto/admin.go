package dto

import (
	"net/url"
	"strconv"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
)

// AdminListQuery pages the admin listings
type AdminListQuery struct {
	Page   int
	Size   int
	Search string
	Status domain.AccountStatus // sellers only
}

// Query encodes the listing query. Size defaults to the backend's 10.
func (q *AdminListQuery) Query() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	v.Set("page", strconv.Itoa(max(q.Page, 0)))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// PageInfo is the pagination part of the admin listing envelopes
type PageInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

// UserPage is the response of GET /admin/users
type UserPage struct {
	Users []domain.User `json:"users"`
	PageInfo
}

// SellerPage is the response of GET /admin/sellers
type SellerPage struct {
	Sellers []domain.Seller `json:"sellers"`
	PageInfo
}

// AdminProductPage is the response of GET /admin/products
type AdminProductPage struct {
	Products []domain.Product `json:"products"`
	PageInfo
}

// CategoryPage is the response of GET /admin/categories
type CategoryPage struct {
	Categories []domain.Category `json:"categories"`
	PageInfo
}

// UpdateUserRequest edits a user's profile fields (admin)
type UpdateUserRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

// UpdateRoleRequest changes a user's role (admin)
type UpdateRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// UpdateSellerStatusRequest moderates a seller account (admin)
type UpdateSellerStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required"`
}

// CategorySummary is the flat form returned by GET /admin/categories/all
type CategorySummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Level            int    `json:"level"`
	ParentCategoryID *int64 `json:"parentCategoryId,omitempty"`
}

// CouponRequest creates a coupon (admin)
type CouponRequest struct {
	Code               string  `json:"code" binding:"required"`
	DiscountPercentage float64 `json:"discountPercentage" binding:"required"`
	ValidityStartDate  string  `json:"validityStartDate"`
	ValidityEndDate    string  `json:"validityEndDate"`
	MinimumOrderValue  float64 `json:"minimumOrderValue"`
}
