package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
)

// ProductFilter is the query of GET /products. Zero values are omitted.
type ProductFilter struct {
	Category    string
	Brand       string
	Colors      []string
	Sizes       []string
	MinPrice    int
	MaxPrice    int
	MinDiscount int
	Sort        string // price_low, price_high
	Stock       string // in_stock, out_of_stock
	PageNumber  int
	PageSize    int
}

// Query encodes the filter as backend query parameters
func (f *ProductFilter) Query() url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}
	setString(q, "category", f.Category)
	setString(q, "brand", f.Brand)
	setString(q, "colors", strings.Join(f.Colors, ","))
	setString(q, "sizes", strings.Join(f.Sizes, ","))
	setInt(q, "minPrice", f.MinPrice)
	setInt(q, "maxPrice", f.MaxPrice)
	setInt(q, "minDiscount", f.MinDiscount)
	setString(q, "sort", f.Sort)
	setString(q, "stock", f.Stock)
	setInt(q, "pageNumber", f.PageNumber)
	setInt(q, "pageSize", f.PageSize)
	return q
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

// ProductPage is the paged response of GET /products
type ProductPage struct {
	Content       []domain.Product `json:"content"`
	TotalElements int              `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Number        int              `json:"number"`
	Size          int              `json:"size"`
	Last          bool             `json:"last"`
}

// CreateProductRequest is the seller's new-product form
type CreateProductRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	MrpPrice     float64  `json:"mrpPrice" binding:"required"`
	SellingPrice float64  `json:"sellingPrice" binding:"required"`
	Quantity     int      `json:"quantity"`
	Color        string   `json:"color,omitempty"`
	Images       []string `json:"images"`
	Category     string   `json:"category"`
	Category2    string   `json:"category2"`
	Category3    string   `json:"category3"`
	Size         string   `json:"size,omitempty"`
}

// Validate validates the CreateProductRequest
func (r *CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidProduct)
	}
	if r.MrpPrice <= 0 || r.SellingPrice <= 0 {
		return fmt.Errorf("%w: prices must be positive", domain.ErrInvalidProduct)
	}
	if r.SellingPrice > r.MrpPrice {
		return fmt.Errorf("%w: selling price exceeds mrp", domain.ErrInvalidProduct)
	}
	return nil
}

// CategoryRequest creates or updates a category (admin)
type CategoryRequest struct {
	Name             string `json:"name" binding:"required"`
	Image            string `json:"image,omitempty"`
	Level            int    `json:"level" binding:"required,min=1,max=3"`
	ParentCategoryID *int64 `json:"parentCategoryId,omitempty"`
}

// ReviewRequest creates or updates a review
type ReviewRequest struct {
	ReviewText    string   `json:"reviewText"`
	ReviewRating  float64  `json:"reviewRating" binding:"required,min=1,max=5"`
	ProductImages []string `json:"productImages"`
}

// Validate validates the ReviewRequest
func (r *ReviewRequest) Validate() error {
	if r.ReviewRating < 1 || r.ReviewRating > 5 {
		return domain.ErrInvalidRating
	}
	return nil
}

// DiscussionRequest posts a product discussion
type DiscussionRequest struct {
	Content string `json:"content" binding:"required"`
}
