package domain

// Wishlist is the user's saved products
type Wishlist struct {
	ID       int64     `json:"id"`
	Products []Product `json:"products"`
}

// Contains reports whether the product is on the wishlist
func (w *Wishlist) Contains(productID int64) bool {
	if w == nil {
		return false
	}
	for _, p := range w.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Review is a product rating by a customer
type Review struct {
	ID            int64    `json:"id"`
	ReviewText    string   `json:"reviewText"`
	Rating        float64  `json:"rating"`
	ProductImages []string `json:"productImages,omitempty"`
	User          *User    `json:"user,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}

// Discussion is a question or comment on a product page
type Discussion struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	User      *User  `json:"user,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Coupon is an admin-managed discount code
type Coupon struct {
	ID                 int64   `json:"id"`
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
	ValidityStartDate  string  `json:"validityStartDate"`
	ValidityEndDate    string  `json:"validityEndDate"`
	MinimumOrderValue  float64 `json:"minimumOrderValue"`
	IsActive           bool    `json:"isActive"`
}
