package dto

import "github.com/prohmpiriya/bazaar-client/internal/domain"

// AddItemRequest adds a product line to the cart
type AddItemRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// Validate validates the AddItemRequest
func (r *AddItemRequest) Validate() error {
	if r.ProductID <= 0 {
		return domain.ErrInvalidProductID
	}
	if r.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// UpdateItemRequest changes the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// Validate validates the UpdateItemRequest
func (r *UpdateItemRequest) Validate() error {
	if r.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}
