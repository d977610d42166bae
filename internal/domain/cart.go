package domain

// Cart is the server-resident cart. Totals are computed by the backend only.
type Cart struct {
	ID          int64      `json:"id"`
	CartItems   []CartItem `json:"cartItems"`
	TotalAmount float64    `json:"totalAmount"`
	TotalItems  int        `json:"totalItems"`
	TotalMrp    float64    `json:"totalMrPrice"`
	Discount    float64    `json:"discount"`
	CouponCode  string     `json:"couponCode,omitempty"`
}

// Clone returns a copy that shares nothing mutable with c at the line level
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.CartItems != nil {
		out.CartItems = make([]CartItem, len(c.CartItems))
		for i, it := range c.CartItems {
			if it.Product != nil {
				p := *it.Product
				it.Product = &p
			}
			out.CartItems[i] = it
		}
	}
	return &out
}

// Item returns the line with the given id
func (c *Cart) Item(id int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, it := range c.CartItems {
		if it.ID == id {
			return it, true
		}
	}
	return CartItem{}, false
}

// CartItem is one cart line with a denormalized product snapshot
type CartItem struct {
	ID           int64    `json:"id"`
	Product      *Product `json:"product,omitempty"`
	Size         string   `json:"size,omitempty"`
	Quantity     int      `json:"quantity"`
	MrpPrice     float64  `json:"mrpPrice"`
	SellingPrice float64  `json:"sellingPrice"`
	UserID       int64    `json:"userId,omitempty"`
}
