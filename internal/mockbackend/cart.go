package mockbackend

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

// cartFor returns the user's cart, creating it on first use. Must be called with mu held.
func (s *Server) cartFor(userID int64) *domain.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &domain.Cart{ID: s.id(), CartItems: []domain.CartItem{}}
		s.carts[userID] = cart
	}
	return cart
}

// recalculate derives the cart totals from its lines. Line prices are
// already multiplied by quantity.
func recalculate(cart *domain.Cart) {
	var mrp, selling float64
	items := 0
	for _, it := range cart.CartItems {
		mrp += it.MrpPrice
		selling += it.SellingPrice
		items += it.Quantity
	}
	cart.TotalMrp = mrp
	cart.TotalAmount = selling
	cart.TotalItems = items
	cart.Discount = float64(discountPercentage(mrp, selling))
}

func copyCart(cart *domain.Cart) domain.Cart {
	out := *cart
	out.CartItems = append([]domain.CartItem{}, cart.CartItems...)
	return out
}

func (s *Server) getCart(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	cart := copyCart(s.cartFor(acc.user.ID))
	s.mu.Unlock()

	response.OK(c, cart)
}

func (s *Server) addCartItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	product, ok := s.products[req.ProductID]
	if !ok {
		s.mu.Unlock()
		response.NotFound(c, "Product not found")
		return
	}
	cart := s.cartFor(acc.user.ID)

	// the same product and size is one line; adding it again returns that line
	for _, it := range cart.CartItems {
		if it.Product != nil && it.Product.ID == product.ID && it.Size == req.Size {
			s.mu.Unlock()
			c.JSON(http.StatusAccepted, it)
			return
		}
	}

	p := *product
	item := domain.CartItem{
		ID:           s.id(),
		Product:      &p,
		Size:         req.Size,
		Quantity:     req.Quantity,
		MrpPrice:     product.MrpPrice * float64(req.Quantity),
		SellingPrice: product.SellingPrice * float64(req.Quantity),
		UserID:       acc.user.ID,
	}
	cart.CartItems = append(cart.CartItems, item)
	recalculate(cart)
	s.mu.Unlock()

	c.JSON(http.StatusAccepted, item)
}

func (s *Server) updateCartItem(c *gin.Context) {
	id, ok := pathID(c, "cartItemId")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	cart := s.cartFor(acc.user.ID)
	idx := lineIndex(cart, id)
	if idx < 0 {
		s.mu.Unlock()
		response.NotFound(c, "Cart item not found with id: "+c.Param("cartItemId"))
		return
	}
	it := &cart.CartItems[idx]
	it.Quantity = req.Quantity
	if it.Product != nil {
		it.MrpPrice = it.Product.MrpPrice * float64(req.Quantity)
		it.SellingPrice = it.Product.SellingPrice * float64(req.Quantity)
	}
	updated := *it
	recalculate(cart)
	s.mu.Unlock()

	c.JSON(http.StatusAccepted, updated)
}

func (s *Server) removeCartItem(c *gin.Context) {
	id, ok := pathID(c, "cartItemId")
	if !ok {
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	cart := s.cartFor(acc.user.ID)
	idx := lineIndex(cart, id)
	if idx < 0 {
		s.mu.Unlock()
		response.NotFound(c, "Cart item not found with id: "+c.Param("cartItemId"))
		return
	}
	cart.CartItems = append(cart.CartItems[:idx], cart.CartItems[idx+1:]...)
	recalculate(cart)
	s.mu.Unlock()

	response.Accepted(c, "Item Remove From Cart")
}

func lineIndex(cart *domain.Cart, id int64) int {
	for i, it := range cart.CartItems {
		if it.ID == id {
			return i
		}
	}
	return -1
}
