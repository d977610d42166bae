package mockbackend

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

const deliveryDays = 7

// createOrder turns the cart into one order per seller and empties it
func (s *Server) createOrder(c *gin.Context) {
	method := domain.PaymentMethod(c.Query("paymentMethod"))
	if !method.IsValid() {
		response.BadRequest(c, "Invalid payment method: "+c.Query("paymentMethod"))
		return
	}
	var address domain.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.ValidateAddress(&address); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	cart := s.cartFor(acc.user.ID)
	if len(cart.CartItems) == 0 {
		s.mu.Unlock()
		response.BadRequest(c, "Cart is empty")
		return
	}

	address.ID = s.id()
	now := time.Now().UTC()
	bySeller := make(map[int64][]domain.CartItem)
	for _, it := range cart.CartItems {
		var sellerID int64
		if it.Product != nil && it.Product.Seller != nil {
			sellerID = it.Product.Seller.ID
		}
		bySeller[sellerID] = append(bySeller[sellerID], it)
	}
	sellers := make([]int64, 0, len(bySeller))
	for id := range bySeller {
		sellers = append(sellers, id)
	}
	sort.Slice(sellers, func(i, j int) bool { return sellers[i] < sellers[j] })

	user := acc.user
	for _, sellerID := range sellers {
		order := &domain.Order{
			ID:              s.id(),
			OrderID:         uuid.NewString(),
			User:            &user,
			SellerID:        sellerID,
			OrderItems:      []domain.OrderItem{},
			OrderDate:       now.Format(time.RFC3339),
			DeliverDate:     now.AddDate(0, 0, deliveryDays).Format(time.RFC3339),
			ShippingAddress: &address,
			PaymentDetails: domain.PaymentDetails{
				Status:        domain.PaymentStatusPending,
				PaymentMethod: string(method),
			},
			OrderStatus:   domain.OrderStatusPending,
			PaymentStatus: domain.PaymentStatusPending,
		}
		for _, it := range bySeller[sellerID] {
			order.OrderItems = append(order.OrderItems, domain.OrderItem{
				ID:           s.id(),
				Product:      it.Product,
				Size:         it.Size,
				Quantity:     it.Quantity,
				MrpPrice:     it.MrpPrice,
				SellingPrice: it.SellingPrice,
				UserID:       user.ID,
			})
			order.TotalMrpPrice += it.MrpPrice
			order.TotalSellingPrice += it.SellingPrice
			order.TotalItem += it.Quantity
		}
		order.Discount = order.TotalMrpPrice - order.TotalSellingPrice
		s.orders[order.ID] = order
	}

	paymentID := s.id()
	cart.CartItems = []domain.CartItem{}
	recalculate(cart)
	s.mu.Unlock()

	link := domain.PaymentLink{
		URL: fmt.Sprintf("https://checkout.stripe.com/c/pay/cs_test_%d", paymentID),
		ID:  fmt.Sprintf("cs_test_%d", paymentID),
	}
	if method == domain.PaymentMethodCashOnDelivery {
		link = domain.PaymentLink{URL: "COD", ID: fmt.Sprintf("COD-%d", paymentID)}
	}
	response.OK(c, link)
}

func (s *Server) orderHistory(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	orders := make([]domain.Order, 0)
	for _, o := range s.orders {
		if o.User != nil && o.User.ID == acc.user.ID {
			orders = append(orders, *o)
		}
	}
	s.mu.Unlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	c.JSON(http.StatusAccepted, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	s.mu.Lock()
	o, found := s.orders[id]
	var out domain.Order
	if found {
		out = *o
	}
	s.mu.Unlock()

	if !found {
		response.NotFound(c, "Order not found with id: "+c.Param("orderId"))
		return
	}
	c.JSON(http.StatusAccepted, out)
}

func (s *Server) cancelOrder(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	o, found := s.orders[id]
	switch {
	case !found:
		s.mu.Unlock()
		response.NotFound(c, "Order not found with id: "+c.Param("orderId"))
		return
	case o.User == nil || o.User.ID != acc.user.ID:
		s.mu.Unlock()
		response.Error(c, http.StatusForbidden, "You are not authorized to cancel this order")
		return
	case !o.OrderStatus.IsCancellable():
		s.mu.Unlock()
		response.BadRequest(c, "Order cannot be cancelled in status "+strings.ToLower(string(o.OrderStatus)))
		return
	}
	o.OrderStatus = domain.OrderStatusCancelled
	o.PaymentDetails.Status = domain.PaymentStatusCancelled
	s.mu.Unlock()

	c.String(http.StatusOK, "Order cancelled successfully")
}

func (s *Server) getWishlist(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	wl := copyWishlist(s.wishlistFor(acc.user.ID))
	s.mu.Unlock()

	response.OK(c, wl)
}

// toggleWishlist adds the product, or removes it when already present
func (s *Server) toggleWishlist(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	product, found := s.products[id]
	if !found {
		s.mu.Unlock()
		response.NotFound(c, "Product not found")
		return
	}
	wl := s.wishlistFor(acc.user.ID)
	if wl.Contains(id) {
		kept := wl.Products[:0]
		for _, p := range wl.Products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		wl.Products = kept
	} else {
		wl.Products = append(wl.Products, *product)
	}
	out := copyWishlist(wl)
	s.mu.Unlock()

	response.OK(c, out)
}

// wishlistFor must be called with mu held
func (s *Server) wishlistFor(userID int64) *domain.Wishlist {
	wl, ok := s.wishlists[userID]
	if !ok {
		wl = &domain.Wishlist{ID: s.id(), Products: []domain.Product{}}
		s.wishlists[userID] = wl
	}
	return wl
}

func copyWishlist(wl *domain.Wishlist) domain.Wishlist {
	out := *wl
	out.Products = append([]domain.Product{}, wl.Products...)
	return out
}
