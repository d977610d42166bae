package mockbackend

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

func intPtr(n int) *int { return &n }

// plans are the tiers the backend creates on first start
var plans = []domain.SubscriptionPlan{
	{ID: 1, PlanType: domain.PlanFree, Name: "Free Plan", Price: 0, MaxProducts: intPtr(2)},
	{ID: 2, PlanType: domain.PlanBeginner, Name: "Beginner Plan", Price: 1000, MaxProducts: intPtr(10)},
	{ID: 3, PlanType: domain.PlanIntermediate, Name: "Intermediate Plan", Price: 5000, MaxProducts: intPtr(100)},
	{ID: 4, PlanType: domain.PlanPro, Name: "Pro Plan", Price: 10000},
}

// requireRole rejects authenticated accounts of any other role
func requireRole(role domain.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentAccount(c).user.Role != role {
			response.Error(c, http.StatusForbidden, message)
			return
		}
		c.Next()
	}
}

func (s *Server) sellerProducts(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	products := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.Seller != nil && p.Seller.ID == acc.user.ID {
			products = append(products, *p)
		}
	}
	s.mu.Unlock()

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	response.OK(c, products)
}

func (s *Server) sellerOrders(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	orders := make([]domain.Order, 0)
	for _, o := range s.orders {
		if o.SellerID == acc.user.ID {
			orders = append(orders, *o)
		}
	}
	s.mu.Unlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	c.JSON(http.StatusAccepted, orders)
}

func (s *Server) updateSellerOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	status := domain.OrderStatus(c.Param("orderStatus"))
	if !status.IsValid() {
		response.BadRequest(c, "Invalid order status: "+c.Param("orderStatus"))
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
	case o.SellerID != acc.user.ID:
		s.mu.Unlock()
		response.Error(c, http.StatusForbidden, "You are not authorized to update this order")
		return
	}
	o.OrderStatus = status
	out := *o
	s.mu.Unlock()

	c.JSON(http.StatusAccepted, out)
}

func (s *Server) listPlans(c *gin.Context) {
	response.OK(c, plans)
}
