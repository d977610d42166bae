// Package mockbackend is an in-memory stand-in for the marketplace backend.
// It implements the endpoints the client sessions use, with the same paths,
// payloads and error bodies, plus per-route fault injection.
package mockbackend

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/middleware"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

// Config configures the mock backend
type Config struct {
	// OTP is the code every OTP endpoint accepts
	OTP string
	// Secret signs issued tokens (HS256)
	Secret string
	// TokenTTL is the lifetime of issued tokens
	TokenTTL time.Duration
}

// DefaultConfig returns the settings used by cmd/mock-backend
func DefaultConfig() Config {
	return Config{
		OTP:      "123456",
		Secret:   "bazaar-mock-secret",
		TokenTTL: time.Hour,
	}
}

type account struct {
	user         domain.User
	passwordHash []byte
	seller       *domain.Seller
}

// Server is the mock backend
type Server struct {
	cfg    Config
	log    *logger.Logger
	faults *middleware.FaultInjector
	router *gin.Engine

	mu        sync.Mutex
	nextID    int64
	accounts  map[string]*account // by email
	otps      map[string]string   // email -> pending code
	pending   map[string]*account // password signups awaiting their code
	products  map[int64]*domain.Product
	carts     map[int64]*domain.Cart // by user id
	orders    map[int64]*domain.Order
	wishlists map[int64]*domain.Wishlist
	reviews   map[int64][]domain.Review // by product id
}

// New creates a mock backend seeded with a demo catalog and accounts
func New(cfg Config, log *logger.Logger) *Server {
	def := DefaultConfig()
	if cfg.OTP == "" {
		cfg.OTP = def.OTP
	}
	if cfg.Secret == "" {
		cfg.Secret = def.Secret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = def.TokenTTL
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		log:       log.Named("mockbackend"),
		faults:    middleware.NewFaultInjector(),
		nextID:    100,
		accounts:  make(map[string]*account),
		otps:      make(map[string]string),
		pending:   make(map[string]*account),
		products:  make(map[int64]*domain.Product),
		carts:     make(map[int64]*domain.Cart),
		orders:    make(map[int64]*domain.Order),
		wishlists: make(map[int64]*domain.Wishlist),
		reviews:   make(map[int64][]domain.Review),
	}
	s.seed()
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// InjectFault forces a failure on requests matching method and path
func (s *Server) InjectFault(method, path string, f middleware.Fault) {
	s.faults.Set(method, path, f)
}

// ClearFaults removes every injected fault
func (s *Server) ClearFaults() {
	s.faults.Clear()
}

// AddProduct adds a product to the catalog and returns its id
func (s *Server) AddProduct(p domain.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = &p
	return p.ID
}

// AddCustomer registers a customer account directly
func (s *Server) AddCustomer(email, fullName, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccount(email, fullName, password, domain.RoleCustomer).user
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(s.log))
	r.Use(s.faults.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/sent/login-signup-otp", s.sendOtp)
		auth.POST("/signing", s.signin)
		auth.POST("/signup", s.signup)
		auth.POST("/login-password", s.loginPassword)
		auth.POST("/signup-send-otp", s.signupSendOtp)
		auth.POST("/signup-verify-otp", s.signupVerifyOtp)
	}

	r.POST("/sellers/login", s.sellerLogin)
	r.POST("/sellers/login-password", s.sellerLoginPassword)
	r.GET("/sellers/profile", s.authenticated(), s.sellerProfile)
	r.GET("/users/profile", s.authenticated(), s.profile)

	products := r.Group("/products")
	{
		products.GET("", s.listProducts)
		products.GET("/search", s.searchProducts)
		products.GET("/:productId", s.getProduct)
	}

	api := r.Group("/api", s.authenticated())
	{
		api.GET("/cart", s.getCart)
		api.PUT("/cart/add", s.addCartItem)
		api.PUT("/cart/item/:cartItemId", s.updateCartItem)
		api.DELETE("/cart/item/:cartItemId", s.removeCartItem)

		api.POST("/orders", s.createOrder)
		api.GET("/orders/user", s.orderHistory)
		api.GET("/orders/:orderId", s.getOrder)
		api.PUT("/orders/:orderId/cancel", s.cancelOrder)

		api.GET("/wishlist", s.getWishlist)
		api.POST("/wishlist/add-product/:productId", s.toggleWishlist)

		api.POST("/products/:productId/reviews", s.createReview)
	}
	r.GET("/api/products/:productId/reviews", s.listReviews)

	sellerOnly := requireRole(domain.RoleSeller, "Seller account required")
	seller := r.Group("/api", s.authenticated(), sellerOnly)
	{
		seller.GET("/sellers/products", s.sellerProducts)
		seller.GET("/seller/orders", s.sellerOrders)
		seller.PATCH("/seller/orders/:orderId/status/:orderStatus", s.updateSellerOrderStatus)
		seller.GET("/seller/subscription/plans", s.listPlans)
	}

	admin := r.Group("/admin", s.authenticated(), requireRole(domain.RoleAdmin, "Access denied. Admin role required."))
	{
		admin.GET("/users", s.adminUsers)
		admin.GET("/sellers", s.adminSellers)
	}

	return r
}

func (s *Server) seed() {
	seller := s.addAccount("seller@bazaar.test", "Demo Shop", "password", domain.RoleSeller)
	s.addAccount("customer@bazaar.test", "Demo Customer", "password", domain.RoleCustomer)

	catalog := []domain.Product{
		{Title: "Cotton Shirt", MrpPrice: 1200, SellingPrice: 900, Color: "blue", Sizes: "S,M,L", Stock: 25,
			Category: &domain.Category{CategoryID: "men_shirts", Name: "Shirts", Level: 3}},
		{Title: "Slim Fit Jeans", MrpPrice: 2000, SellingPrice: 1500, Color: "black", Sizes: "M,L,XL", Stock: 10,
			Category: &domain.Category{CategoryID: "men_jeans", Name: "Jeans", Level: 3}},
		{Title: "Silk Saree", MrpPrice: 5000, SellingPrice: 3500, Color: "red", Sizes: "FREE", Stock: 4,
			Category: &domain.Category{CategoryID: "women_sarees", Name: "Sarees", Level: 3}},
	}
	for _, p := range catalog {
		p.ID = s.id()
		p.Quantity = p.Stock
		p.DiscountPercentage = discountPercentage(p.MrpPrice, p.SellingPrice)
		p.Seller = seller.seller
		s.products[p.ID] = &p
	}
	s.addAccount("admin@bazaar.test", "Demo Admin", "password", domain.RoleAdmin)
}

// addAccount must be called with mu held
func (s *Server) addAccount(email, fullName, password string, role domain.Role) *account {
	acc := &account{
		user:         domain.User{ID: s.id(), FullName: fullName, Email: email, Role: role},
		passwordHash: hashPassword(password),
	}
	if role == domain.RoleSeller {
		acc.seller = &domain.Seller{
			ID:            acc.user.ID,
			SellerName:    fullName,
			Email:         email,
			Role:          domain.RoleSeller,
			EmailVerified: true,
			AccountStatus: domain.AccountActive,
		}
	}
	s.accounts[email] = acc
	return acc
}

// id must be called with mu held
func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func discountPercentage(mrp, selling float64) int {
	if mrp <= 0 {
		return 0
	}
	return int((mrp - selling) / mrp * 100)
}
