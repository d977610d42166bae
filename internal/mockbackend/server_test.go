package mockbackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/internal/tokenstore"
	"github.com/prohmpiriya/bazaar-client/pkg/middleware"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	return New(Config{}, nil)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func loginCustomer(t *testing.T, s *Server, email string) string {
	t.Helper()
	w := doRequest(t, s, http.MethodPost, "/auth/sent/login-signup-otp", "",
		dto.SendOtpRequest{Email: email, Role: domain.RoleCustomer})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodPost, "/auth/signing", "", dto.SigninRequest{Email: email, OTP: "123456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody[dto.AuthResponse](t, w).JWT
}

func TestHealth(t *testing.T) {
	w := doRequest(t, newTestServer(), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSignin_IssuesBackendClaims(t *testing.T) {
	s := newTestServer()
	token := loginCustomer(t, s, "customer@bazaar.test")

	claims, err := tokenstore.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "customer@bazaar.test", claims.Email)
	assert.Equal(t, "ROLE_CUSTOMER", claims.Authorities)

	exp, ok := claims.Expiry()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestSignin_WrongOtp(t *testing.T) {
	s := newTestServer()
	doRequest(t, s, http.MethodPost, "/auth/sent/login-signup-otp", "",
		dto.SendOtpRequest{Email: "customer@bazaar.test", Role: domain.RoleCustomer})

	w := doRequest(t, s, http.MethodPost, "/auth/signing", "",
		dto.SigninRequest{Email: "customer@bazaar.test", OTP: "000000"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[response.ErrorBody](t, w)
	assert.Equal(t, "Invalid OTP", body.Message)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, "/auth/signing", body.Path)
}

func TestSignin_OtpIsSingleUse(t *testing.T) {
	s := newTestServer()
	loginCustomer(t, s, "customer@bazaar.test")

	w := doRequest(t, s, http.MethodPost, "/auth/signing", "",
		dto.SigninRequest{Email: "customer@bazaar.test", OTP: "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordLogin(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		path   string
		email  string
		pass   string
		status int
	}{
		{"customer", "/auth/login-password", "customer@bazaar.test", "password", http.StatusOK},
		{"wrong password", "/auth/login-password", "customer@bazaar.test", "nope", http.StatusBadRequest},
		{"seller on customer endpoint", "/auth/login-password", "seller@bazaar.test", "password", http.StatusBadRequest},
		{"seller", "/sellers/login-password", "seller@bazaar.test", "password", http.StatusOK},
		{"customer on seller endpoint", "/sellers/login-password", "customer@bazaar.test", "password", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, tt.path, "", dto.PasswordLoginRequest{Email: tt.email, Password: tt.pass})
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestPasswordSignupFlow(t *testing.T) {
	s := newTestServer()

	w := doRequest(t, s, http.MethodPost, "/auth/signup-send-otp", "",
		dto.SignupWithPasswordRequest{Email: "new@bazaar.test", FullName: "New", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodPost, "/auth/signup-verify-otp", "",
		dto.VerifyOtpRequest{Email: "new@bazaar.test", OTP: "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody[dto.AuthResponse](t, w).JWT

	w = doRequest(t, s, http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New", decodeBody[domain.User](t, w).FullName)

	w = doRequest(t, s, http.MethodPost, "/auth/login-password", "",
		dto.PasswordLoginRequest{Email: "new@bazaar.test", Password: "secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodPost, "/auth/signup-verify-otp", "",
		dto.VerifyOtpRequest{Email: "new@bazaar.test", OTP: "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no pending signup left")
}

func TestAuthenticated_RejectsBadTokens(t *testing.T) {
	s := newTestServer()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenstore.Claims{
		Email: "customer@bazaar.test",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(DefaultConfig().Secret))
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenstore.Claims{Email: "customer@bazaar.test"}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing": "",
		"garbage": "not-a-jwt",
		"expired": expiredToken,
		"foreign": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodGet, "/api/cart", token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Invalid token", decodeBody[response.ErrorBody](t, w).Message)
		})
	}
}

func TestSellerProfile(t *testing.T) {
	s := newTestServer()
	w := doRequest(t, s, http.MethodPost, "/sellers/login-password", "",
		dto.PasswordLoginRequest{Email: "seller@bazaar.test", Password: "password"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody[dto.AuthResponse](t, w).JWT

	w = doRequest(t, s, http.MethodGet, "/sellers/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	seller := decodeBody[domain.Seller](t, w)
	assert.Equal(t, "Demo Shop", seller.SellerName)
	assert.Equal(t, domain.AccountActive, seller.AccountStatus)

	w = doRequest(t, s, http.MethodGet, "/users/profile", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProducts_FilterAndPage(t *testing.T) {
	s := newTestServer()

	w := doRequest(t, s, http.MethodGet, "/products?sort=price_high", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[dto.ProductPage](t, w)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Silk Saree", page.Content[0].Title)
	assert.True(t, page.Last)

	w = doRequest(t, s, http.MethodGet, "/products?category=men_shirts", "", nil)
	page = decodeBody[dto.ProductPage](t, w)
	require.Len(t, page.Content, 1)
	assert.Equal(t, 25, page.Content[0].DiscountPercentage)

	w = doRequest(t, s, http.MethodGet, "/products?sizes=XL,FREE&maxPrice=2000", "", nil)
	page = decodeBody[dto.ProductPage](t, w)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Slim Fit Jeans", page.Content[0].Title)

	w = doRequest(t, s, http.MethodGet, "/products?pageSize=2&pageNumber=1", "", nil)
	page = decodeBody[dto.ProductPage](t, w)
	assert.Len(t, page.Content, 1)
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)
}

func TestProducts_SearchAndGet(t *testing.T) {
	s := newTestServer()

	w := doRequest(t, s, http.MethodGet, "/products/search?query=jeans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeBody[[]domain.Product](t, w)
	require.Len(t, found, 1)

	w = doRequest(t, s, http.MethodGet, "/products/"+itoa(found[0].ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Slim Fit Jeans", decodeBody[domain.Product](t, w).Title)

	w = doRequest(t, s, http.MethodGet, "/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody[response.ErrorBody](t, w).Message)

	w = doRequest(t, s, http.MethodGet, "/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_LinesAndTotals(t *testing.T) {
	s := newTestServer()
	token := loginCustomer(t, s, "customer@bazaar.test")
	shirt := s.AddProduct(domain.Product{Title: "Linen Shirt", MrpPrice: 1000, SellingPrice: 800, Sizes: "M", Stock: 3})

	w := doRequest(t, s, http.MethodPut, "/api/cart/add", token, dto.AddItemRequest{ProductID: shirt, Size: "M", Quantity: 2})
	require.Equal(t, http.StatusAccepted, w.Code)
	item := decodeBody[domain.CartItem](t, w)
	assert.Equal(t, 2000.0, item.MrpPrice)
	assert.Equal(t, 1600.0, item.SellingPrice)

	w = doRequest(t, s, http.MethodPut, "/api/cart/add", token, dto.AddItemRequest{ProductID: shirt, Size: "M", Quantity: 5})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, item.ID, decodeBody[domain.CartItem](t, w).ID, "same product and size is one line")

	w = doRequest(t, s, http.MethodPut, "/api/cart/item/"+itoa(item.ID), token, dto.UpdateItemRequest{Quantity: 3})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeBody[domain.Cart](t, w)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, 2400.0, cart.TotalAmount)
	assert.Equal(t, 3000.0, cart.TotalMrp)
	assert.Equal(t, 20.0, cart.Discount)

	w = doRequest(t, s, http.MethodDelete, "/api/cart/item/"+itoa(item.ID), token, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "Item Remove From Cart", decodeBody[response.APIResponse](t, w).Message)

	w = doRequest(t, s, http.MethodDelete, "/api/cart/item/"+itoa(item.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrders_CheckoutHistoryCancel(t *testing.T) {
	s := newTestServer()
	token := loginCustomer(t, s, "customer@bazaar.test")
	products := decodeBody[[]domain.Product](t, doRequest(t, s, http.MethodGet, "/products/search?query=shirt", "", nil))
	require.NotEmpty(t, products)

	doRequest(t, s, http.MethodPut, "/api/cart/add", token, dto.AddItemRequest{ProductID: products[0].ID, Size: "M", Quantity: 1})

	address := domain.Address{Name: "Ann", Mobile: "9000000000", Street: "1 Main", City: "Pune", State: "MH", Pincode: "411001"}

	w := doRequest(t, s, http.MethodPost, "/api/orders?paymentMethod=BITCOIN", token, address)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/orders?paymentMethod=CASH_ON_DELIVERY", token, address)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	link := decodeBody[domain.PaymentLink](t, w)
	assert.True(t, link.IsCashOnDelivery())
	assert.Regexp(t, `^COD-\d+$`, link.ID)

	cart := decodeBody[domain.Cart](t, doRequest(t, s, http.MethodGet, "/api/cart", token, nil))
	assert.Empty(t, cart.CartItems, "checkout empties the cart")

	w = doRequest(t, s, http.MethodPost, "/api/orders?paymentMethod=STRIPE", token, address)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	w = doRequest(t, s, http.MethodGet, "/api/orders/user", token, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	orders := decodeBody[[]domain.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, "1 Main", orders[0].ShippingAddress.Street)
	assert.Equal(t, domain.OrderStatusPending, orders[0].OrderStatus)

	s.AddCustomer("other@bazaar.test", "Other", "")
	other := loginCustomer(t, s, "other@bazaar.test")
	w = doRequest(t, s, http.MethodPut, "/api/orders/"+itoa(orders[0].ID)+"/cancel", other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s, http.MethodPut, "/api/orders/"+itoa(orders[0].ID)+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order cancelled successfully", w.Body.String())

	w = doRequest(t, s, http.MethodGet, "/api/orders/"+itoa(orders[0].ID), token, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, domain.OrderStatusCancelled, decodeBody[domain.Order](t, w).OrderStatus)

	w = doRequest(t, s, http.MethodPut, "/api/orders/"+itoa(orders[0].ID)+"/cancel", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWishlist_Toggle(t *testing.T) {
	s := newTestServer()
	token := loginCustomer(t, s, "customer@bazaar.test")
	id := s.AddProduct(domain.Product{Title: "Scarf", MrpPrice: 300, SellingPrice: 250})

	w := doRequest(t, s, http.MethodPost, "/api/wishlist/add-product/"+itoa(id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	wl := decodeBody[domain.Wishlist](t, w)
	assert.True(t, wl.Contains(id))

	w = doRequest(t, s, http.MethodPost, "/api/wishlist/add-product/"+itoa(id), token, nil)
	wl = decodeBody[domain.Wishlist](t, w)
	assert.False(t, wl.Contains(id))

	wl = decodeBody[domain.Wishlist](t, doRequest(t, s, http.MethodGet, "/api/wishlist", token, nil))
	assert.Empty(t, wl.Products)
}

func TestReviews(t *testing.T) {
	s := newTestServer()
	token := loginCustomer(t, s, "customer@bazaar.test")
	id := s.AddProduct(domain.Product{Title: "Mug", MrpPrice: 200, SellingPrice: 150})

	w := doRequest(t, s, http.MethodPost, "/api/products/"+itoa(id)+"/reviews", "", dto.ReviewRequest{ReviewRating: 4})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/products/"+itoa(id)+"/reviews", token,
		dto.ReviewRequest{ReviewText: "Solid", ReviewRating: 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, s, http.MethodGet, "/api/products/"+itoa(id)+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews := decodeBody[[]domain.Review](t, w)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Solid", reviews[0].ReviewText)
	assert.Equal(t, "Demo Customer", reviews[0].User.FullName)
}

func TestInjectFault(t *testing.T) {
	s := newTestServer()
	s.InjectFault(http.MethodGet, "/products", middleware.Fault{Status: http.StatusServiceUnavailable, Message: "maintenance", Times: 1})

	w := doRequest(t, s, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "maintenance", decodeBody[response.ErrorBody](t, w).Message)

	w = doRequest(t, s, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s.InjectFault(http.MethodGet, "/products", middleware.Fault{Status: http.StatusInternalServerError})
	s.ClearFaults()
	w = doRequest(t, s, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func passwordLogin(t *testing.T, s *Server, path, email string) string {
	t.Helper()
	w := doRequest(t, s, http.MethodPost, path, "", dto.PasswordLoginRequest{Email: email, Password: "password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody[dto.AuthResponse](t, w).JWT
}

func TestSellerDashboard(t *testing.T) {
	s := newTestServer()
	seller := passwordLogin(t, s, "/sellers/login-password", "seller@bazaar.test")
	customer := loginCustomer(t, s, "customer@bazaar.test")

	w := doRequest(t, s, http.MethodGet, "/api/sellers/products", seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Product](t, w), 3)

	w = doRequest(t, s, http.MethodGet, "/api/sellers/products", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/seller/subscription/plans", seller, nil)
	require.Equal(t, http.StatusOK, w.Code)
	plans := decodeBody[[]domain.SubscriptionPlan](t, w)
	require.Len(t, plans, 4)
	assert.True(t, plans[3].IsUnlimited())

	products := decodeBody[[]domain.Product](t, doRequest(t, s, http.MethodGet, "/products/search?query=jeans", "", nil))
	require.Len(t, products, 1)
	doRequest(t, s, http.MethodPut, "/api/cart/add", customer, dto.AddItemRequest{ProductID: products[0].ID, Size: "L", Quantity: 1})
	address := domain.Address{Name: "Ann", Mobile: "9000000000", Street: "1 Main", City: "Pune", State: "MH", Pincode: "411001"}
	w = doRequest(t, s, http.MethodPost, "/api/orders?paymentMethod=CASH_ON_DELIVERY", customer, address)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, s, http.MethodGet, "/api/seller/orders", seller, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	orders := decodeBody[[]domain.Order](t, w)
	require.Len(t, orders, 1)

	path := "/api/seller/orders/" + itoa(orders[0].ID) + "/status/"
	w = doRequest(t, s, http.MethodPatch, path+"LOST", seller, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPatch, path+"SHIPPED", seller, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, domain.OrderStatusShipped, decodeBody[domain.Order](t, w).OrderStatus)

	w = doRequest(t, s, http.MethodPatch, "/api/seller/orders/999/status/SHIPPED", seller, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminListings(t *testing.T) {
	s := newTestServer()
	admin := passwordLogin(t, s, "/auth/login-password", "admin@bazaar.test")
	customer := loginCustomer(t, s, "customer@bazaar.test")

	w := doRequest(t, s, http.MethodGet, "/admin/users", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Admin role required.", decodeBody[response.ErrorBody](t, w).Message)

	w = doRequest(t, s, http.MethodGet, "/admin/users?page=0&size=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody[dto.UserPage](t, w)
	assert.Len(t, users.Users, 2)
	assert.Equal(t, 3, users.TotalItems)
	assert.Equal(t, 2, users.TotalPages)

	w = doRequest(t, s, http.MethodGet, "/admin/users?page=5", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[dto.UserPage](t, w).Users)

	users = decodeBody[dto.UserPage](t, doRequest(t, s, http.MethodGet, "/admin/users?search=CUSTOMER", admin, nil))
	require.Len(t, users.Users, 1)
	assert.Equal(t, "customer@bazaar.test", users.Users[0].Email)

	sellers := decodeBody[dto.SellerPage](t, doRequest(t, s, http.MethodGet, "/admin/sellers?status=ACTIVE", admin, nil))
	require.Len(t, sellers.Sellers, 1)
	assert.Equal(t, "Demo Shop", sellers.Sellers[0].SellerName)

	sellers = decodeBody[dto.SellerPage](t, doRequest(t, s, http.MethodGet, "/admin/sellers?status=BANNED", admin, nil))
	assert.Empty(t, sellers.Sellers)
}
