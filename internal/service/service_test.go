package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

type reply struct {
	body string
	err  error
}

// fakeRequester answers from canned JSON bodies keyed by "METHOD path"
type fakeRequester struct {
	replies map[string]reply
	calls   []call
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{replies: make(map[string]reply)}
}

func (f *fakeRequester) on(method, path, body string) *fakeRequester {
	f.replies[method+" "+path] = reply{body: body}
	return f
}

func (f *fakeRequester) fail(method, path string, err error) *fakeRequester {
	f.replies[method+" "+path] = reply{err: err}
	return f
}

func (f *fakeRequester) Do(_ context.Context, method, path string, body any, query url.Values, out any) error {
	f.calls = append(f.calls, call{Method: method, Path: path, Query: query, Body: body})
	r, ok := f.replies[method+" "+path]
	if !ok {
		return errors.New("unexpected call " + method + " " + path)
	}
	if r.err != nil {
		return r.err
	}
	if out == nil || r.body == "" {
		return nil
	}
	if msg, ok := out.(*string); ok && !json.Valid([]byte(r.body)) {
		*msg = r.body
		return nil
	}
	return json.Unmarshal([]byte(r.body), out)
}

func (f *fakeRequester) Get(ctx context.Context, path string, query url.Values, out any) error {
	return f.Do(ctx, http.MethodGet, path, nil, query, out)
}

func (f *fakeRequester) Post(ctx context.Context, path string, body, out any) error {
	return f.Do(ctx, http.MethodPost, path, body, nil, out)
}

func (f *fakeRequester) Put(ctx context.Context, path string, body, out any) error {
	return f.Do(ctx, http.MethodPut, path, body, nil, out)
}

func (f *fakeRequester) Patch(ctx context.Context, path string, body, out any) error {
	return f.Do(ctx, http.MethodPatch, path, body, nil, out)
}

func (f *fakeRequester) Delete(ctx context.Context, path string, out any) error {
	return f.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (f *fakeRequester) last() call {
	return f.calls[len(f.calls)-1]
}

func TestAuthService_SendOtp(t *testing.T) {
	api := newFakeRequester().on(http.MethodPost, "/auth/sent/login-signup-otp",
		`{"message":"Verification code sent to email successfully"}`)
	svc := NewAuthService(api)

	res, err := svc.SendOtp(context.Background(), &dto.SendOtpRequest{Email: "a@b.com", Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, "Verification code sent to email successfully", res.Message)
	assert.Equal(t, &dto.SendOtpRequest{Email: "a@b.com", Role: domain.RoleCustomer}, api.last().Body)
}

func TestAuthService_SendOtp_Validation(t *testing.T) {
	api := newFakeRequester()
	svc := NewAuthService(api)

	_, err := svc.SendOtp(context.Background(), &dto.SendOtpRequest{Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.Empty(t, api.calls, "invalid input never reaches the backend")
}

func TestAuthService_TokenEndpoints(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(AuthService) (*dto.AuthResponse, error)
	}{
		{"signin", "/auth/signing", func(s AuthService) (*dto.AuthResponse, error) {
			return s.Signin(context.Background(), &dto.SigninRequest{Email: "a@b.com", OTP: "123456"})
		}},
		{"signin password", "/auth/login-password", func(s AuthService) (*dto.AuthResponse, error) {
			return s.SigninWithPassword(context.Background(), &dto.PasswordLoginRequest{Email: "a@b.com", Password: "pw"})
		}},
		{"signup", "/auth/signup", func(s AuthService) (*dto.AuthResponse, error) {
			return s.Signup(context.Background(), &dto.SignupRequest{Email: "a@b.com", FullName: "Ann", OTP: "123456"})
		}},
		{"verify signup", "/auth/signup-verify-otp", func(s AuthService) (*dto.AuthResponse, error) {
			return s.VerifySignupOtp(context.Background(), &dto.VerifyOtpRequest{Email: "a@b.com", OTP: "123456"})
		}},
		{"seller signin", "/sellers/login", func(s AuthService) (*dto.AuthResponse, error) {
			return s.SellerSignin(context.Background(), &dto.SigninRequest{Email: "s@b.com", OTP: "123456"})
		}},
		{"seller signin password", "/sellers/login-password", func(s AuthService) (*dto.AuthResponse, error) {
			return s.SellerSigninWithPassword(context.Background(), &dto.PasswordLoginRequest{Email: "s@b.com", Password: "pw"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeRequester().on(http.MethodPost, tt.path, `{"jwt":"tok","role":"ROLE_CUSTOMER"}`)
			res, err := tt.call(NewAuthService(api))
			require.NoError(t, err)
			assert.Equal(t, "tok", res.JWT)

			empty := newFakeRequester().on(http.MethodPost, tt.path, `{"message":"ok"}`)
			_, err = tt.call(NewAuthService(empty))
			assert.ErrorIs(t, err, domain.ErrNoToken)
		})
	}
}

func TestAuthService_Profiles(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodGet, "/users/profile", `{"id":1,"fullName":"Ann","email":"a@b.com","role":"ROLE_ADMIN"}`).
		on(http.MethodGet, "/sellers/profile", `{"id":2,"sellerName":"Shop","email":"s@b.com","accountStatus":"ACTIVE"}`)
	svc := NewAuthService(api)

	user, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	seller, err := svc.SellerProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountActive, seller.AccountStatus)
}

func TestCartService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodGet, "/api/cart", `{"id":1,"totalItems":3,"totalAmount":900,"cartItems":[]}`).
		on(http.MethodPut, "/api/cart/add", `{"id":11,"quantity":1}`).
		on(http.MethodPut, "/api/cart/item/11", `{"id":11,"quantity":2}`).
		on(http.MethodDelete, "/api/cart/item/11", `{"message":"Item Remove From Cart"}`)
	svc := NewCartService(api)
	ctx := context.Background()

	cart, err := svc.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalItems)

	item, err := svc.AddItem(ctx, &dto.AddItemRequest{ProductID: 7, Size: "M", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(11), item.ID)

	item, err = svc.UpdateItem(ctx, 11, &dto.UpdateItemRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	require.NoError(t, svc.RemoveItem(ctx, 11))

	_, err = svc.UpdateItem(ctx, 0, &dto.UpdateItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidCartItemID)
	_, err = svc.AddItem(ctx, &dto.AddItemRequest{ProductID: 7})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Len(t, api.calls, 4)
}

func TestProductService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodGet, "/products", `{"content":[{"id":7,"title":"Shirt"}],"totalElements":1,"totalPages":1}`).
		on(http.MethodGet, "/products/7", `{"id":7,"title":"Shirt","sizes":"S,M"}`).
		on(http.MethodGet, "/products/search", `[{"id":7},{"id":8}]`)
	svc := NewProductService(api)
	ctx := context.Background()

	page, err := svc.List(ctx, &dto.ProductFilter{Category: "men", PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
	assert.Equal(t, "men", api.last().Query.Get("category"))
	assert.Equal(t, "5", api.last().Query.Get("pageSize"))

	p, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M"}, p.SizeList())

	found, err := svc.Search(ctx, "shirt")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "shirt", api.last().Query.Get("query"))
}

func TestOrderService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodPost, "/api/orders", `{"payment_link_url":"COD","payment_link_id":"COD-5"}`).
		on(http.MethodGet, "/api/orders/user", `[{"id":5,"orderStatus":"PLACED"}]`).
		on(http.MethodGet, "/api/orders/5", `{"id":5,"orderStatus":"PLACED","shippingAddress":{"adderss":"1 Main Rd"}}`).
		on(http.MethodPut, "/api/orders/5/cancel", `Order cancelled successfully`)
	svc := NewOrderService(api)
	ctx := context.Background()

	addr := &domain.Address{Name: "Ann", Mobile: "080", Street: "1 Main Rd", City: "BKK", State: "BKK", Pincode: "10110"}
	link, err := svc.Create(ctx, addr, domain.PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	assert.True(t, link.IsCashOnDelivery())
	assert.Equal(t, "CASH_ON_DELIVERY", api.last().Query.Get("paymentMethod"))
	assert.Same(t, addr, api.last().Body)

	_, err = svc.Create(ctx, &domain.Address{}, domain.PaymentMethodStripe)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	_, err = svc.Create(ctx, addr, "PAYPAL")
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	orders, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, orders[0].OrderStatus)

	order, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "1 Main Rd", order.ShippingAddress.Street)

	msg, err := svc.Cancel(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Order cancelled successfully", msg)
	_, err = svc.Cancel(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderID)
}

func TestWishlistService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodGet, "/api/wishlist", `{"id":1,"products":[{"id":7}]}`).
		on(http.MethodPost, "/api/wishlist/add-product/8", `{"id":1,"products":[{"id":7},{"id":8}]}`)
	svc := NewWishlistService(api)

	wl, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, wl.Contains(7))

	wl, err = svc.AddProduct(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, wl.Contains(8))
}

func TestReviewService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodGet, "/api/products/7/reviews", `[{"id":1,"rating":4,"reviewText":"good"}]`).
		on(http.MethodPost, "/api/products/7/reviews", `{"id":2,"rating":5}`).
		on(http.MethodPatch, "/api/reviews/2", `{"id":2,"rating":3}`).
		on(http.MethodDelete, "/api/reviews/2", `{"message":"Review deleted successfully"}`).
		on(http.MethodPost, "/api/products/7/discussions", `{"id":9,"content":"Fits large?"}`)
	svc := NewReviewService(api)
	ctx := context.Background()

	reviews, err := svc.List(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "good", reviews[0].ReviewText)

	_, err = svc.Create(ctx, 7, &dto.ReviewRequest{ReviewRating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	r, err := svc.Create(ctx, 7, &dto.ReviewRequest{ReviewText: "great", ReviewRating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, r.Rating)

	r, err = svc.Update(ctx, 2, &dto.ReviewRequest{ReviewRating: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.Rating)

	res, err := svc.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Review deleted successfully", res.Message)

	d, err := svc.Discuss(ctx, 7, "Fits large?")
	require.NoError(t, err)
	assert.Equal(t, &dto.DiscussionRequest{Content: "Fits large?"}, api.last().Body)
	assert.Equal(t, int64(9), d.ID)

	_, err = svc.Discuss(ctx, 7, "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestSellerService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodPatch, "/sellers/verify/123456", `{"jwt":"seller-tok","role":"ROLE_SELLER"}`).
		on(http.MethodGet, "/sellers/analytics/top-products", `[{"productId":7,"totalSales":3}]`).
		on(http.MethodPatch, "/api/seller/orders/5/status/SHIPPED", `{"id":5,"orderStatus":"SHIPPED"}`).
		on(http.MethodDelete, "/api/seller/orders/5/delete", ``)
	svc := NewSellerService(api)
	ctx := context.Background()

	res, err := svc.VerifyEmail(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, res.Role)

	rows, err := svc.TopProducts(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows[0].TotalSales)
	assert.Equal(t, "3", api.last().Query.Get("limit"))

	order, err := svc.UpdateOrderStatus(ctx, 5, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.OrderStatus)

	_, err = svc.UpdateOrderStatus(ctx, 5, "LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)

	require.NoError(t, svc.DeleteOrder(ctx, 5))
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	api := newFakeRequester().on(http.MethodPost, "/api/seller/subscription/subscribe", `{"url":"https://pay.example/cs_1"}`)
	svc := NewSubscriptionService(api)

	res, err := svc.Subscribe(context.Background(), &domain.SubscriptionPlan{Name: "Pro", PlanType: domain.PlanPro, Price: 4900})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_1", res.URL)
	assert.Equal(t, "4900", api.last().Body.(*dto.SubscribeRequest).Price)
}

func TestAdminService(t *testing.T) {
	api := newFakeRequester().
		on(http.MethodGet, "/admin/users", `{"users":[{"id":1,"email":"a@b.com"}],"currentPage":0,"totalItems":1,"totalPages":1}`).
		on(http.MethodPut, "/admin/users/1/role", `{"id":1,"role":"ROLE_ADMIN"}`).
		on(http.MethodPatch, "/admin/sellers/2/status", `{"id":2,"accountStatus":"SUSPENDED"}`)
	svc := NewAdminService(api)
	ctx := context.Background()

	page, err := svc.Users(ctx, &dto.AdminListQuery{Search: "a@"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, "a@", api.last().Query.Get("search"))

	u, err := svc.UpdateUserRole(ctx, 1, domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	s, err := svc.UpdateSellerStatus(ctx, 2, domain.AccountSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountSuspended, s.AccountStatus)

	_, err = svc.UpdateUserRole(ctx, 1, "ROLE_ROOT")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestService_PropagatesBackendErrors(t *testing.T) {
	backendErr := &api.Error{Kind: api.KindServer, Message: "Invalid OTP", StatusCode: http.StatusBadRequest}
	fake := newFakeRequester().fail(http.MethodPost, "/auth/signing", backendErr)

	_, err := NewAuthService(fake).Signin(context.Background(), &dto.SigninRequest{Email: "a@b.com", OTP: "000000"})
	assert.Same(t, backendErr, err)
	assert.True(t, api.IsServerError(err))
}

func TestService_LocalFailuresAreRequestErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRequester().
		on(http.MethodPost, "/auth/signing", `{"jwt":"","message":"ok"}`).
		fail(http.MethodGet, "/api/cart", errors.New("dial tcp: refused"))

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"missing email", func() error {
			_, err := NewAuthService(fake).SendOtp(ctx, &dto.SendOtpRequest{Role: domain.RoleCustomer})
			return err
		}, domain.ErrInvalidEmail},
		{"no token in reply", func() error {
			_, err := NewAuthService(fake).Signin(ctx, &dto.SigninRequest{Email: "a@b.com", OTP: "123456"})
			return err
		}, domain.ErrNoToken},
		{"bad cart item id", func() error {
			_, err := NewCartService(fake).UpdateItem(ctx, 0, &dto.UpdateItemRequest{Quantity: 1})
			return err
		}, domain.ErrInvalidCartItemID},
		{"bad quantity", func() error {
			_, err := NewCartService(fake).AddItem(ctx, &dto.AddItemRequest{ProductID: 7, Size: "M"})
			return err
		}, domain.ErrInvalidQuantity},
		{"bad order id", func() error {
			_, err := NewOrderService(fake).Get(ctx, 0)
			return err
		}, domain.ErrInvalidOrderID},
		{"bad role", func() error {
			_, err := NewAdminService(fake).UpdateUserRole(ctx, 1, "ROLE_ROOT")
			return err
		}, domain.ErrInvalidRole},
		{"unclassified transport failure", func() error {
			_, err := NewCartService(fake).GetCart(ctx)
			return err
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, api.IsRequestError(err), "got %T %v", err, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, tt.want.Error(), api.Message(err))
			}
		})
	}
}
