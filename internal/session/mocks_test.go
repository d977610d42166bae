package session

import (
	"context"
	"errors"
	"sync"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
)

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mu sync.Mutex

	token      string
	user       *domain.User
	seller     *domain.Seller
	signinErr  error
	profileErr error
	// gate, when set, blocks the token exchange until it is closed
	gate    chan struct{}
	entered chan struct{}

	calls map[string]int
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		token:  "token-1",
		user:   &domain.User{ID: 1, FullName: "Ann", Email: "a@b.com", Role: domain.RoleCustomer},
		seller: &domain.Seller{ID: 9, SellerName: "Shop", Email: "shop@b.com"},
		calls:  make(map[string]int),
	}
}

func (m *MockAuthService) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockAuthService) record(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

func (m *MockAuthService) exchange(ctx context.Context, name string) (*dto.AuthResponse, error) {
	m.record(name)
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.signinErr != nil {
		return nil, m.signinErr
	}
	return &dto.AuthResponse{JWT: m.token}, nil
}

func (m *MockAuthService) SendOtp(_ context.Context, req *dto.SendOtpRequest) (*dto.APIResponse, error) {
	m.record("SendOtp")
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &dto.APIResponse{Message: "otp sent"}, nil
}

func (m *MockAuthService) Signin(ctx context.Context, _ *dto.SigninRequest) (*dto.AuthResponse, error) {
	return m.exchange(ctx, "Signin")
}

func (m *MockAuthService) SigninWithPassword(ctx context.Context, _ *dto.PasswordLoginRequest) (*dto.AuthResponse, error) {
	return m.exchange(ctx, "SigninWithPassword")
}

func (m *MockAuthService) Signup(ctx context.Context, _ *dto.SignupRequest) (*dto.AuthResponse, error) {
	return m.exchange(ctx, "Signup")
}

func (m *MockAuthService) SendSignupOtp(_ context.Context, _ *dto.SignupWithPasswordRequest) (*dto.APIResponse, error) {
	m.record("SendSignupOtp")
	return &dto.APIResponse{Message: "otp sent"}, nil
}

func (m *MockAuthService) VerifySignupOtp(ctx context.Context, _ *dto.VerifyOtpRequest) (*dto.AuthResponse, error) {
	return m.exchange(ctx, "VerifySignupOtp")
}

func (m *MockAuthService) ForgotPassword(_ context.Context, _ string) (*dto.APIResponse, error) {
	return nil, errors.New("not implemented")
}

func (m *MockAuthService) ResetPassword(_ context.Context, _ *dto.ResetPasswordRequest) (*dto.APIResponse, error) {
	return nil, errors.New("not implemented")
}

func (m *MockAuthService) Profile(_ context.Context) (*domain.User, error) {
	m.record("Profile")
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	u := *m.user
	return &u, nil
}

func (m *MockAuthService) SellerSignin(ctx context.Context, _ *dto.SigninRequest) (*dto.AuthResponse, error) {
	return m.exchange(ctx, "SellerSignin")
}

func (m *MockAuthService) SellerSigninWithPassword(ctx context.Context, _ *dto.PasswordLoginRequest) (*dto.AuthResponse, error) {
	return m.exchange(ctx, "SellerSigninWithPassword")
}

func (m *MockAuthService) SellerProfile(_ context.Context) (*domain.Seller, error) {
	m.record("SellerProfile")
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	s := *m.seller
	return &s, nil
}

// MockCartService is a mock implementation of service.CartService backed by
// one in-memory cart
type MockCartService struct {
	mu      sync.Mutex
	cart    domain.Cart
	nextID  int64
	getErr  error
	mutErr  error
	getGate chan struct{}
	gets    int
}

func NewMockCartService() *MockCartService {
	return &MockCartService{cart: domain.Cart{ID: 1}, nextID: 100}
}

func (m *MockCartService) GetCart(ctx context.Context) (*domain.Cart, error) {
	m.mu.Lock()
	m.gets++
	gate := m.getGate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c := m.cart
	c.CartItems = append([]domain.CartItem(nil), m.cart.CartItems...)
	return &c, nil
}

func (m *MockCartService) AddItem(_ context.Context, req *dto.AddItemRequest) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutErr != nil {
		return nil, m.mutErr
	}
	m.nextID++
	item := domain.CartItem{ID: m.nextID, Size: req.Size, Quantity: req.Quantity, SellingPrice: 450, MrpPrice: 600}
	m.cart.CartItems = append(m.cart.CartItems, item)
	m.recompute()
	return &item, nil
}

func (m *MockCartService) UpdateItem(_ context.Context, id int64, req *dto.UpdateItemRequest) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutErr != nil {
		return nil, m.mutErr
	}
	for i := range m.cart.CartItems {
		if m.cart.CartItems[i].ID == id {
			m.cart.CartItems[i].Quantity = req.Quantity
			m.recompute()
			item := m.cart.CartItems[i]
			return &item, nil
		}
	}
	return nil, errors.New("Cart item not found")
}

func (m *MockCartService) RemoveItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutErr != nil {
		return m.mutErr
	}
	items := m.cart.CartItems[:0]
	for _, it := range m.cart.CartItems {
		if it.ID != id {
			items = append(items, it)
		}
	}
	m.cart.CartItems = items
	m.recompute()
	return nil
}

func (m *MockCartService) recompute() {
	m.cart.TotalItems, m.cart.TotalAmount, m.cart.TotalMrp = 0, 0, 0
	for _, it := range m.cart.CartItems {
		m.cart.TotalItems += it.Quantity
		m.cart.TotalAmount += it.SellingPrice * float64(it.Quantity)
		m.cart.TotalMrp += it.MrpPrice * float64(it.Quantity)
	}
}

func (m *MockCartService) setGetErr(err error) {
	m.mu.Lock()
	m.getErr = err
	m.mu.Unlock()
}

func (m *MockCartService) getCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

// failingStore keeps a token but cannot clear it
type failingStore struct {
	mu    sync.Mutex
	token string
	err   error
}

func (s *failingStore) Get(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *failingStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *failingStore) Clear(_ context.Context) error {
	return s.err
}
