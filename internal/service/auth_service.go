package service

import (
	"context"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthService defines the backend's authentication endpoints
type AuthService interface {
	// SendOtp emails a login/signup code for the role
	SendOtp(ctx context.Context, req *dto.SendOtpRequest) (*dto.APIResponse, error)
	// Signin exchanges an email and OTP for a customer token
	Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error)
	// SigninWithPassword exchanges an email and password for a customer token
	SigninWithPassword(ctx context.Context, req *dto.PasswordLoginRequest) (*dto.AuthResponse, error)
	// Signup creates a customer account with an OTP
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	// SendSignupOtp starts the password signup flow
	SendSignupOtp(ctx context.Context, req *dto.SignupWithPasswordRequest) (*dto.APIResponse, error)
	// VerifySignupOtp completes the password signup flow
	VerifySignupOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*dto.APIResponse, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.APIResponse, error)
	// Profile fetches the signed-in customer or admin
	Profile(ctx context.Context) (*domain.User, error)

	SellerSignin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error)
	SellerSigninWithPassword(ctx context.Context, req *dto.PasswordLoginRequest) (*dto.AuthResponse, error)
	// SellerProfile fetches the signed-in seller
	SellerProfile(ctx context.Context) (*domain.Seller, error)
}

type authService struct {
	api Requester
}

// NewAuthService creates a new auth service
func NewAuthService(api Requester) AuthService {
	return &authService{api: api}
}

func (s *authService) SendOtp(ctx context.Context, req *dto.SendOtpRequest) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.send_otp")
	defer span.End()
	span.SetAttributes(attribute.String("role", string(req.Role)))

	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	var res dto.APIResponse
	if err := s.api.Post(ctx, "/auth/sent/login-signup-otp", req, &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *authService) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.signin")
	defer span.End()
	return s.token(ctx, span, "/auth/signing", req, req.Validate)
}

func (s *authService) SigninWithPassword(ctx context.Context, req *dto.PasswordLoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.signin_password")
	defer span.End()
	return s.token(ctx, span, "/auth/login-password", req, req.Validate)
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.signup")
	defer span.End()
	return s.token(ctx, span, "/auth/signup", req, req.Validate)
}

func (s *authService) SendSignupOtp(ctx context.Context, req *dto.SignupWithPasswordRequest) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.send_signup_otp")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	var res dto.APIResponse
	if err := s.api.Post(ctx, "/auth/signup-send-otp", req, &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *authService) VerifySignupOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.verify_signup_otp")
	defer span.End()
	return s.token(ctx, span, "/auth/signup-verify-otp", req, func() error {
		return (&dto.SigninRequest{Email: req.Email, OTP: req.OTP}).Validate()
	})
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.forgot_password")
	defer span.End()

	if email == "" {
		return nil, end(span, domain.ErrInvalidEmail)
	}
	var res dto.APIResponse
	if err := s.api.Post(ctx, "/auth/forgot-password", &dto.ForgotPasswordRequest{Email: email}, &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.reset_password")
	defer span.End()

	if req.Email == "" {
		return nil, end(span, domain.ErrInvalidEmail)
	}
	if req.OTP == "" {
		return nil, end(span, domain.ErrInvalidOTP)
	}
	var res dto.APIResponse
	if err := s.api.Post(ctx, "/auth/reset-password", req, &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *authService) Profile(ctx context.Context) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.profile")
	defer span.End()

	var user domain.User
	if err := s.api.Get(ctx, "/users/profile", nil, &user); err != nil {
		return nil, end(span, err)
	}
	return &user, end(span, nil)
}

func (s *authService) SellerSignin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.seller_signin")
	defer span.End()
	return s.token(ctx, span, "/sellers/login", req, req.Validate)
}

func (s *authService) SellerSigninWithPassword(ctx context.Context, req *dto.PasswordLoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.seller_signin_password")
	defer span.End()
	return s.token(ctx, span, "/sellers/login-password", req, req.Validate)
}

func (s *authService) SellerProfile(ctx context.Context) (*domain.Seller, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.seller_profile")
	defer span.End()

	var seller domain.Seller
	if err := s.api.Get(ctx, "/sellers/profile", nil, &seller); err != nil {
		return nil, end(span, err)
	}
	return &seller, end(span, nil)
}

// token posts a credential request and requires a jwt in the answer
func (s *authService) token(ctx context.Context, span trace.Span, path string, req any, validate func() error) (*dto.AuthResponse, error) {
	if err := validate(); err != nil {
		return nil, end(span, err)
	}
	var res dto.AuthResponse
	if err := s.api.Post(ctx, path, req, &res); err != nil {
		return nil, end(span, err)
	}
	if res.JWT == "" {
		return nil, end(span, domain.ErrNoToken)
	}
	return &res, end(span, nil)
}
