package dto

import (
	"strings"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
)

// SendOtpRequest asks the backend to email a one-time code
type SendOtpRequest struct {
	Email string      `json:"email" binding:"required"`
	Role  domain.Role `json:"role" binding:"required"`
}

// Validate validates the SendOtpRequest
func (r *SendOtpRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if !r.Role.IsValid() {
		return domain.ErrInvalidRole
	}
	return nil
}

// SigninRequest exchanges an email and OTP for a token (customer and seller)
type SigninRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// Validate validates the SigninRequest
func (r *SigninRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(r.OTP) == "" {
		return domain.ErrInvalidOTP
	}
	return nil
}

// PasswordLoginRequest exchanges an email and password for a token
type PasswordLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate validates the PasswordLoginRequest
func (r *PasswordLoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if r.Password == "" {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// SignupRequest creates a customer account with an OTP
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	OTP      string `json:"otp" binding:"required"`
}

// Validate validates the SignupRequest
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(r.FullName) == "" {
		return domain.ErrInvalidFullName
	}
	if strings.TrimSpace(r.OTP) == "" {
		return domain.ErrInvalidOTP
	}
	return nil
}

// SignupWithPasswordRequest starts the password signup flow
type SignupWithPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate validates the SignupWithPasswordRequest
func (r *SignupWithPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(r.FullName) == "" {
		return domain.ErrInvalidFullName
	}
	if r.Password == "" {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// VerifyOtpRequest completes the password signup flow
type VerifyOtpRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// ForgotPasswordRequest asks for a password reset code
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest sets a new password with a reset code
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AuthResponse is returned by every token-issuing endpoint
type AuthResponse struct {
	JWT     string      `json:"jwt"`
	Message string      `json:"message,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
}

// APIResponse is the backend's plain acknowledgement
type APIResponse struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}
