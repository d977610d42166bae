package domain

import "errors"

// Domain errors
var (
	// Session errors
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSessionSuperseded = errors.New("session changed while request was in flight")
	ErrNoToken           = errors.New("backend returned no token")
	ErrNotSeller         = errors.New("seller account required")
	ErrNotAdmin          = errors.New("admin account required")

	// Validation errors
	ErrInvalidEmail       = errors.New("email is required")
	ErrInvalidOTP         = errors.New("otp is required")
	ErrInvalidCredentials = errors.New("exactly one of otp or password is required")
	ErrInvalidFullName    = errors.New("full name is required")
	ErrInvalidAccountKind = errors.New("invalid account kind")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidProductID   = errors.New("invalid product id")
	ErrInvalidCartItemID  = errors.New("invalid cart item id")
	ErrInvalidOrderID     = errors.New("invalid order id")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidPayment     = errors.New("invalid payment method")
	ErrInvalidAddress     = errors.New("shipping address is incomplete")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrEmptyContent       = errors.New("content is required")
)

// IsValidationError checks if the error is a client-side validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidOTP) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidFullName) ||
		errors.Is(err, ErrInvalidAccountKind) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidProductID) ||
		errors.Is(err, ErrInvalidCartItemID) ||
		errors.Is(err, ErrInvalidOrderID) ||
		errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidOrderStatus) ||
		errors.Is(err, ErrEmptyContent)
}
