package dto

import (
	"strings"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
)

// SellerSignupRequest registers a seller. The backend emails a code that
// is redeemed through PATCH /sellers/verify/{otp}.
type SellerSignupRequest struct {
	SellerName      string                 `json:"sellerName" binding:"required"`
	Email           string                 `json:"email" binding:"required"`
	Password        string                 `json:"password,omitempty"`
	Mobile          string                 `json:"mobile"`
	GSTIN           string                 `json:"gstin,omitempty"`
	BusinessDetails domain.BusinessDetails `json:"businessDetails"`
	BankDetails     domain.BankDetails     `json:"bankDetails"`
	PickupAddress   *domain.Address        `json:"pickupaddress,omitempty"`
}

// Validate validates the SellerSignupRequest
func (r *SellerSignupRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(r.SellerName) == "" {
		return domain.ErrInvalidFullName
	}
	if r.PickupAddress != nil {
		return ValidateAddress(r.PickupAddress)
	}
	return nil
}

// SubscribeRequest buys a plan. Price travels as a string.
type SubscribeRequest struct {
	PlanName string          `json:"planName"`
	PlanType domain.PlanType `json:"planType" binding:"required"`
	Price    string          `json:"price"`
}

// SubscribeResponse is either a checkout URL (paid plans) or the
// activated subscription (free plan)
type SubscribeResponse struct {
	URL string `json:"url,omitempty"`
	*domain.SellerSubscription
}

// VerifyPaymentRequest confirms a completed checkout session
type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}
