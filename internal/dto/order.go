package dto

import (
	"strings"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
)

// ValidateAddress checks the fields the checkout forms require
func ValidateAddress(a *domain.Address) error {
	if a == nil {
		return domain.ErrInvalidAddress
	}
	for _, f := range []string{a.Name, a.Mobile, a.Street, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(f) == "" {
			return domain.ErrInvalidAddress
		}
	}
	return nil
}
