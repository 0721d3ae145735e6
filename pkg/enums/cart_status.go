package enums

import (
	"fmt"
	"strings"
)

// CartStatus tracks whether a server cart is the user's open cart. Only
// ACTIVE carts are returned by the by-user lookup.
type CartStatus string

const (
	CartStatusActive   CartStatus = "ACTIVE"
	CartStatusInactive CartStatus = "INACTIVE"
)

func (c CartStatus) IsValid() bool {
	switch c {
	case CartStatusActive, CartStatusInactive:
		return true
	}
	return false
}

// ParseCartStatus accepts any casing. Blank input means ACTIVE, which is what
// the storefront sends when it creates a cart.
func ParseCartStatus(value string) (CartStatus, error) {
	status := CartStatus(strings.ToUpper(strings.TrimSpace(value)))
	if status == "" {
		return CartStatusActive, nil
	}
	if !status.IsValid() {
		return "", fmt.Errorf("invalid cart status %q", value)
	}
	return status, nil
}
