package orders

import (
	"encoding/json"

	"github.com/angelmondragon/storefront-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the body of POST /orders/checkout. ProductIDs carries one
// entry per unit.
type CheckoutRequest struct {
	UserID        int64               `json:"userId"`
	ProductIDs    []int64             `json:"productIds"`
	Amount        json.Number         `json:"amount"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
}

// AmountOf renders a money value the way the order service compares it.
func AmountOf(amount decimal.Decimal) json.Number {
	return json.Number(amount.StringFixed(2))
}

// CheckoutResponse is the raw order service answer. Field names vary between
// deployments, so callers pick values by alias.
type CheckoutResponse map[string]any

// String returns the first non-empty string or number found under keys.
func (r CheckoutResponse) String(keys ...string) (string, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}
