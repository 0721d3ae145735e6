package enums

import (
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
)

// PaymentMethod is the wire value the order service accepts.
type PaymentMethod string

const (
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodPix:        "PIX",
	PaymentMethodCreditCard: "credit card",
	PaymentMethodDebitCard:  "debit card",
}

func (p PaymentMethod) String() string {
	return string(p)
}

// Label is the human name shown by the CLI.
func (p PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[p]; ok {
		return label
	}
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[p]
	return ok
}

// ParsePaymentMethod accepts any case, and dashes or spaces for underscores.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if method := PaymentMethod(normalized); method.IsValid() {
		return method, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method "+strings.TrimSpace(value))
}
