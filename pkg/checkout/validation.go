package checkout

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/shopspring/decimal"
)

// LineInput describes one product of an order against current stock.
type LineInput struct {
	ProductID int64
	Price     decimal.Decimal
	Available int
	Requested int
}

// LineViolation is returned to callers when a line cannot be sold.
type LineViolation struct {
	ProductID    int64  `json:"product_id"`
	Reason       string `json:"reason"`
	AvailableQty int    `json:"available_qty"`
	RequestedQty int    `json:"requested_qty"`
}

const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonInvalidPrice      = "invalid_price"
)

// ValidateLines ensures every line is in stock and carries a positive price.
func ValidateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product list cannot be empty")
	}
	var violations []LineViolation
	for _, line := range lines {
		violation := LineViolation{
			ProductID:    line.ProductID,
			AvailableQty: line.Available,
			RequestedQty: line.Requested,
		}
		switch {
		case line.Available < line.Requested:
			violation.Reason = ReasonInsufficientStock
		case !line.Price.IsPositive():
			violation.Reason = ReasonInvalidPrice
		default:
			continue
		}
		violations = append(violations, violation)
	}
	if len(violations) == 0 {
		return nil
	}
	first := violations[0]
	msg := fmt.Sprintf("insufficient stock for product %d", first.ProductID)
	if first.Reason == ReasonInvalidPrice {
		msg = fmt.Sprintf("invalid price for product %d", first.ProductID)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{
		"violations": violations,
	})
}

// Total prices the lines.
func Total(lines []LineInput) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Requested))))
	}
	return total
}

// ValidateAmount compares a client amount to the computed total at cent
// precision, rounding half up.
func ValidateAmount(requested, expected decimal.Decimal) error {
	if requested.Round(2).Equal(expected.Round(2)) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout amount does not match products total").WithDetails(map[string]any{
		"expected": expected.StringFixed(2),
		"received": requested.StringFixed(2),
	})
}
