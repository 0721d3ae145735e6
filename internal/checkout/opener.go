package checkout

import (
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"go.uber.org/multierr"
)

// Opener presents an external payment page.
type Opener interface {
	// Open shows url in a new context.
	Open(url string) error
	// Navigate replaces the current context with url.
	Navigate(url string) error
}

// OpenPaymentLink opens the payment link of result, falling back to in-place
// navigation. A result without a link is a no-op.
func OpenPaymentLink(opener Opener, result Result) error {
	if result.PaymentLink == "" || opener == nil {
		return nil
	}
	openErr := opener.Open(result.PaymentLink)
	if openErr == nil {
		return nil
	}
	if err := opener.Navigate(result.PaymentLink); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, multierr.Append(openErr, err), "open payment link")
	}
	return nil
}
