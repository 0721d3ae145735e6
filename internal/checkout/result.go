package checkout

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront-client/internal/orders"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	"github.com/gabriel-vasile/mimetype"
)

const defaultPixMediaType = "image/png"

// Result is the payment presentation of a placed order. Absent payment
// fields are empty.
type Result struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	PaymentLink string `json:"paymentLink,omitempty"`
	PixImage    string `json:"pixImage,omitempty"`
	PixCode     string `json:"pixCode,omitempty"`
}

// extractor picks one value out of a raw checkout response.
type extractor func(orders.CheckoutResponse) (string, bool)

// firstOf returns the value of the first extractor that yields one.
func firstOf(resp orders.CheckoutResponse, extractors ...extractor) string {
	for _, extract := range extractors {
		if v, ok := extract(resp); ok {
			return v
		}
	}
	return ""
}

func field(key string) extractor {
	return func(resp orders.CheckoutResponse) (string, bool) {
		v, ok := resp.String(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
}

func fields(keys ...string) []extractor {
	out := make([]extractor, 0, len(keys))
	for _, key := range keys {
		out = append(out, field(key))
	}
	return out
}

var (
	orderIDFields  = fields("orderId", "id")
	statusFields   = fields("status")
	pixImageFields = fields("pixQrCodeImage", "pixQrCodeImageUrl", "qrCodeImage", "pixQrCodeBase64", "qrCodeBase64")
	pixCodeFields  = fields("pixCopyPaste", "pixQrCode", "qrCode")
	linkFields     = fields("paymentLink", "invoiceUrl")
)

// Normalize maps a raw order service answer onto Result. PIX fields are only
// read for PIX orders.
func Normalize(method enums.PaymentMethod, resp orders.CheckoutResponse) Result {
	result := Result{
		OrderID:     firstOf(resp, orderIDFields...),
		Status:      firstOf(resp, statusFields...),
		PaymentLink: absoluteHTTP(firstOf(resp, linkFields...)),
	}
	if method == enums.PaymentMethodPix {
		result.PixImage = EmbedImage(firstOf(resp, pixImageFields...))
		result.PixCode = firstOf(resp, pixCodeFields...)
	}
	return result
}

func absoluteHTTP(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw
	}
	return ""
}

// EmbedImage turns a bare base64 payload into a data URI. URLs and data URIs
// pass through.
func EmbedImage(raw string) string {
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "data:" + sniffImageType(raw) + ";base64," + raw
}

func sniffImageType(payload string) string {
	var decoded []byte
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(payload); err == nil {
			decoded = b
			break
		}
	}
	if len(decoded) == 0 {
		return defaultPixMediaType
	}
	mediaType, _, _ := strings.Cut(mimetype.Detect(decoded).String(), ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return defaultPixMediaType
	}
	return mediaType
}
