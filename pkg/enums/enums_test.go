package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"PIX":          PaymentMethodPix,
		"pix":          PaymentMethodPix,
		" credit-card": PaymentMethodCreditCard,
		"DEBIT_CARD":   PaymentMethodDebitCard,
		"Debit Card":   PaymentMethodDebitCard,
	}
	for input, want := range cases {
		got, err := ParsePaymentMethod(input)
		if err != nil || got != want {
			t.Fatalf("ParsePaymentMethod(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParsePaymentMethod("boleto"); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if PaymentMethodCreditCard.Label() != "credit card" || PaymentMethod("CASH").Label() != "CASH" {
		t.Fatal("unexpected payment method label")
	}
}

func TestStatusesValidate(t *testing.T) {
	if !CartStatusActive.IsValid() || CartStatus("active").IsValid() {
		t.Fatal("cart status validation mismatch")
	}
	if _, err := ParseOrderStatus("PAID"); err != nil {
		t.Fatalf("parse order status: %v", err)
	}
	if _, err := ParseCartStatus("CLOSED"); err == nil {
		t.Fatal("expected error for unknown cart status")
	}
	for _, raw := range []string{"", " active "} {
		if got, err := ParseCartStatus(raw); err != nil || got != CartStatusActive {
			t.Fatalf("ParseCartStatus(%q) = %q, %v", raw, got, err)
		}
	}
	if OrderStatus("SHIPPED").IsValid() {
		t.Fatal("unexpected valid order status")
	}
}
