package checkout

import (
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestValidateLines_NoViolations(t *testing.T) {
	lines := []LineInput{
		{ProductID: 7, Price: decimal.RequireFromString("19.90"), Available: 5, Requested: 2},
		{ProductID: 9, Price: decimal.RequireFromString("20"), Available: 1, Requested: 1},
	}
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := Total(lines).StringFixed(2); got != "59.80" {
		t.Fatalf("expected total 59.80, got %s", got)
	}
}

func TestValidateLines_Violations(t *testing.T) {
	lines := []LineInput{
		{ProductID: 7, Price: decimal.RequireFromString("1"), Available: 1, Requested: 3},
		{ProductID: 9, Price: decimal.Zero, Available: 4, Requested: 1},
	}
	err := ValidateLines(lines)
	if err == nil {
		t.Fatal("expected violation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "insufficient stock for product 7" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]LineViolation)
	if !ok || len(violations) != 2 {
		t.Fatalf("expected two violations, got %v", details["violations"])
	}
	if violations[1].Reason != ReasonInvalidPrice {
		t.Fatalf("expected invalid price for second line, got %s", violations[1].Reason)
	}
}

func TestValidateLines_Empty(t *testing.T) {
	if err := ValidateLines(nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	expected := decimal.RequireFromString("59.80")
	for _, raw := range []string{"59.8", "59.80", "59.795", "59.804"} {
		if err := ValidateAmount(decimal.RequireFromString(raw), expected); err != nil {
			t.Fatalf("expected %s to match, got %v", raw, err)
		}
	}
	if err := ValidateAmount(decimal.RequireFromString("59.81"), expected); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}
