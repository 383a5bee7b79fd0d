package domain

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestScalePrizeWholeValue(t *testing.T) {
	got, err := ScalePrize(1)
	if err != nil {
		t.Fatalf("scale prize: %v", err)
	}
	want := new(big.Int)
	want.SetString("1000000000000000000000000", 10)
	if got.Units().Cmp(want) != 0 {
		t.Fatalf("expected %s units, got %s", want, got)
	}
}

func TestScalePrizeTruncatesTowardZero(t *testing.T) {
	// 0.5 scales exactly; the float64 product of an inexact decimal must
	// truncate, not round.
	half, err := ScalePrize(0.5)
	if err != nil {
		t.Fatalf("scale prize: %v", err)
	}
	want := new(big.Int)
	want.SetString("500000000000000000000000", 10)
	if half.Units().Cmp(want) != 0 {
		t.Fatalf("expected %s units, got %s", want, half)
	}

	tiny, err := ScalePrize(1e-25)
	if err != nil {
		t.Fatalf("scale prize: %v", err)
	}
	if !tiny.IsZero() {
		t.Fatalf("expected sub-unit value to truncate to zero, got %s", tiny)
	}
}

func TestScalePrizeRejectsInvalid(t *testing.T) {
	if _, err := ScalePrize(-1); !IsInvalidInput(err) {
		t.Fatalf("expected invalid input for negative value, got %v", err)
	}
}

func TestScalePrizeMatchesFloatProduct(t *testing.T) {
	// The conversion must be the plain float64 product: any value whose
	// scaled product is representable comes through unchanged.
	values := []float64{0, 1, 2.5, 100, 12345}
	for _, v := range values {
		got, err := ScalePrize(v)
		if err != nil {
			t.Fatalf("scale prize %v: %v", v, err)
		}
		want, _ := big.NewFloat(v * 1e24).Int(nil)
		if got.Units().Cmp(want) != 0 {
			t.Fatalf("value %v: expected %s units, got %s", v, want, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("1000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !a.Equal(NewAmount(1000000)) {
		t.Fatalf("expected 1000000, got %s", a)
	}
	if _, err := ParseAmount("-5"); err == nil {
		t.Fatalf("expected negative amounts to be rejected")
	}
	if _, err := ParseAmount("abc"); err == nil {
		t.Fatalf("expected non-decimal input to be rejected")
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(40)
	b := NewAmount(2)
	sum := a.Add(b)
	if !sum.Equal(NewAmount(42)) {
		t.Fatalf("expected 42, got %s", sum)
	}
	// Add must not mutate its operands.
	if !a.Equal(NewAmount(40)) || !b.Equal(NewAmount(2)) {
		t.Fatalf("operands mutated: %s %s", a, b)
	}
	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(a) != 0 {
		t.Fatalf("unexpected comparison results")
	}
}

func TestAmountJSONRoundTrip(t *testing.T) {
	large, err := ParseAmount("123456789012345678901234567890")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	raw, err := json.Marshal(large)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"123456789012345678901234567890"` {
		t.Fatalf("expected decimal string encoding, got %s", raw)
	}
	var back Amount
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(large) {
		t.Fatalf("round trip mismatch: %s", back)
	}

	var fromNumber Amount
	if err := json.Unmarshal([]byte("77"), &fromNumber); err != nil {
		t.Fatalf("unmarshal bare number: %v", err)
	}
	if !fromNumber.Equal(NewAmount(77)) {
		t.Fatalf("expected 77, got %s", fromNumber)
	}
}
