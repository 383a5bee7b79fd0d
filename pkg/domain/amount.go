package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
)

// prizeScale is the fixed-point scaling factor applied to decimal prize
// values before storage: one prize unit equals 1e24 smallest-denomination
// units. The float64 literal keeps the conversion identical to the
// historical contract behavior.
const prizeScale = 1e24

// Amount is an unsigned fixed-point value in smallest-denomination units.
// It JSON-encodes as a decimal string so arbitrarily large values survive
// transport untouched. The zero value is zero units.
type Amount struct {
	units big.Int
}

// NewAmount returns an amount of the given number of units.
func NewAmount(units uint64) Amount {
	var a Amount
	a.units.SetUint64(units)
	return a
}

// AmountFromBig copies b into an Amount. Negative values are rejected.
func AmountFromBig(b *big.Int) (Amount, error) {
	if b == nil {
		return Amount{}, fmt.Errorf("amount: nil big.Int")
	}
	if b.Sign() < 0 {
		return Amount{}, fmt.Errorf("amount: negative value %s", b)
	}
	var a Amount
	a.units.Set(b)
	return a, nil
}

// ParseAmount parses a base-10 string of units.
func ParseAmount(s string) (Amount, error) {
	var i big.Int
	if _, ok := i.SetString(s, 10); !ok {
		return Amount{}, fmt.Errorf("amount: invalid decimal %q", s)
	}
	return AmountFromBig(&i)
}

// ScalePrize converts a decimal prize value into fixed-point units by
// multiplying with the 1e24 scaling factor and truncating toward zero.
// The multiplication happens in float64 to preserve the historical
// truncation behavior bit for bit.
func ScalePrize(value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, InvalidInputError{Reason: "prize value is not finite"}
	}
	if value < 0 {
		return Amount{}, InvalidInputError{Reason: "prize value is negative"}
	}
	scaled := big.NewFloat(value * prizeScale)
	units, _ := scaled.Int(nil)
	return AmountFromBig(units)
}

// Units returns a copy of the underlying integer value.
func (a Amount) Units() *big.Int {
	return new(big.Int).Set(&a.units)
}

// Cmp compares a against b, returning -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.units.Cmp(&b.units)
}

// Equal reports whether the two amounts are identical.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// IsZero reports whether the amount is zero units.
func (a Amount) IsZero() bool {
	return a.units.Sign() == 0
}

// Add returns a new amount holding a+b.
func (a Amount) Add(b Amount) Amount {
	var out Amount
	out.units.Add(&a.units, &b.units)
	return out
}

func (a Amount) String() string {
	return a.units.String()
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.units.String())
}

// UnmarshalJSON accepts a decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Fall back to a bare number literal.
		s = string(data)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
