// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
	"strconv"
)

// Money is a currency amount held in integer cents. The wire format is a plain
// decimal number (12.50), so arithmetic stays exact internally while the API
// keeps the shape clients expect.
type Money struct {
	Cents int64
}

func MoneyFromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

func (m Money) Float64() float64 {
	return float64(m.Cents) / 100
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) String() string {
	return strconv.FormatFloat(m.Float64(), 'f', 2, 64)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q", string(b))
	}
	*m = MoneyFromFloat(v)
	return nil
}
