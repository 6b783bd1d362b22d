package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Amount is a display-only monetary value. The upstream API sends money either
// as JSON numbers or as decimal strings ("12.50"); both decode with float
// parsing. Unparsable input becomes NaN rather than failing the whole payload.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*a = 0
		return nil
	}

	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		*a = Amount(math.NaN())
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*a = Amount(math.NaN())
		return nil
	}

	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

func (a Amount) Float64() float64 {
	return float64(a)
}

// IsZero reports whether the amount is zero or not a number.
func (a Amount) IsZero() bool {
	v := float64(a)
	return v == 0 || math.IsNaN(v)
}
