package render

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	euroSuffix = " €"
	nbsp       = "\u00a0"
)

// FormatMoney renders a value as "1234,50 €". NaN and infinities render as
// zero.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0,00" + euroSuffix
	}
	return strings.Replace(fixed2(v), ".", ",", 1) + euroSuffix
}

// FormatEUR is the pt-PT currency style used for balances: grouping with a
// non-breaking space from five integer digits on ("12 345,50 €").
func FormatEUR(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	s := fixed2(v)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	if len(intPart) > 4 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteString(nbsp)
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	return sign + intPart + "," + frac + nbsp + "€"
}

// FormatAmount renders "12.50 €", the style of withdrawal history rows.
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fixed2(v) + euroSuffix
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Finite maps NaN and infinities to zero so the value survives JSON encoding.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
