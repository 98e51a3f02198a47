// Package money parses user-entered amounts and formats them for display.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	usdPrefix   = "USD"
	localFormat = "#,###.##"
)

// ParseNumericInput reads the leading decimal number of raw.
// Empty, non-numeric and non-finite input yields 0.
func ParseNumericInput(raw string) float64 {
	s := numericPrefix(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// numericPrefix returns the longest prefix of s that reads as a decimal number,
// so "12.5kg" gives "12.5" and "abc" gives "".
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}

	return strings.TrimSuffix(s[:end], ".")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Round2 rounds half away from zero to two decimal places.
func Round2(value float64) float64 {
	if !finite(value) {
		return 0
	}
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

// FormatUSD renders value as "USD 1258.60".
func FormatUSD(value float64) string {
	if !finite(value) {
		value = 0
	}
	return usdPrefix + " " + decimal.NewFromFloat(value).StringFixed(2)
}

// FormatLocal renders value with thousands grouping and two decimals, without
// a currency prefix: 440824.65 becomes "440,824.65".
func FormatLocal(value float64) string {
	return humanize.FormatFloat(localFormat, Round2(value))
}

// ParseUSD reads an amount back from a FormatUSD display text.
func ParseUSD(display string) (float64, bool) {
	s := strings.TrimSpace(strings.Replace(display, usdPrefix, "", 1))
	if s == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(value) {
		return 0, false
	}
	return value, true
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
