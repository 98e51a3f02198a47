package money

import "testing"

func TestParseNumericInput(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"1000", 1000},
		{" 80.5 ", 80.5},
		{"12.5kg", 12.5},
		{"-3", -3},
		{".5", 0.5},
		{"5.", 5},
		{"1e3", 1000},
		{"1e", 1},
		{"NaN", 0},
		{"Infinity", 0},
		{"1e999", 0},
	}

	for _, tc := range cases {
		if got := ParseNumericInput(tc.raw); got != tc.want {
			t.Fatalf("ParseNumericInput(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "USD 0.00"},
		{1085, "USD 1085.00"},
		{1258.6, "USD 1258.60"},
		{173.605, "USD 173.61"},
		{-2.5, "USD -2.50"},
	}

	for _, tc := range cases {
		if got := FormatUSD(tc.value); got != tc.want {
			t.Fatalf("FormatUSD(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormatLocal(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "0.00"},
		{350.25, "350.25"},
		{1258.6 * 350.25, "440,824.65"},
		{1234567.891, "1,234,567.89"},
	}

	for _, tc := range cases {
		if got := FormatLocal(tc.value); got != tc.want {
			t.Fatalf("FormatLocal(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestParseUSD(t *testing.T) {
	value, ok := ParseUSD("USD 1258.60")
	if !ok || value != 1258.6 {
		t.Fatalf("ParseUSD = %v, %v; want 1258.6, true", value, ok)
	}

	if _, ok := ParseUSD("—"); ok {
		t.Fatalf("expected placeholder text to be rejected")
	}
	if _, ok := ParseUSD(""); ok {
		t.Fatalf("expected empty text to be rejected")
	}
}
