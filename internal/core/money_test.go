package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents  int64
		plain  string
		signed string
	}{
		{1234, "£12.34", "+£12.34"},
		{-1234, "-£12.34", "-£12.34"},
		{0, "£0.00", "£0.00"},
		{5, "£0.05", "+£0.05"},
	}
	for _, tc := range cases {
		m := Money{Cents: tc.cents}
		if got := m.Format("£"); got != tc.plain {
			t.Fatalf("%d Format = %q, want %q", tc.cents, got, tc.plain)
		}
		if got := m.FormatSigned("£"); got != tc.signed {
			t.Fatalf("%d FormatSigned = %q, want %q", tc.cents, got, tc.signed)
		}
	}
}

func TestMoneyToBase(t *testing.T) {
	cases := []struct {
		cents int64
		rate  float64
		want  int64
	}{
		{1270, 1.27, 1000}, // 12.70 USD at 1.27 -> £10.00
		{1000, 1.0, 1000},
		{1000, 0, 1000}, // unknown rate leaves the amount alone
		{999, 2.0, 500}, // rounds half up
	}
	for _, tc := range cases {
		got := Money{Cents: tc.cents}.ToBase(tc.rate)
		if got.Cents != tc.want {
			t.Fatalf("ToBase(%d, %v) = %d, want %d", tc.cents, tc.rate, got.Cents, tc.want)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	if got := (Money{Cents: 1234}).Decimal(); got != "12.34" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -5}).Decimal(); got != "-0.05" {
		t.Fatalf("got %q", got)
	}
}
