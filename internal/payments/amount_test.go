package payments

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRupeesToPaise(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1", 100},
		{"500", 50000},
		{"99.99", 9999},
		{"10.4", 1040},
		{"123.456", 12346},
		{"1000000000", 100000000000},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := RupeesToPaise(json.Number(tc.in))
			if err != nil {
				t.Fatalf("RupeesToPaise(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("RupeesToPaise(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestRupeesToPaiseRejectsInvalid(t *testing.T) {
	for _, in := range []string{"0", "0.99", "-5", "abc", "1000000001", "1e18", "92233720368547758.07"} {
		t.Run(in, func(t *testing.T) {
			if _, err := RupeesToPaise(json.Number(in)); err == nil {
				t.Fatalf("RupeesToPaise(%q) accepted invalid amount", in)
			}
		})
	}
}

func TestFormatINR(t *testing.T) {
	got := FormatINR(123450)
	if !strings.Contains(got, "₹") {
		t.Fatalf("FormatINR(123450) = %q, missing currency symbol", got)
	}
	if !strings.Contains(got, "234.50") {
		t.Fatalf("FormatINR(123450) = %q, unexpected amount", got)
	}
}
