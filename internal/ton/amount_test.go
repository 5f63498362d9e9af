package ton

import (
	"math/big"
	"testing"
)

func TestParseTON(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1", "1000000000", false},
		{"5.5", "5500000000", false},
		{"0.000000001", "1", false},
		{"0.0000000019", "1", false}, // extra precision truncated
		{" 10 ", "10000000000", false},
		{"0", "0", false},
		{"", "", true},
		{"1.2.3", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTON(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTON(%q): expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTON(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseTON(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatNano(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000000000", "1"},
		{"5500000000", "5.5"},
		{"1", "0.000000001"},
		{"0", "0"},
		{"-2500000000", "-2.5"},
	}

	for _, tt := range tests {
		nano, _ := new(big.Int).SetString(tt.in, 10)
		if got := FormatNano(nano); got != tt.want {
			t.Errorf("FormatNano(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"1", "5.5", "0.25", "123.456789"} {
		nano, err := ParseTON(s)
		if err != nil {
			t.Fatalf("ParseTON(%q): %v", s, err)
		}
		if got := FormatNano(nano); got != s {
			t.Errorf("round trip %q -> %s", s, got)
		}
	}
}
