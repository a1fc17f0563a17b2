package roster

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(555) 234-9999", "5552349999"},
		{"555.234.9999", "5552349999"},
		{"1-555-234-9999", "15552349999"},
		{"000-000-0000", "0000000000"},
		{"ext. 42", "42"},
		{"n/a", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := NormalizePhone(tt.in)
		if got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		digits string
		want   bool
	}{
		{"5552349999", true},
		{"", false},
		{"0000000000", false},
		{"0", false},
		{"15552349999", false}, // country-code prefix
		{"05552349999", true},  // leading zero is not all-zero
	}

	for _, tt := range tests {
		got := ValidPhone(tt.digits)
		if got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.digits, got, tt.want)
		}
	}
}
