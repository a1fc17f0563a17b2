package roster

import "strings"

// NormalizePhone strips every non-digit character from a phone cell.
// "(555) 234-9999" becomes "5552349999".
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether a normalized (digits-only) phone number
// should be kept. Rejected numbers:
//   - empty (no digits in the source cell)
//   - all zeros (placeholder entries like 000-000-0000)
//   - leading "1" (country-code prefixed numbers the dialer can't use)
func ValidPhone(digits string) bool {
	if digits == "" {
		return false
	}
	if strings.Trim(digits, "0") == "" {
		return false
	}
	if digits[0] == '1' {
		return false
	}
	return true
}
