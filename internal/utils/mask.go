package utils

import "strings"

// MaskSecret keeps the first four characters of a credential for display.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", 5)
	}
	return s[:4] + strings.Repeat("*", 5)
}
