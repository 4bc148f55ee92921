package validators

import "strings"

// SanitizeString trims surrounding whitespace and enforces a byte cap on
// free-text input before it reaches the services.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// NormalizeCode canonicalizes user-supplied lookup codes (coupons) to
// trimmed upper case. Returns nil when the result is empty.
func NormalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	normalized := strings.ToUpper(SanitizeString(*code, 64))
	if normalized == "" {
		return nil
	}
	return &normalized
}
