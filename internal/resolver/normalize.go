package resolver

import "strings"

// NormalizePhone strips everything but digits (and a leading "+"), then drops
// a leading US country code so "+1 (555) 123-4567" and "5551234567" collide.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	normalized := b.String()

	normalized = strings.TrimPrefix(normalized, "+")
	if len(normalized) == 11 && strings.HasPrefix(normalized, "1") {
		normalized = normalized[1:]
	}
	return normalized
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
