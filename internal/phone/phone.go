package phone

import "strings"

// Normalize canonicalizes free-form phone input into the single comparable
// form used everywhere in the ledger and the allow-list ("+" followed by
// digits). Every phone value must pass through here before any comparison.
//
// Rules, in order:
//   - strip everything that is not a digit
//   - empty result → "" (invalid/absent sentinel)
//   - leading "998" (national prefix) → "+" + digits
//   - leading "8" with more than 10 digits → trunk prefix, dropped
//   - anything else → "+" + digits as-is
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(digits, "998"):
		return "+" + digits
	case strings.HasPrefix(digits, "8") && len(digits) > 10:
		// 8 990 123 45 67 and +998901234567 must not look like two users
		return "+" + digits[1:]
	}
	return "+" + digits
}
