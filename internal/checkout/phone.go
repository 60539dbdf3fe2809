package checkout

import (
	"regexp"
	"strings"
)

// Russian mobile shape: optional +7/7/8, a 3-digit prefix starting with
// 4, 8 or 9, then 3+2+2 digits with optional separators. Whitespace is
// stripped before matching.
var (
	phoneRe      = regexp.MustCompile(`^(\+7|7|8)?[\s\-]?\(?[489][0-9]{2}\)?[\s\-]?[0-9]{3}[\s\-]?[0-9]{2}[\s\-]?[0-9]{2}$`)
	whitespaceRe = regexp.MustCompile(`\s`)
	nonDigitRe   = regexp.MustCompile(`\D`)
)

func ValidPhone(phone string) bool {
	return phoneRe.MatchString(whitespaceRe.ReplaceAllString(phone, ""))
}

// NormalizePhone strips everything but digits and rewrites the prefix to
// the canonical +7 form: a leading 8 becomes +7, a leading 7 gains the
// plus, anything else gets +7 prepended.
func NormalizePhone(phone string) string {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	switch {
	case strings.HasPrefix(digits, "8"):
		return "+7" + digits[1:]
	case strings.HasPrefix(digits, "7"):
		return "+" + digits
	default:
		return "+7" + digits
	}
}
