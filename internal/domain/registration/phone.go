package registration

import (
	"regexp"
	"strings"
)

// maxPhoneDigits is the length of a Korean mobile number (010-1234-5678).
const maxPhoneDigits = 11

var mobileRegex = regexp.MustCompile(`^01[016789][0-9]{7,8}$`)

// NormalizePhone strips everything but digits and truncates to 11 digits.
// Use ValidPhone before sending a normalized number anywhere.
func NormalizePhone(s string) string {
	d := digits(s)
	if len(d) > maxPhoneDigits {
		return d[:maxPhoneDigits]
	}
	return d
}

// ValidPhone reports whether s is a Korean mobile number. Every digit of s
// counts, so over-long input is rejected rather than truncated.
func ValidPhone(s string) bool {
	return mobileRegex.MatchString(digits(s))
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone formats s with hyphens as it is typed:
// "010" -> "010", "0101234" -> "010-1234", "01012345678" -> "010-1234-5678".
// Ten-digit numbers use the 3-3-4 grouping.
func FormatPhone(s string) string {
	d := NormalizePhone(s)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 7:
		return d[:3] + "-" + d[3:]
	case len(d) == 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	default:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
}
